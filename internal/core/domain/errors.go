package domain

import "errors"

// Manager-specific errors
var (
	// ErrAlreadyConnected is returned when Connect is called while a
	// connection session is live. The existing session is left untouched.
	ErrAlreadyConnected = errors.New("domain connection already established")
)
