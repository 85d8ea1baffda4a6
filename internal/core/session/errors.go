package session

import "errors"

// Session-specific errors
var (
	ErrSessionClosed     = errors.New("session is closed")
	ErrAlreadyConnecting = errors.New("session connect already issued")
	ErrNotConnected      = errors.New("session is not connected")
	ErrUnsupportedScheme = errors.New("unsupported transport scheme")
)
