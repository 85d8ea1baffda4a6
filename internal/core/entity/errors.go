package entity

import "errors"

// Composition errors
var (
	ErrUnknownEntityKind  = errors.New("unknown entity kind")
	ErrNilBuilder         = errors.New("nil entity builder")
	ErrDuplicateBuilder   = errors.New("builder already registered for kind")
	ErrDuplicateComponent = errors.New("component already attached")
	ErrInvalidRecord      = errors.New("invalid entity record")
)
