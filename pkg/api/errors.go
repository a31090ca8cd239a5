package api

import "errors"

var (
	// ErrInvalidArgument reports an identifier or payload the client refuses to send.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidConfig reports a descriptor that cannot be constructed.
	ErrInvalidConfig = errors.New("invalid api config")

	ErrNotLiteral       = errors.New("endpoint template is parameterized")
	ErrNotParameterized = errors.New("endpoint template is literal")
	ErrUnknownEndpoint  = errors.New("unknown endpoint")
)
