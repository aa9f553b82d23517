package tui

import "errors"

// ErrMissingSessionGate is returned when the session gate is not provided.
var ErrMissingSessionGate = errors.New("tui: session gate is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
