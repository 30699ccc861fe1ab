package common

import "errors"

// Recoverable failures of the collaborators around the pet. None of them is
// fatal: callers log, show a fallback line, or continue with defaults.
var (
	ErrTimeout           = errors.New("deskpet: request timed out")
	ErrTransport         = errors.New("deskpet: transport failure")
	ErrMalformedResponse = errors.New("deskpet: malformed response")
	ErrPersistence       = errors.New("deskpet: persistence failure")
	ErrDisabled          = errors.New("deskpet: feature disabled")
)
