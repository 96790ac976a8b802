package ai

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when a provider has no API key.
var ErrMissingCredential = errors.New("reasoning backend credential not provided")

// StatusError reports a non-200 answer from a provider.
type StatusError struct {
	Provider string
	Status   string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status: %s", e.Provider, e.Status)
}

// Retryable reports whether the call may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
