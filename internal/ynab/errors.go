package ynab

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is matched by every *ExhaustedError.
	ErrExhausted = errors.New("fetch exhausted")
	// ErrMalformedResponse marks a 2xx response whose body is not the
	// expected JSON envelope. It is never retried.
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidConfig     = errors.New("invalid ynab client config")
)

// ExhaustedError reports that every attempt allowed by the policy failed.
type ExhaustedError struct {
	Endpoint string
	Policy   string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s after %d attempts (%s policy): %v", ErrExhausted, e.Endpoint, e.Attempts, e.Policy, e.Last)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// APIError is a non-2xx response. YNAB puts id/name/detail in an "error" object.
type APIError struct {
	StatusCode int
	ID         string `json:"id"`
	Name       string `json:"name"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("ynab: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("ynab: HTTP %d %s: %s", e.StatusCode, e.Name, e.Detail)
}
