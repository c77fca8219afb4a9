package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrSignatureMismatch indicates payment verification failed
	// cryptographically.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrGatewayUnavailable indicates the payment gateway could not be
	// reached. Distinct from an invalid payment.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// ValidationError collects every input violation so the client sees the
// full list, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ConfigurationError names the settings section an operation found missing
// or incomplete.
type ConfigurationError struct {
	Section string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("settings section %q is missing or incomplete", e.Section)
}

// TransitionError reports a rejected order state transition.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.From, e.To)
}
