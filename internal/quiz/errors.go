package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidState = errors.New("action not allowed in current quiz state")

	// ErrDiscarded is returned by actions on a discarded session.
	ErrDiscarded = errors.New("quiz session discarded")
)

// UpstreamError indicates the question source failed or returned malformed
// questions. No partial quiz is installed.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("quiz generation failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func stateError(action string, s State) error {
	return fmt.Errorf("%s while %s: %w", action, s, ErrInvalidState)
}
