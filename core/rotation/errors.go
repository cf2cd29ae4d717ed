package rotation

import (
	"errors"
	"fmt"
)

// ErrUnsatisfiable is matched by every UnsatisfiableError.
var ErrUnsatisfiable = errors.New("rotation unsatisfiable")

// Hint is the advice attached to an unsatisfiable solve.
const Hint = "Try adjusting your constraints (starters, closers, positions, inexperienced players)."

// UnsatisfiableError is returned once every attempt failed.
type UnsatisfiableError struct {
	Attempts int
	// Stuck counts attempts aborted because a period could not be filled,
	// Invalid those whose completed grid failed validation.
	Stuck   int
	Invalid int
	// UnknownNames lists role names that matched no player.
	UnknownNames []string
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("Could not find a valid rotation after %d attempts. %s", e.Attempts, Hint)
}

// Unwrap allows errors.Is(err, ErrUnsatisfiable).
func (e *UnsatisfiableError) Unwrap() error { return ErrUnsatisfiable }
