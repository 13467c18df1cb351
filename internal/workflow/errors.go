package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden indicates the actor's role or assignment is insufficient.
	// The message stays generic on purpose: unauthorized actors learn that
	// they may not act, never why.
	ErrForbidden = errors.New("workflow: forbidden")

	// ErrInvalidTransition indicates the requested edge does not exist from
	// the item's current stage, including the case where the stage changed
	// concurrently since the caller last read it.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")

	// ErrGuardFailed is the sentinel wrapped by GuardError.
	ErrGuardFailed = errors.New("workflow: guard failed")

	// ErrValidation is the sentinel for malformed transition input.
	ErrValidation = errors.New("workflow: invalid input")

	// ErrAssigneeRequired indicates a handoff transition is missing its
	// assignee.
	ErrAssigneeRequired = fmt.Errorf("%w: assignee required", ErrValidation)

	// ErrAssigneeRole indicates the named assignee does not hold an
	// acceptable role for the handoff.
	ErrAssigneeRole = fmt.Errorf("%w: assignee role not acceptable", ErrValidation)

	// ErrUnknownAction indicates the verb is outside the closed action set.
	ErrUnknownAction = fmt.Errorf("%w: unknown action", ErrValidation)

	// ErrActorRequired indicates the request carries no valid actor.
	ErrActorRequired = fmt.Errorf("%w: actor required", ErrValidation)
)

// GuardError enumerates every approval precondition the item is missing.
type GuardError struct {
	Missing []MissingRequirement
}

// Error lists all failing preconditions, not just the first.
func (e *GuardError) Error() string {
	if len(e.Missing) == 0 {
		return ErrGuardFailed.Error()
	}
	messages := make([]string, 0, len(e.Missing))
	for _, requirement := range e.Missing {
		messages = append(messages, requirement.Message)
	}
	return "workflow: guard failed: " + strings.Join(messages, "; ")
}

// Unwrap lets callers match the guard sentinel with errors.Is.
func (e *GuardError) Unwrap() error {
	return ErrGuardFailed
}
