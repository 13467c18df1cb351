package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage represents an editorial workflow position understood by the engine.
type Stage string

// Role identifies an editorial permission tier.
type Role string

// Action is a workflow verb requested against a content item.
type Action string

// Actor is the authenticated editorial user performing an action. Identity
// and role resolution belong to the host application; the engine treats the
// actor as an explicit parameter on every call.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// TransitionRequest captures the data required to run an editorial transition.
type TransitionRequest struct {
	ItemID uuid.UUID
	Actor  Actor
	Action Action
	// AssigneeID names the reviewer or approver receiving the item on
	// handoff actions. Required when the transition rule demands one.
	AssigneeID *uuid.UUID
	// ExpectedStage, when set, is the stage the caller believes the item is
	// in. The engine re-checks it inside the storage transaction and fails
	// the transition if a concurrent actor moved the item first.
	ExpectedStage Stage
	Metadata      map[string]any
}

// TransitionResult describes the outcome of an editorial transition.
type TransitionResult struct {
	ItemID      uuid.UUID
	Action      Action
	FromStage   Stage
	ToStage     Stage
	CompletedAt time.Time
	Actor       Actor
	// ParentAdvanced reports that completing this translation advanced the
	// parent item as part of the same operation.
	ParentAdvanced bool
	// TranslationsPublished counts translations published by cascade during
	// this transition.
	TranslationsPublished int
	Effects               []TransitionEffect
}

// TransitionEffect is a side effect the engine recorded for the host
// application to observe (audit entries and notifications are also emitted
// through the activity hooks; cascades are applied by the engine itself).
type TransitionEffect struct {
	Kind    string
	Message string
	Data    map[string]any
}

// ReadinessReport mirrors the mutating transition checks without applying
// them. It backs the read-only readiness endpoint used by UIs to pre-render
// action availability.
type ReadinessReport struct {
	ItemID        uuid.UUID
	Action        Action
	CanTransition bool
	Issues        []string
	Checks        map[string]bool
}

// TransitionEngine coordinates editorial lifecycle transitions for items.
type TransitionEngine interface {
	Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error)
	Readiness(ctx context.Context, req TransitionRequest) (*ReadinessReport, error)
}

// UserDirectory resolves roles for assignee validation. Implementations sit
// in front of the host application's user store.
type UserDirectory interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (Role, error)
}
