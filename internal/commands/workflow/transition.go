package workflowcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-newsroom/internal/commands"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

const transitionItemMessageType = "newsroom.item.transition"

// TransitionItemCommand requests one editorial action against an item.
type TransitionItemCommand struct {
	ItemID        uuid.UUID      `json:"item_id"`
	ActorID       uuid.UUID      `json:"actor_id"`
	ActorName     string         `json:"actor_name,omitempty"`
	ActorRole     string         `json:"actor_role"`
	Action        string         `json:"action"`
	AssigneeID    *uuid.UUID     `json:"assignee_id,omitempty"`
	ExpectedStage string         `json:"expected_stage,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Type implements command.Message.
func (TransitionItemCommand) Type() string { return transitionItemMessageType }

// Validate ensures the message carries the required fields before reaching
// handlers.
func (m TransitionItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("newsroom.item.transition.item_id_required", "item_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("newsroom.item.transition.actor_id_required", "actor_id is required")
	}
	if !domain.NormalizeRole(m.ActorRole).Known() {
		errs["actor_role"] = validation.NewError("newsroom.item.transition.actor_role_invalid", "actor_role must be a known editorial role")
	}
	if !domain.NormalizeAction(m.Action).Known() {
		errs["action"] = validation.NewError("newsroom.item.transition.action_invalid", "action must be a known workflow verb")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionItemHandler applies transitions via the workflow engine using the
// shared command handler foundation.
type TransitionItemHandler struct {
	inner *commands.Handler[TransitionItemCommand]
}

// NewTransitionItemHandler constructs a handler wired to the provided engine.
func NewTransitionItemHandler(engine interfaces.TransitionEngine, logger interfaces.Logger, opts ...commands.HandlerOption[TransitionItemCommand]) *TransitionItemHandler {
	exec := func(ctx context.Context, msg TransitionItemCommand) error {
		_, err := engine.Transition(ctx, interfaces.TransitionRequest{
			ItemID: msg.ItemID,
			Actor: interfaces.Actor{
				ID:   msg.ActorID,
				Name: msg.ActorName,
				Role: interfaces.Role(domain.NormalizeRole(msg.ActorRole)),
			},
			Action:        interfaces.Action(domain.NormalizeAction(msg.Action)),
			AssigneeID:    msg.AssigneeID,
			ExpectedStage: interfaces.Stage(msg.ExpectedStage),
			Metadata:      msg.Metadata,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[TransitionItemCommand]{
		commands.WithLogger[TransitionItemCommand](logger),
		commands.WithOperation[TransitionItemCommand]("workflow.transition"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TransitionItemHandler{
		inner: commands.NewHandler[TransitionItemCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TransitionItemCommand].Execute.
func (h *TransitionItemHandler) Execute(ctx context.Context, msg TransitionItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
