package workflowcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-newsroom/internal/commands"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

const publishItemMessageType = "newsroom.item.publish"

// PublishItemCommand requests publication of a translated parent item. The
// publish cascade pushes its translations live in the same transaction.
type PublishItemCommand struct {
	ItemID        uuid.UUID `json:"item_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	ActorName     string    `json:"actor_name,omitempty"`
	ActorRole     string    `json:"actor_role"`
	ExpectedStage string    `json:"expected_stage,omitempty"`
}

// Type implements command.Message.
func (PublishItemCommand) Type() string { return publishItemMessageType }

// Validate ensures the message carries the required fields before reaching
// handlers.
func (m PublishItemCommand) Validate() error {
	errs := validation.Errors{}
	if m.ItemID == uuid.Nil {
		errs["item_id"] = validation.NewError("newsroom.item.publish.item_id_required", "item_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("newsroom.item.publish.actor_id_required", "actor_id is required")
	}
	if !domain.NormalizeRole(m.ActorRole).Known() {
		errs["actor_role"] = validation.NewError("newsroom.item.publish.actor_role_invalid", "actor_role must be a known editorial role")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishItemHandler publishes items via the workflow engine using the
// shared command handler foundation.
type PublishItemHandler struct {
	inner *commands.Handler[PublishItemCommand]
}

// NewPublishItemHandler constructs a handler wired to the provided engine.
func NewPublishItemHandler(engine interfaces.TransitionEngine, logger interfaces.Logger, opts ...commands.HandlerOption[PublishItemCommand]) *PublishItemHandler {
	exec := func(ctx context.Context, msg PublishItemCommand) error {
		_, err := engine.Transition(ctx, interfaces.TransitionRequest{
			ItemID: msg.ItemID,
			Actor: interfaces.Actor{
				ID:   msg.ActorID,
				Name: msg.ActorName,
				Role: interfaces.Role(domain.NormalizeRole(msg.ActorRole)),
			},
			Action:        interfaces.Action(domain.ActionPublish),
			ExpectedStage: interfaces.Stage(msg.ExpectedStage),
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishItemCommand]{
		commands.WithLogger[PublishItemCommand](logger),
		commands.WithOperation[PublishItemCommand]("workflow.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishItemHandler{
		inner: commands.NewHandler[PublishItemCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishItemCommand].Execute.
func (h *PublishItemHandler) Execute(ctx context.Context, msg PublishItemCommand) error {
	return h.inner.Execute(ctx, msg)
}
