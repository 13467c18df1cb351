package workflowcmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-newsroom/internal/commands"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

const fanOutMessageType = "newsroom.item.fanout"

// FanOutTarget names one translation to create.
type FanOutTarget struct {
	Language   string    `json:"language"`
	AssigneeID uuid.UUID `json:"assignee_id,omitempty"`
}

// FanOutTranslationsCommand requests translation fan-out on an approved
// parent item.
type FanOutTranslationsCommand struct {
	ParentID  uuid.UUID     `json:"parent_id"`
	ActorID   uuid.UUID     `json:"actor_id"`
	ActorName string        `json:"actor_name,omitempty"`
	ActorRole string        `json:"actor_role"`
	Targets   []FanOutTarget `json:"targets"`
}

// Type implements command.Message.
func (FanOutTranslationsCommand) Type() string { return fanOutMessageType }

// Validate ensures the message carries the required fields before reaching
// handlers.
func (m FanOutTranslationsCommand) Validate() error {
	errs := validation.Errors{}
	if m.ParentID == uuid.Nil {
		errs["parent_id"] = validation.NewError("newsroom.item.fanout.parent_id_required", "parent_id is required")
	}
	if m.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("newsroom.item.fanout.actor_id_required", "actor_id is required")
	}
	if !domain.NormalizeRole(m.ActorRole).Known() {
		errs["actor_role"] = validation.NewError("newsroom.item.fanout.actor_role_invalid", "actor_role must be a known editorial role")
	}
	if len(m.Targets) == 0 {
		errs["targets"] = validation.NewError("newsroom.item.fanout.targets_required", "at least one target language is required")
	}
	for _, target := range m.Targets {
		if strings.TrimSpace(target.Language) == "" {
			errs["targets"] = validation.NewError("newsroom.item.fanout.target_language_required", "every target needs a language")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FanOutTranslationsHandler creates translations via the coordinator using
// the shared command handler foundation.
type FanOutTranslationsHandler struct {
	inner *commands.Handler[FanOutTranslationsCommand]
}

// NewFanOutTranslationsHandler constructs a handler wired to the provided
// coordinator.
func NewFanOutTranslationsHandler(coordinator *translations.Coordinator, logger interfaces.Logger, opts ...commands.HandlerOption[FanOutTranslationsCommand]) *FanOutTranslationsHandler {
	exec := func(ctx context.Context, msg FanOutTranslationsCommand) error {
		targets := make([]translations.FanOutTarget, 0, len(msg.Targets))
		for _, target := range msg.Targets {
			targets = append(targets, translations.FanOutTarget{
				Language:   target.Language,
				AssigneeID: target.AssigneeID,
			})
		}
		_, err := coordinator.FanOut(ctx, translations.FanOutRequest{
			ParentID: msg.ParentID,
			Actor: identity.Actor{
				ID:   msg.ActorID,
				Name: msg.ActorName,
				Role: domain.NormalizeRole(msg.ActorRole),
			},
			Targets: targets,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[FanOutTranslationsCommand]{
		commands.WithLogger[FanOutTranslationsCommand](logger),
		commands.WithOperation[FanOutTranslationsCommand]("workflow.fanout"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FanOutTranslationsHandler{
		inner: commands.NewHandler[FanOutTranslationsCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[FanOutTranslationsCommand].Execute.
func (h *FanOutTranslationsHandler) Execute(ctx context.Context, msg FanOutTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}
