package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

// CascadeCoordinator is the engine's hook into the translation subsystem.
// Both callbacks run inside the engine's storage transaction, so cascade
// failures roll back the triggering mutation.
type CascadeCoordinator interface {
	// TranslationApproved re-reads the siblings of a just-completed
	// translation and advances the parent when every sibling is complete.
	TranslationApproved(ctx context.Context, tx items.Repository, translation *items.Item, now time.Time) (parentAdvanced bool, err error)
	// PublishCascade propagates a parent's publication onto its
	// translations and reports how many it published.
	PublishCascade(ctx context.Context, tx items.Repository, parent *items.Item, publishedAt time.Time, publishedBy uuid.UUID) (int, error)
	// HasTranslations reports whether the parent has any translations.
	HasTranslations(ctx context.Context, tx items.Repository, parentID uuid.UUID) (bool, error)
}

// Engine is the stage transition core. It is stateless per request: every
// call reads the item, consults the transition table, and applies the
// mutation plus cascades inside one storage transaction.
type Engine struct {
	store    items.Repository
	users    interfaces.UserDirectory
	gate     *GateValidator
	table    *Table
	cascade  CascadeCoordinator
	logger   interfaces.Logger
	activity *activity.Emitter
	now      func() time.Time
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithClock overrides the time source (primarily for testing).
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithActivityEmitter wires the emitter used for audit and notification
// events.
func WithActivityEmitter(emitter *activity.Emitter) EngineOption {
	return func(e *Engine) {
		if emitter != nil {
			e.activity = emitter
		}
	}
}

// WithTable replaces the default transition table.
func WithTable(table *Table) EngineOption {
	return func(e *Engine) {
		if table != nil {
			e.table = table
		}
	}
}

// WithCascadeCoordinator wires the translation coordinator.
func WithCascadeCoordinator(coordinator CascadeCoordinator) EngineOption {
	return func(e *Engine) {
		e.cascade = coordinator
	}
}

// NewEngine constructs a transition engine over the supplied stores.
func NewEngine(store items.Repository, users interfaces.UserDirectory, opts ...EngineOption) *Engine {
	engine := &Engine{
		store:    store,
		users:    users,
		gate:     NewGateValidator(),
		table:    DefaultTable(),
		logger:   logging.NoOp(),
		activity: activity.NewEmitter(nil, activity.Config{}),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Transition applies the requested editorial action to the item.
func (e *Engine) Transition(ctx context.Context, req interfaces.TransitionRequest) (*interfaces.TransitionResult, error) {
	actor := identity.FromContract(req.Actor)
	action := domain.NormalizeAction(string(req.Action))

	if req.ItemID == uuid.Nil {
		return nil, fmt.Errorf("%w: item id required", ErrValidation)
	}
	if !actor.Valid() {
		return nil, ErrActorRequired
	}
	if !action.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	// Pre-transaction reads: current item, rule, permission, assignee.
	current, err := e.store.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	rule, ok := e.table.Lookup(current.Stage, action)
	if !ok {
		return nil, fmt.Errorf("%w: no %q from stage %q", ErrInvalidTransition, action, current.Stage)
	}
	if current.IsTranslation && action == domain.ActionPublish {
		// Translations publish through their parent's cascade only.
		return nil, fmt.Errorf("%w: translations publish via their parent", ErrInvalidTransition)
	}

	if err := e.checkPermission(rule, current, actor); err != nil {
		return nil, err
	}

	assigneeID, err := e.validateAssignee(ctx, rule, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	expected := current.Stage
	if string(req.ExpectedStage) != "" {
		expected = domain.NormalizeStage(string(req.ExpectedStage))
		if expected != current.Stage {
			return nil, fmt.Errorf("%w: stage is %q, caller expected %q", ErrInvalidTransition, current.Stage, expected)
		}
	}

	now := e.now().UTC()
	var result *interfaces.TransitionResult

	err = e.store.RunInTx(ctx, func(ctx context.Context, tx items.Repository) error {
		item, err := tx.GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		// Optimistic check: a concurrent actor may have moved the item
		// between the pre-transaction read and this point.
		if item.Stage != expected {
			return fmt.Errorf("%w: stage changed concurrently to %q", ErrInvalidTransition, item.Stage)
		}

		target := rule.To
		if item.IsTranslation && rule.TranslationTo != "" {
			target = rule.TranslationTo
		}

		if rule.Guarded {
			links, err := tx.ListClassifications(ctx, item.ID)
			if err != nil {
				return err
			}
			if missing := e.gate.CheckGate(item, links, target); len(missing) > 0 {
				return &GuardError{Missing: missing}
			}
		}

		if action == domain.ActionMarkTranslated && !item.IsTranslation {
			// The explicit skip-translation advance only applies to parents
			// without translations; with translations the coordinator
			// advances the parent when the last sibling completes.
			has, err := e.cascadeHasTranslations(ctx, tx, item.ID)
			if err != nil {
				return err
			}
			if has {
				return fmt.Errorf("%w: translations exist; the parent advances when they complete", ErrInvalidTransition)
			}
		}

		from := item.Stage
		item.SetStage(target)
		e.applyAssignee(item, rule, assigneeID)
		if action == domain.ActionSendBack {
			item.AssignedReviewerID = nil
			item.AssignedApproverID = nil
		}
		if target == domain.StagePublished {
			item.PublishedAt = &now
			publishedBy := actor.ID
			item.PublishedBy = &publishedBy
		}

		updated, err := tx.Update(ctx, item)
		if err != nil {
			return err
		}

		res := &interfaces.TransitionResult{
			ItemID:      updated.ID,
			Action:      interfaces.Action(action),
			FromStage:   interfaces.Stage(from),
			ToStage:     interfaces.Stage(updated.Stage),
			CompletedAt: now,
			Actor:       actor.Contract(),
		}

		if e.cascade != nil {
			if updated.IsTranslation && action == domain.ActionApprove {
				advanced, err := e.cascade.TranslationApproved(ctx, tx, updated, now)
				if err != nil {
					return err
				}
				res.ParentAdvanced = advanced
			}
			if !updated.IsTranslation && action == domain.ActionPublish {
				count, err := e.cascade.PublishCascade(ctx, tx, updated, now, actor.ID)
				if err != nil {
					return err
				}
				res.TranslationsPublished = count
			}
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("workflow.transition",
		"item_id", result.ItemID.String(),
		"action", string(result.Action),
		"from", string(result.FromStage),
		"to", string(result.ToStage),
		"actor_id", actor.ID.String(),
	)
	e.appendEffects(ctx, result, assigneeID, req.Metadata)

	return result, nil
}

// Readiness reports whether the action could run right now, using exactly
// the legality and gate logic Transition applies. It never mutates state.
func (e *Engine) Readiness(ctx context.Context, req interfaces.TransitionRequest) (*interfaces.ReadinessReport, error) {
	actor := identity.FromContract(req.Actor)
	if req.ItemID == uuid.Nil {
		return nil, fmt.Errorf("%w: item id required", ErrValidation)
	}
	if !actor.Valid() {
		return nil, ErrActorRequired
	}

	action := domain.NormalizeAction(string(req.Action))
	if string(req.Action) == "" {
		action = domain.ActionApprove
	}
	if !action.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	item, err := e.store.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	report := &interfaces.ReadinessReport{
		ItemID: item.ID,
		Action: interfaces.Action(action),
		Checks: map[string]bool{},
		Issues: []string{},
	}

	rule, ok := e.table.Lookup(item.Stage, action)
	report.Checks["transition"] = ok
	if !ok {
		report.Issues = append(report.Issues, fmt.Sprintf("no %q transition from stage %q", action, item.Stage))
		return report, nil
	}

	roleOK := e.checkPermission(rule, item, actor) == nil
	report.Checks["role"] = roleOK
	if !roleOK {
		report.Issues = append(report.Issues, "actor is not permitted to perform this transition")
	}

	gateOK := true
	if rule.Guarded {
		target := rule.To
		if item.IsTranslation && rule.TranslationTo != "" {
			target = rule.TranslationTo
		}
		links, err := e.store.ListClassifications(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		missing := e.gate.CheckGate(item, links, target)
		failed := make(map[string]bool, len(missing))
		for _, requirement := range missing {
			failed[requirement.Check] = true
			report.Issues = append(report.Issues, requirement.Message)
		}
		for _, check := range []string{checkCategory, checkLanguage, checkReligion} {
			report.Checks[check] = !failed[check]
		}
		gateOK = len(missing) == 0
	}

	if rule.RequiresAssignee {
		assigned := false
		switch rule.AssigneeSlot {
		case AssigneeSlotReviewer:
			assigned = item.AssignedReviewerID != nil
		case AssigneeSlotApprover:
			assigned = item.AssignedApproverID != nil
		}
		report.Checks["assignee"] = assigned
	}

	report.CanTransition = roleOK && gateOK
	return report, nil
}

func (e *Engine) checkPermission(rule Rule, item *items.Item, actor identity.Actor) error {
	min := rule.MinRole
	if actor.ID == item.AuthorID && rule.AuthorMinRole != "" {
		min = rule.AuthorMinRole
	}
	if !actor.Role.AtLeast(min) {
		return ErrForbidden
	}
	return e.checkAssignment(item, actor)
}

// checkAssignment enforces single-assignee review: when a review stage has a
// named assignee, only that user (or a higher tier) may act on the item.
func (e *Engine) checkAssignment(item *items.Item, actor identity.Actor) error {
	switch item.Stage {
	case domain.StageNeedsReviewerReview:
		if item.AssignedReviewerID != nil && *item.AssignedReviewerID != actor.ID && !actor.Role.AtLeast(domain.RoleApprover) {
			return ErrForbidden
		}
	case domain.StageNeedsApproverReview:
		if item.AssignedApproverID != nil && *item.AssignedApproverID != actor.ID && !actor.Role.AtLeast(domain.RoleAdmin) {
			return ErrForbidden
		}
	}
	return nil
}

func (e *Engine) validateAssignee(ctx context.Context, rule Rule, assigneeID *uuid.UUID) (*uuid.UUID, error) {
	if !rule.RequiresAssignee {
		return nil, nil
	}
	if assigneeID == nil || *assigneeID == uuid.Nil {
		return nil, ErrAssigneeRequired
	}
	if e.users == nil {
		return nil, fmt.Errorf("%w: user directory unavailable", ErrValidation)
	}
	role, err := e.users.RoleOf(ctx, *assigneeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssigneeRole, err)
	}
	if !domain.NormalizeRole(string(role)).AtLeast(rule.AssigneeMinRole) {
		return nil, ErrAssigneeRole
	}
	return assigneeID, nil
}

func (e *Engine) applyAssignee(item *items.Item, rule Rule, assigneeID *uuid.UUID) {
	if assigneeID == nil {
		return
	}
	switch rule.AssigneeSlot {
	case AssigneeSlotReviewer:
		item.AssignedReviewerID = assigneeID
	case AssigneeSlotApprover:
		item.AssignedApproverID = assigneeID
	}
}

func (e *Engine) cascadeHasTranslations(ctx context.Context, tx items.Repository, parentID uuid.UUID) (bool, error) {
	if e.cascade != nil {
		return e.cascade.HasTranslations(ctx, tx, parentID)
	}
	siblings, err := tx.ListTranslations(ctx, parentID)
	if err != nil {
		return false, err
	}
	return len(siblings) > 0, nil
}

// appendEffects records the audit entry and assignee notification for the
// completed transition. The cascade already ran inside the transaction.
func (e *Engine) appendEffects(ctx context.Context, result *interfaces.TransitionResult, assigneeID *uuid.UUID, metadata map[string]any) {
	auditData := map[string]any{
		"from": string(result.FromStage),
		"to":   string(result.ToStage),
	}
	for key, value := range metadata {
		auditData[key] = value
	}
	result.Effects = append(result.Effects, interfaces.TransitionEffect{
		Kind:    "audit",
		Message: fmt.Sprintf("item %s: %s (%s -> %s)", result.ItemID, result.Action, result.FromStage, result.ToStage),
		Data:    auditData,
	})
	_ = e.activity.Emit(ctx, activity.Event{
		Verb:       string(result.Action),
		ActorID:    result.Actor.ID.String(),
		ObjectType: "item",
		ObjectID:   result.ItemID.String(),
		Metadata:   auditData,
		OccurredAt: result.CompletedAt,
	})

	if assigneeID != nil {
		result.Effects = append(result.Effects, interfaces.TransitionEffect{
			Kind:    "notification",
			Message: fmt.Sprintf("item %s assigned to %s", result.ItemID, assigneeID),
			Data: map[string]any{
				"assignee_id": assigneeID.String(),
			},
		})
		_ = e.activity.Emit(ctx, activity.Event{
			Verb:       "assign",
			ActorID:    result.Actor.ID.String(),
			UserID:     assigneeID.String(),
			ObjectType: "item",
			ObjectID:   result.ItemID.String(),
			Channel:    "notifications",
			OccurredAt: result.CompletedAt,
		})
	}

	if result.TranslationsPublished > 0 {
		result.Effects = append(result.Effects, interfaces.TransitionEffect{
			Kind:    "cascade",
			Message: fmt.Sprintf("published %d translations of item %s", result.TranslationsPublished, result.ItemID),
		})
	}
	if result.ParentAdvanced {
		result.Effects = append(result.Effects, interfaces.TransitionEffect{
			Kind:    "cascade",
			Message: fmt.Sprintf("parent of item %s advanced to translated", result.ItemID),
		})
	}
}
