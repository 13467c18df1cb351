package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/internal/workflow"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

type stubDirectory map[uuid.UUID]interfaces.Role

func (d stubDirectory) RoleOf(_ context.Context, userID uuid.UUID) (interfaces.Role, error) {
	role, ok := d[userID]
	if !ok {
		return "", fmt.Errorf("user not found: %s", userID)
	}
	return role, nil
}

type fixture struct {
	engine    *workflow.Engine
	store     *items.MemoryRepository
	directory stubDirectory

	journalist interfaces.Actor
	reviewer   interfaces.Actor
	approver   interfaces.Actor
	admin      interfaces.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := items.NewMemoryRepository()
	classifications := classification.NewMemoryRepository()
	directory := stubDirectory{}

	coordinator := translations.NewCoordinator(store, classifications)
	engine := workflow.NewEngine(store, directory,
		workflow.WithCascadeCoordinator(coordinator),
		workflow.WithClock(func() time.Time {
			return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
		}),
	)

	f := &fixture{
		engine:     engine,
		store:      store,
		directory:  directory,
		journalist: actor("jon", interfaces.Role(domain.RoleJournalist)),
		reviewer:   actor("rita", interfaces.Role(domain.RoleReviewer)),
		approver:   actor("ana", interfaces.Role(domain.RoleApprover)),
		admin:      actor("amy", interfaces.Role(domain.RoleAdmin)),
	}
	for _, a := range []interfaces.Actor{f.journalist, f.reviewer, f.approver, f.admin} {
		directory[a.ID] = a.Role
	}
	return f
}

func actor(name string, role interfaces.Role) interfaces.Actor {
	return interfaces.Actor{ID: uuid.New(), Name: name, Role: role}
}

func (f *fixture) seedItem(stage domain.Stage, mutate ...func(*items.Item)) *items.Item {
	record := &items.Item{
		ID:       uuid.New(),
		Slug:     "storm-hits-coast-" + uuid.NewString()[:8],
		Title:    "Storm hits coast",
		Body:     "A storm made landfall overnight.",
		Language: "english",
		AuthorID: f.journalist.ID,
	}
	record.SetStage(stage)
	for _, fn := range mutate {
		fn(record)
	}
	f.store.Put(record)
	return record
}

// seedGateReady links a category plus language and religion classifications
// so the approval gate passes.
func (f *fixture) seedGateReady(record *items.Item) {
	categoryID := uuid.New()
	record.CategoryID = &categoryID
	f.store.Put(record)
	f.store.SetClassifications(record.ID,
		&classification.Classification{ID: uuid.New(), Kind: classification.KindLanguage, Name: "English", IsActive: true},
		&classification.Classification{ID: uuid.New(), Kind: classification.KindReligion, Name: "Hindu", IsActive: true},
	)
}

func (f *fixture) transition(t *testing.T, item *items.Item, a interfaces.Actor, action domain.Action, assignee *uuid.UUID) (*interfaces.TransitionResult, error) {
	t.Helper()
	return f.engine.Transition(context.Background(), interfaces.TransitionRequest{
		ItemID:     item.ID,
		Actor:      a,
		Action:     interfaces.Action(action),
		AssigneeID: assignee,
	})
}

func TestTransitionHappyPath(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)
	f.seedGateReady(item)

	steps := []struct {
		actor    interfaces.Actor
		action   domain.Action
		assignee *uuid.UUID
		want     domain.Stage
	}{
		{f.journalist, domain.ActionSubmitForReview, &f.reviewer.ID, domain.StageNeedsReviewerReview},
		{f.reviewer, domain.ActionSendForApproval, &f.approver.ID, domain.StageNeedsApproverReview},
		{f.approver, domain.ActionApprove, nil, domain.StageApproved},
		{f.approver, domain.ActionMarkTranslated, nil, domain.StageTranslated},
		{f.approver, domain.ActionPublish, nil, domain.StagePublished},
	}

	for _, step := range steps {
		result, err := f.transition(t, item, step.actor, step.action, step.assignee)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step.action, err)
		}
		if result.ToStage != interfaces.Stage(step.want) {
			t.Fatalf("%s: stage = %q, want %q", step.action, result.ToStage, step.want)
		}
	}

	final, err := f.store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Stage != domain.StagePublished {
		t.Fatalf("stage = %q, want published", final.Stage)
	}
	if final.Status != domain.StatusPublished {
		t.Fatalf("status = %q, want published", final.Status)
	}
	if final.PublishedAt == nil || final.PublishedBy == nil {
		t.Fatal("expected publication metadata to be set")
	}
	if *final.PublishedBy != f.approver.ID {
		t.Fatalf("published_by = %s, want approver", final.PublishedBy)
	}
}

func TestTransitionRoleBelowMinimumIsForbidden(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)
	f.seedGateReady(item)

	_, err := f.transition(t, item, f.reviewer, domain.ActionApprove, nil)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

// A role failure must be reported even when the gate would also fail: the
// permission check never depends on the item's validation state.
func TestTransitionForbiddenBeforeGuard(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)

	_, err := f.transition(t, item, f.journalist, domain.ActionApprove, nil)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if errors.Is(err, workflow.ErrGuardFailed) {
		t.Fatal("guard failure must not surface on a forbidden transition")
	}
}

func TestTransitionGuardReportsEveryMissingRequirement(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)

	_, err := f.transition(t, item, f.approver, domain.ActionApprove, nil)
	if !errors.Is(err, workflow.ErrGuardFailed) {
		t.Fatalf("err = %v, want ErrGuardFailed", err)
	}

	var guard *workflow.GuardError
	if !errors.As(err, &guard) {
		t.Fatalf("err = %T, want *GuardError", err)
	}
	if len(guard.Missing) != 3 {
		t.Fatalf("missing = %d requirements, want 3", len(guard.Missing))
	}
	for _, want := range []string{"category", "language", "religion"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err.Error(), want)
		}
	}

	current, _ := f.store.GetByID(context.Background(), item.ID)
	if current.Stage != domain.StageNeedsApproverReview {
		t.Fatalf("stage mutated to %q on guard failure", current.Stage)
	}
}

func TestTransitionGuardPartialMissing(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)
	categoryID := uuid.New()
	item.CategoryID = &categoryID
	f.store.Put(item)
	f.store.SetClassifications(item.ID,
		&classification.Classification{ID: uuid.New(), Kind: classification.KindLanguage, Name: "English", IsActive: true},
	)

	_, err := f.transition(t, item, f.approver, domain.ActionApprove, nil)
	var guard *workflow.GuardError
	if !errors.As(err, &guard) {
		t.Fatalf("err = %v, want *GuardError", err)
	}
	if len(guard.Missing) != 1 || guard.Missing[0].Check != "religion" {
		t.Fatalf("missing = %+v, want only religion", guard.Missing)
	}
}

func TestTransitionUnknownFromStagePair(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	_, err := f.transition(t, item, f.admin, domain.ActionPublish, nil)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionPublishedIsTerminal(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StagePublished)

	for _, action := range []domain.Action{domain.ActionSendBack, domain.ActionPublish, domain.ActionApprove} {
		if _, err := f.transition(t, item, f.admin, action, nil); !errors.Is(err, workflow.ErrInvalidTransition) {
			t.Fatalf("%s: err = %v, want ErrInvalidTransition", action, err)
		}
	}
}

func TestTransitionAuthorMaySubmitOwnDraft(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	result, err := f.transition(t, item, f.journalist, domain.ActionSubmitForReview, &f.reviewer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ToStage != interfaces.Stage(domain.StageNeedsReviewerReview) {
		t.Fatalf("stage = %q", result.ToStage)
	}

	current, _ := f.store.GetByID(context.Background(), item.ID)
	if current.AssignedReviewerID == nil || *current.AssignedReviewerID != f.reviewer.ID {
		t.Fatal("expected reviewer assignment to be recorded")
	}
}

func TestTransitionNonAuthorJournalistCannotSubmit(t *testing.T) {
	f := newFixture(t)
	other := actor("jane", interfaces.Role(domain.RoleJournalist))
	f.directory[other.ID] = other.Role
	item := f.seedItem(domain.StageDraft)

	_, err := f.transition(t, item, other, domain.ActionSubmitForReview, &f.reviewer.ID)
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestTransitionAssigneeRequired(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	_, err := f.transition(t, item, f.journalist, domain.ActionSubmitForReview, nil)
	if !errors.Is(err, workflow.ErrAssigneeRequired) {
		t.Fatalf("err = %v, want ErrAssigneeRequired", err)
	}
	if !errors.Is(err, workflow.ErrValidation) {
		t.Fatal("assignee errors are validation errors")
	}
}

func TestTransitionAssigneeRoleTooLow(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	_, err := f.transition(t, item, f.journalist, domain.ActionSubmitForReview, &f.journalist.ID)
	if !errors.Is(err, workflow.ErrAssigneeRole) {
		t.Fatalf("err = %v, want ErrAssigneeRole", err)
	}
}

func TestTransitionAssignedReviewerExcludesOthers(t *testing.T) {
	f := newFixture(t)
	other := actor("rob", interfaces.Role(domain.RoleReviewer))
	f.directory[other.ID] = other.Role
	item := f.seedItem(domain.StageNeedsReviewerReview, func(record *items.Item) {
		record.AssignedReviewerID = &f.reviewer.ID
	})

	if _, err := f.transition(t, item, other, domain.ActionSendForApproval, &f.approver.ID); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("other reviewer: err = %v, want ErrForbidden", err)
	}
	if _, err := f.transition(t, item, f.approver, domain.ActionSendForApproval, &f.approver.ID); err != nil {
		t.Fatalf("approver override: unexpected error: %v", err)
	}
}

func TestTransitionSendBackClearsAssignments(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsReviewerReview, func(record *items.Item) {
		record.AssignedReviewerID = &f.reviewer.ID
	})

	result, err := f.transition(t, item, f.reviewer, domain.ActionSendBack, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ToStage != interfaces.Stage(domain.StageDraft) {
		t.Fatalf("stage = %q, want draft", result.ToStage)
	}

	current, _ := f.store.GetByID(context.Background(), item.ID)
	if current.AssignedReviewerID != nil || current.AssignedApproverID != nil {
		t.Fatal("send back must clear assignments")
	}
}

func TestTransitionExpectedStageMismatch(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)
	f.seedGateReady(item)

	_, err := f.engine.Transition(context.Background(), interfaces.TransitionRequest{
		ItemID:        item.ID,
		Actor:         f.approver,
		Action:        interfaces.Action(domain.ActionApprove),
		ExpectedStage: interfaces.Stage(domain.StageDraft),
	})
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionUnknownAction(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	_, err := f.engine.Transition(context.Background(), interfaces.TransitionRequest{
		ItemID: item.ID,
		Actor:  f.admin,
		Action: "escalate",
	})
	if !errors.Is(err, workflow.ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestTransitionMissingItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Transition(context.Background(), interfaces.TransitionRequest{
		ItemID: uuid.New(),
		Actor:  f.admin,
		Action: interfaces.Action(domain.ActionApprove),
	})
	var notFound *items.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *items.NotFoundError", err)
	}
}

func TestTransitionTranslationApproveSkipsApproved(t *testing.T) {
	f := newFixture(t)
	parent := f.seedItem(domain.StageApproved)
	f.seedGateReady(parent)

	translation := f.seedItem(domain.StageNeedsApproverReview, func(record *items.Item) {
		record.IsTranslation = true
		record.OriginalItemID = &parent.ID
		record.Language = "xhosa"
		record.Slug = "storm-hits-coast-xhosa"
	})
	f.seedGateReady(translation)

	result, err := f.transition(t, translation, f.approver, domain.ActionApprove, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ToStage != interfaces.Stage(domain.StageTranslated) {
		t.Fatalf("stage = %q, want translated (approved is skipped for translations)", result.ToStage)
	}
	if !result.ParentAdvanced {
		t.Fatal("expected sole translation's completion to advance the parent")
	}

	advanced, _ := f.store.GetByID(context.Background(), parent.ID)
	if advanced.Stage != domain.StageTranslated {
		t.Fatalf("parent stage = %q, want translated", advanced.Stage)
	}
}

func TestTransitionParentWaitsForAllTranslations(t *testing.T) {
	f := newFixture(t)
	parent := f.seedItem(domain.StageApproved)
	f.seedGateReady(parent)

	first := f.seedItem(domain.StageNeedsApproverReview, func(record *items.Item) {
		record.IsTranslation = true
		record.OriginalItemID = &parent.ID
		record.Language = "xhosa"
		record.Slug = "storm-hits-coast-xhosa"
	})
	f.seedGateReady(first)
	second := f.seedItem(domain.StageDraft, func(record *items.Item) {
		record.IsTranslation = true
		record.OriginalItemID = &parent.ID
		record.Language = "zulu"
		record.Slug = "storm-hits-coast-zulu"
	})
	f.seedGateReady(second)

	result, err := f.transition(t, first, f.approver, domain.ActionApprove, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ParentAdvanced {
		t.Fatal("parent advanced with an incomplete sibling")
	}

	current, _ := f.store.GetByID(context.Background(), parent.ID)
	if current.Stage != domain.StageApproved {
		t.Fatalf("parent stage = %q, want approved", current.Stage)
	}
}

func TestTransitionMarkTranslatedRejectedWithTranslations(t *testing.T) {
	f := newFixture(t)
	parent := f.seedItem(domain.StageApproved)
	f.seedGateReady(parent)
	f.seedItem(domain.StageDraft, func(record *items.Item) {
		record.IsTranslation = true
		record.OriginalItemID = &parent.ID
		record.Language = "zulu"
		record.Slug = "storm-hits-coast-zulu"
	})

	_, err := f.transition(t, parent, f.approver, domain.ActionMarkTranslated, nil)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionPublishCascades(t *testing.T) {
	f := newFixture(t)
	parent := f.seedItem(domain.StageTranslated)
	f.seedGateReady(parent)

	for _, language := range []string{"xhosa", "zulu", "afrikaans"} {
		f.seedItem(domain.StageTranslated, func(record *items.Item) {
			record.IsTranslation = true
			record.OriginalItemID = &parent.ID
			record.Language = language
			record.Slug = "storm-hits-coast-" + language
		})
	}

	result, err := f.transition(t, parent, f.approver, domain.ActionPublish, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslationsPublished != 3 {
		t.Fatalf("translations published = %d, want 3", result.TranslationsPublished)
	}

	siblings, _ := f.store.ListTranslations(context.Background(), parent.ID)
	for _, sibling := range siblings {
		if sibling.Stage != domain.StagePublished {
			t.Fatalf("translation %s stage = %q, want published", sibling.Language, sibling.Stage)
		}
		if sibling.PublishedAt == nil {
			t.Fatalf("translation %s missing published_at", sibling.Language)
		}
	}
}

func TestTransitionTranslationCannotPublishDirectly(t *testing.T) {
	f := newFixture(t)
	parent := f.seedItem(domain.StageApproved)
	translation := f.seedItem(domain.StageTranslated, func(record *items.Item) {
		record.IsTranslation = true
		record.OriginalItemID = &parent.ID
		record.Language = "zulu"
		record.Slug = "storm-hits-coast-zulu"
	})

	_, err := f.transition(t, translation, f.admin, domain.ActionPublish, nil)
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestReadinessReady(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)
	f.seedGateReady(item)

	report, err := f.engine.Readiness(context.Background(), interfaces.TransitionRequest{
		ItemID: item.ID,
		Actor:  f.approver,
		Action: interfaces.Action(domain.ActionApprove),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.CanTransition {
		t.Fatalf("can_transition = false, issues: %v", report.Issues)
	}
	for _, check := range []string{"transition", "role", "category", "language", "religion"} {
		if !report.Checks[check] {
			t.Fatalf("check %q = false", check)
		}
	}
}

func TestReadinessReportsMissingRequirementsWithoutMutating(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageNeedsApproverReview)

	report, err := f.engine.Readiness(context.Background(), interfaces.TransitionRequest{
		ItemID: item.ID,
		Actor:  f.approver,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CanTransition {
		t.Fatal("expected readiness to fail the gate")
	}
	if len(report.Issues) != 3 {
		t.Fatalf("issues = %v, want three gate messages", report.Issues)
	}
	for _, check := range []string{"category", "language", "religion"} {
		if report.Checks[check] {
			t.Fatalf("check %q = true, want false", check)
		}
	}

	current, _ := f.store.GetByID(context.Background(), item.ID)
	if current.Stage != domain.StageNeedsApproverReview {
		t.Fatalf("readiness mutated stage to %q", current.Stage)
	}
}

func TestReadinessNoTransitionFromStage(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(domain.StageDraft)

	report, err := f.engine.Readiness(context.Background(), interfaces.TransitionRequest{
		ItemID: item.ID,
		Actor:  f.approver,
		Action: interfaces.Action(domain.ActionPublish),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CanTransition {
		t.Fatal("expected publish from draft to be unavailable")
	}
	if report.Checks["transition"] {
		t.Fatal("transition check should be false")
	}
}
