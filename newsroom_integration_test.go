package newsroom_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-newsroom"
	"github.com/goliatone/go-newsroom/internal/di"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/stations"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

type moduleDirectory map[uuid.UUID]interfaces.Role

func (d moduleDirectory) RoleOf(_ context.Context, id uuid.UUID) (interfaces.Role, error) {
	role, ok := d[id]
	if !ok {
		return "", fmt.Errorf("unknown user %s", id)
	}
	return role, nil
}

func TestModule_EditorialLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	journalist := uuid.New()
	reviewer := uuid.New()
	approver := uuid.New()
	translator := uuid.New()

	directory := moduleDirectory{
		journalist: "journalist",
		reviewer:   "reviewer",
		approver:   "approver",
		translator: "journalist",
	}

	cfg := newsroom.DefaultConfig()
	cfg.Seeds.Languages = []string{"English", "Xhosa"}
	cfg.Seeds.Religions = []string{"Christian"}
	cfg.Seeds.Stations = []newsroom.StationSeedConfig{
		{
			Slug:             "community-fm",
			Name:             "Community FM",
			AllowedLanguages: []string{"English", "Xhosa"},
			AllowedReligions: []string{"Christian"},
		},
	}

	capture := &activity.CaptureHook{}

	module, err := newsroom.New(cfg,
		di.WithUserDirectory(directory),
		di.WithClock(func() time.Time { return fixed }),
		di.WithActivityHook(capture),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	categoryID := uuid.New()
	categories, ok := module.Container().CategoryRepository().(*items.MemoryCategoryRepository)
	if !ok {
		t.Fatal("expected memory category repository")
	}
	categories.Put(&items.Category{ID: categoryID, Name: "News"})

	item, err := module.Items().Create(ctx, items.CreateItemRequest{
		Title:      "Harvest Festival Returns",
		Body:       "# Harvest\n\nThe festival **returns** this spring.",
		Language:   "English",
		Author:     identity.Actor{ID: journalist, Name: "Lindiwe", Role: domain.RoleJournalist},
		CategoryID: &categoryID,
		ClassificationIDs: []uuid.UUID{
			identity.ClassificationUUID("language", "English"),
			identity.ClassificationUUID("religion", "Christian"),
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if item.Stage != domain.StageDraft {
		t.Fatalf("expected new item in draft, got %s", item.Stage)
	}

	transition := func(actorID uuid.UUID, role interfaces.Role, itemID uuid.UUID, action interfaces.Action, assignee *uuid.UUID) *interfaces.TransitionResult {
		t.Helper()
		result, err := module.Workflow().Transition(ctx, interfaces.TransitionRequest{
			ItemID:     itemID,
			Actor:      interfaces.Actor{ID: actorID, Role: role},
			Action:     action,
			AssigneeID: assignee,
		})
		if err != nil {
			t.Fatalf("transition %s failed: %v", action, err)
		}
		return result
	}

	transition(journalist, "journalist", item.ID, "submit_for_review", &reviewer)
	transition(reviewer, "reviewer", item.ID, "send_for_approval", &approver)
	result := transition(approver, "approver", item.ID, "approve", nil)
	if result.ToStage != "approved" {
		t.Fatalf("expected parent approved, got %s", result.ToStage)
	}

	created, err := module.Translations().FanOut(ctx, translations.FanOutRequest{
		ParentID: item.ID,
		Actor:    identity.Actor{ID: approver, Name: "Sipho", Role: domain.RoleApprover},
		Targets: []translations.FanOutTarget{
			{Language: "Xhosa", AssigneeID: translator},
		},
	})
	if err != nil {
		t.Fatalf("FanOut returned error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected one translation draft, got %d", len(created))
	}
	draft := created[0]
	if draft.AuthorID != translator {
		t.Fatal("expected translation draft owned by its assignee")
	}

	transition(translator, "journalist", draft.ID, "submit_for_review", &reviewer)
	transition(reviewer, "reviewer", draft.ID, "send_for_approval", &approver)
	approveResult := transition(approver, "approver", draft.ID, "approve", nil)
	if approveResult.ToStage != "translated" {
		t.Fatalf("expected translation to land in translated, got %s", approveResult.ToStage)
	}
	if !approveResult.ParentAdvanced {
		t.Fatal("expected last translation approval to advance the parent")
	}

	publishResult := transition(approver, "approver", item.ID, "publish", nil)
	if publishResult.TranslationsPublished != 1 {
		t.Fatalf("expected cascade to publish one translation, got %d", publishResult.TranslationsPublished)
	}

	progress, err := module.Translations().Progress(ctx, item.ID)
	if err != nil {
		t.Fatalf("Progress returned error: %v", err)
	}
	if progress.Total != 1 || progress.Published != 1 {
		t.Fatalf("unexpected progress: %+v", progress)
	}

	feed, err := module.Feeds().FeedBySlug(ctx, "community-fm", stations.FeedOptions{})
	if err != nil {
		t.Fatalf("FeedBySlug returned error: %v", err)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected parent and translation in the feed, got %d entries", len(feed.Entries))
	}
	foundHTML := false
	for _, entry := range feed.Entries {
		if entry.Language == "English" && entry.HTML != "" {
			foundHTML = true
			if want := "<strong>returns</strong>"; !strings.Contains(entry.HTML, want) {
				t.Fatalf("expected rendered body to contain %q, got %q", want, entry.HTML)
			}
		}
	}
	if !foundHTML {
		t.Fatal("expected rendered HTML for the parent entry")
	}

	if len(capture.Events) == 0 {
		t.Fatal("expected activity events for the editorial journey")
	}
}

func TestModule_WorkflowOverrideTightensPublish(t *testing.T) {
	ctx := context.Background()

	approver := uuid.New()
	directory := moduleDirectory{approver: "approver"}

	cfg := newsroom.DefaultConfig()
	cfg.Workflow.Overrides = []newsroom.WorkflowOverrideConfig{
		{FromStage: "translated", Action: "publish", MinRole: "admin"},
	}

	module, err := newsroom.New(cfg, di.WithUserDirectory(directory))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	repo, ok := module.Container().ItemRepository().(*items.MemoryRepository)
	if !ok {
		t.Fatal("expected memory item repository")
	}
	record := &items.Item{
		ID:       uuid.New(),
		Slug:     "ready-story",
		Title:    "Ready Story",
		Language: "English",
		AuthorID: uuid.New(),
	}
	record.SetStage(domain.StageTranslated)
	repo.Put(record)

	_, err = module.Workflow().Transition(ctx, interfaces.TransitionRequest{
		ItemID: record.ID,
		Actor:  interfaces.Actor{ID: approver, Role: "approver"},
		Action: "publish",
	})
	if err == nil {
		t.Fatal("expected approver publish to be rejected under the admin override")
	}
}
