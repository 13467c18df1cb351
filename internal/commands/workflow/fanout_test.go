package workflowcmd_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-newsroom/internal/classification"
	workflowcmd "github.com/goliatone/go-newsroom/internal/commands/workflow"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/google/uuid"
)

func TestFanOutTranslationsCommandValidate(t *testing.T) {
	valid := workflowcmd.FanOutTranslationsCommand{
		ParentID:  uuid.New(),
		ActorID:   uuid.New(),
		ActorRole: "approver",
		Targets: []workflowcmd.FanOutTarget{
			{Language: "Xhosa"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*workflowcmd.FanOutTranslationsCommand)
	}{
		{"missing parent", func(m *workflowcmd.FanOutTranslationsCommand) { m.ParentID = uuid.Nil }},
		{"missing actor", func(m *workflowcmd.FanOutTranslationsCommand) { m.ActorID = uuid.Nil }},
		{"unknown role", func(m *workflowcmd.FanOutTranslationsCommand) { m.ActorRole = "intern" }},
		{"no targets", func(m *workflowcmd.FanOutTranslationsCommand) { m.Targets = nil }},
		{"blank target language", func(m *workflowcmd.FanOutTranslationsCommand) {
			m.Targets = []workflowcmd.FanOutTarget{{Language: "  "}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := valid
			tc.mutate(&msg)
			if err := msg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestFanOutTranslationsHandlerCreatesDrafts(t *testing.T) {
	ctx := context.Background()
	store := items.NewMemoryRepository()
	classifications := classification.NewMemoryRepository()
	classifications.Put(&classification.Classification{
		ID: uuid.New(), Kind: classification.KindLanguage, Name: "English", IsActive: true,
	})
	classifications.Put(&classification.Classification{
		ID: uuid.New(), Kind: classification.KindLanguage, Name: "Xhosa", IsActive: true,
	})

	parent := &items.Item{
		ID:       uuid.New(),
		Slug:     "storm-hits-coast",
		Title:    "Storm hits coast",
		Language: "English",
		AuthorID: uuid.New(),
	}
	parent.SetStage(domain.StageApproved)
	store.Put(parent)

	coordinator := translations.NewCoordinator(store, classifications)
	handler := workflowcmd.NewFanOutTranslationsHandler(coordinator, nil)

	err := handler.Execute(ctx, workflowcmd.FanOutTranslationsCommand{
		ParentID:  parent.ID,
		ActorID:   uuid.New(),
		ActorRole: "approver",
		Targets: []workflowcmd.FanOutTarget{
			{Language: "Xhosa"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := store.ListTranslations(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListTranslations returned error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected one translation draft, got %d", len(created))
	}
	if created[0].Language != "Xhosa" {
		t.Fatalf("language = %q, want Xhosa", created[0].Language)
	}
}

func TestFanOutTranslationsHandlerTagsCoordinatorErrors(t *testing.T) {
	store := items.NewMemoryRepository()
	classifications := classification.NewMemoryRepository()

	parent := &items.Item{
		ID:       uuid.New(),
		Slug:     "early-story",
		Title:    "Early story",
		Language: "English",
		AuthorID: uuid.New(),
	}
	parent.SetStage(domain.StageDraft)
	store.Put(parent)

	coordinator := translations.NewCoordinator(store, classifications)
	handler := workflowcmd.NewFanOutTranslationsHandler(coordinator, nil)

	err := handler.Execute(context.Background(), workflowcmd.FanOutTranslationsCommand{
		ParentID:  parent.ID,
		ActorID:   uuid.New(),
		ActorRole: "approver",
		Targets: []workflowcmd.FanOutTarget{
			{Language: "Xhosa"},
		},
	})
	if err == nil {
		t.Fatal("expected error for unapproved parent")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("err = %v, want command category", err)
	}
}
