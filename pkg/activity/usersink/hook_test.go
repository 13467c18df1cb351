package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestHookMapsEventsToActivityRecords(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	actor := uuid.New()
	object := uuid.New()
	occurred := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	err := hook.Notify(context.Background(), activity.Event{
		Verb:           "item.transition",
		ActorID:        actor.String(),
		ObjectType:     "item",
		ObjectID:       object.String(),
		Channel:        "newsroom",
		DefinitionCode: "workflow.approve",
		Recipients:     []string{"reviewer@example.org"},
		Metadata:       map[string]any{"from_stage": "needs_approver_review"},
		OccurredAt:     occurred,
	})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected one record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.Verb != "item.transition" {
		t.Fatalf("verb = %q", record.Verb)
	}
	if record.ActorID != actor {
		t.Fatal("expected actor identifier to parse")
	}
	if record.OccurredAt != occurred {
		t.Fatal("expected occurrence time to carry over")
	}
	if record.Data["definition_code"] != "workflow.approve" {
		t.Fatalf("unexpected data payload: %#v", record.Data)
	}
	if record.Data["from_stage"] != "needs_approver_review" {
		t.Fatalf("expected metadata to merge into data, got %#v", record.Data)
	}
}

func TestHookWithoutSinkDropsEvents(t *testing.T) {
	hook := usersink.Hook{}
	if err := hook.Notify(context.Background(), activity.Event{Verb: "item.create"}); err != nil {
		t.Fatalf("expected nil sink to be tolerated, got %v", err)
	}
}
