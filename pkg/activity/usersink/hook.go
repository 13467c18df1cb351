// Package usersink bridges newsroom activity events into a go-users
// ActivitySink so host applications can persist the editorial audit trail
// alongside their existing user activity records.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-newsroom/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Sink matches the go-users activity sink contract.
type Sink interface {
	Log(ctx context.Context, record usertypes.ActivityRecord) error
}

// Hook adapts activity events into go-users activity records.
type Hook struct {
	Sink Sink
}

// Notify implements activity.Hook.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	record := usertypes.ActivityRecord{
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
	}

	record.ActorID = parseUUID(event.ActorID)
	record.UserID = parseUUID(event.UserID)
	record.TenantID = parseUUID(event.TenantID)

	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if code := strings.TrimSpace(event.DefinitionCode); code != "" {
		data["definition_code"] = code
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string(nil), event.Recipients...)
	}
	if len(data) > 0 {
		record.Data = data
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(raw string) uuid.UUID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
