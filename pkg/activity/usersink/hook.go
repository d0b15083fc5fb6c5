// Package usersink forwards property activity into a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-props/pkg/activity"
)

// Hook records property events as go-users activity records.
type Hook struct {
	Sink usertypes.ActivitySink
	// TenantID and UserID are stamped on every record; objects carry no
	// tenant or user of their own.
	TenantID uuid.UUID
	UserID   uuid.UUID
	// Verbs restricts forwarding to the listed verbs. Empty forwards all.
	Verbs []string
	// OmitValues drops old_value/new_value from the record data, keeping
	// only property names and sources.
	OmitValues bool
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = event.Normalize()
	if !event.Complete() || !h.forwards(event.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	objectType := event.ObjectType
	if objectType == "" {
		objectType = "object"
	}
	record := usertypes.ActivityRecord{
		ActorID:    parseUUID(event.Actor),
		UserID:     h.UserID,
		TenantID:   h.TenantID,
		Verb:       event.Verb,
		ObjectType: objectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       h.data(event),
		OccurredAt: event.OccurredAt,
	}
	return h.Sink.Log(ctx, record)
}

func (h Hook) forwards(verb string) bool {
	if len(h.Verbs) == 0 {
		return true
	}
	for _, v := range h.Verbs {
		if strings.EqualFold(strings.TrimSpace(v), verb) {
			return true
		}
	}
	return false
}

func (h Hook) data(event activity.Event) map[string]any {
	data := event.Fields()
	if data == nil {
		data = map[string]any{}
	}
	if h.OmitValues {
		delete(data, "old_value")
		delete(data, "new_value")
	}
	// Free-form actor names do not fit the record's UUID column.
	if event.Actor != "" && parseUUID(event.Actor) == uuid.Nil {
		data["actor"] = event.Actor
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

// parseUUID returns uuid.Nil for identifiers that are not UUIDs.
func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
