package usersink_test

import (
	"context"
	"testing"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/defaults"
	"github.com/goliatone/go-props/pkg/activity"
	"github.com/goliatone/go-props/pkg/activity/usersink"
	"github.com/goliatone/go-props/value"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	tenantID := uuid.New()
	hook := usersink.Hook{Sink: sink, TenantID: tenantID}

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	objectID := uuid.New().String()

	event := activity.Event{
		Verb:       activity.VerbPropertyChanged,
		Actor:      actorID.String(),
		ObjectType: "Button",
		ObjectID:   objectID,
		Channel:    "designer",
		Property:   "Control.Width",
		OldValue:   100.0,
		NewValue:   42.0,
		OldSource:  "default",
		NewSource:  "local",
		Forced:     true,
		OccurredAt: now,
	}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID || record.UserID != uuid.Nil {
		t.Fatalf("unexpected ids %+v", record)
	}
	if record.Verb != activity.VerbPropertyChanged || record.ObjectType != "Button" || record.ObjectID != objectID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "designer" || record.OccurredAt != now {
		t.Fatalf("unexpected channel or time: %+v", record)
	}
	if record.Data["property"] != "Control.Width" || record.Data["new_value"] != 42.0 || record.Data["new_source"] != "local" {
		t.Fatalf("unexpected data %v", record.Data)
	}
	if record.Data["forced"] != true {
		t.Fatalf("expected forced flag in data, got %v", record.Data)
	}
	if _, ok := record.Data["actor"]; ok {
		t.Fatalf("UUID actors belong in ActorID only, got %v", record.Data)
	}
}

func TestHookFiltersVerbsAndValues(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{activity.VerbPropertyChanged}, OmitValues: true}

	changed := activity.Event{
		Verb: activity.VerbPropertyChanged, ObjectType: "Button", ObjectID: "b1",
		Property: "Control.Width", NewValue: 1.0, NewSource: "local",
	}
	animated := activity.Event{
		Verb: activity.VerbAnimationStarted, ObjectType: "Button", ObjectID: "b1",
		Property: "Control.Width", NewValue: 2.0, Animated: true,
	}
	for _, ev := range []activity.Event{changed, animated} {
		if err := hook.Notify(context.Background(), ev); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected only the changed event, got %d", len(sink.records))
	}
	data := sink.records[0].Data
	if _, ok := data["new_value"]; ok {
		t.Fatalf("values should be omitted, got %v", data)
	}
	if data["property"] != "Control.Width" {
		t.Fatalf("property should be kept, got %v", data)
	}
}

func TestHookKeepsNonUUIDActor(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:     activity.VerbStyleApplied,
		Actor:    "designer",
		ObjectID: "1",
		Style:    "Compact",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != uuid.Nil || record.Data["actor"] != "designer" {
		t.Fatalf("expected actor name in data, got %+v", record)
	}
	if record.Data["style"] != "Compact" || record.ObjectType != "object" {
		t.Fatalf("unexpected style record %+v", record)
	}
	if record.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookSkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	_ = usersink.Hook{Sink: sink}.Notify(context.Background(), activity.Event{Verb: activity.VerbPropertyChanged})
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for an event without object, got %d", len(sink.records))
	}
}

func TestResolverFeedsSink(t *testing.T) {
	registry := props.NewRegistry()
	if _, err := registry.RegisterType("Control", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	width := registry.MustRegister(props.Property{Name: "Width", DeclaringType: "Control", Kind: value.KindDouble, Default: defaults.Native(100)})

	sink := &recordingSink{}
	actor := uuid.New()
	r := props.NewResolver(registry,
		props.WithActivityHooks(activity.Hooks{usersink.Hook{Sink: sink}}),
		props.WithActor(actor.String()),
	)
	obj, _ := r.NewObject("Control")
	defer obj.Close()

	if _, err := r.SetValue(obj, width.ID, value.FromDouble(5)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actor || record.ObjectID != obj.ID().String() || record.Channel != activity.DefaultChannel {
		t.Fatalf("unexpected record %+v", record)
	}
}
