package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func widthChanged(objectID string) Event {
	return Event{
		Verb: VerbPropertyChanged, ObjectType: "Button", ObjectID: objectID,
		Property: "Control.Width", NewValue: 42.0, NewSource: "local",
	}
}

func TestEmitterStampsDefaults(t *testing.T) {
	rec := &Recorder{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	emitter := NewEmitter(Hooks{nil, rec}, Config{Actor: "designer", Now: func() time.Time { return fixed }})

	if !emitter.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := emitter.Emit(context.Background(), widthChanged("b1")); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	got := events[0]
	if got.Channel != DefaultChannel || got.Actor != "designer" || !got.OccurredAt.Equal(fixed) {
		t.Fatalf("unexpected stamps %+v", got)
	}
}

func TestEmitterKeepsExplicitValues(t *testing.T) {
	rec := &Recorder{}
	emitter := NewEmitter(Hooks{rec}, Config{Channel: "ui", Actor: "designer"})

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	event := widthChanged("b1")
	event.Channel = "animation"
	event.Actor = "timeline"
	event.OccurredAt = at
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := rec.Events()[0]
	if got.Channel != "animation" || got.Actor != "timeline" || !got.OccurredAt.Equal(at) {
		t.Fatalf("explicit values should win, got %+v", got)
	}
}

func TestEmitterWithoutHooks(t *testing.T) {
	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("nil emitter must be disabled")
	}
	emitter := NewEmitter(Hooks{nil}, Config{})
	if emitter.Enabled() {
		t.Fatalf("emitter with only nil hooks must be disabled")
	}
	if err := emitter.Emit(context.Background(), widthChanged("b1")); err != nil {
		t.Fatalf("disabled emit should be a no-op, got %v", err)
	}
}

func TestHooksNotifyDropsIncompleteEvents(t *testing.T) {
	rec := &Recorder{}
	if err := (Hooks{rec}).Notify(context.Background(), Event{Verb: VerbPropertyChanged}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("events without an object should be dropped")
	}
}

func TestHooksNotifyReachesEveryHook(t *testing.T) {
	rec := &Recorder{}
	errFirst := errors.New("sink offline")
	errLast := errors.New("queue full")
	var sawContext bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			sawContext = ctx != nil
			return errFirst
		}),
		nil,
		rec,
		HookFunc(func(context.Context, Event) error { return errLast }),
	}

	err := hooks.Notify(nil, widthChanged("b1"))
	if !errors.Is(err, errFirst) || !errors.Is(err, errLast) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if !sawContext {
		t.Fatalf("expected a non-nil context")
	}
	if len(rec.Events()) != 1 {
		t.Fatalf("a failing hook must not stop delivery")
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{Err: errors.New("rejected")}
	if err := rec.Notify(context.Background(), widthChanged("b1")); err == nil {
		t.Fatalf("expected configured error")
	}
	_ = rec.Notify(context.Background(), Event{Verb: VerbStyleApplied, ObjectID: "b1", Style: "Compact"})

	verbs := rec.Verbs()
	if len(verbs) != 2 || verbs[0] != VerbPropertyChanged || verbs[1] != VerbStyleApplied {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	events := rec.Events()
	events[0].Verb = "mutated"
	if rec.Events()[0].Verb != VerbPropertyChanged {
		t.Fatalf("Events should return a copy")
	}
	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Fatalf("expected reset to drop events")
	}
}
