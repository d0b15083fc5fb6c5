// Package activity reports property changes on objects to interested hooks.
package activity

import (
	"strings"
	"time"
)

// Verbs emitted for property activity.
const (
	VerbPropertyChanged  = "property.changed"
	VerbPropertyCleared  = "property.cleared"
	VerbAnimationStarted = "property.animation.started"
	VerbAnimationCleared = "property.animation.cleared"
	VerbStyleApplied     = "style.applied"
	VerbStyleRemoved     = "style.removed"
)

// Event is one change to an object's properties. Values are exported
// natives, never value containers, so hooks may keep them.
type Event struct {
	Verb       string
	Actor      string
	Channel    string
	ObjectType string
	ObjectID   string
	// Property is the qualified property name; empty for style verbs.
	Property string
	// Style names the style for style verbs.
	Style     string
	OldValue  any
	NewValue  any
	OldSource string
	NewSource string
	Forced    bool
	// Animated reports whether an animation override was running after the
	// change, in which case NewValue is not what readers observe.
	Animated   bool
	OccurredAt time.Time
}

// IsStyle reports whether the event describes a style rather than a single
// property.
func (e Event) IsStyle() bool {
	return e.Verb == VerbStyleApplied || e.Verb == VerbStyleRemoved
}

// Complete reports whether the event names a verb and an object.
func (e Event) Complete() bool {
	return e.Verb != "" && e.ObjectID != ""
}

// Normalize trims identifiers and stamps OccurredAt when missing.
func (e Event) Normalize() Event {
	e.Verb = strings.TrimSpace(e.Verb)
	e.Actor = strings.TrimSpace(e.Actor)
	e.Channel = strings.TrimSpace(e.Channel)
	e.ObjectType = strings.TrimSpace(e.ObjectType)
	e.ObjectID = strings.TrimSpace(e.ObjectID)
	e.Property = strings.TrimSpace(e.Property)
	e.Style = strings.TrimSpace(e.Style)
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return e
}

// Fields flattens the payload for sinks that store free-form data. Empty
// fields are left out.
func (e Event) Fields() map[string]any {
	fields := map[string]any{}
	put := func(key string, v any) {
		if v == nil || v == "" {
			return
		}
		fields[key] = v
	}
	put("property", e.Property)
	put("style", e.Style)
	put("old_value", e.OldValue)
	put("new_value", e.NewValue)
	put("old_source", e.OldSource)
	put("new_source", e.NewSource)
	if e.Forced {
		fields["forced"] = true
	}
	if e.Animated {
		fields["animated"] = true
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
