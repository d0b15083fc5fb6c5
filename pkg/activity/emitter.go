package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "props"

// Config holds the values an Emitter stamps on every event.
type Config struct {
	Channel string
	Actor   string
	// Now stamps OccurredAt. Defaults to time.Now.
	Now func() time.Time
}

// Emitter stamps channel, actor and time on events and fans them out.
// Without hooks it is disabled and callers can skip building events.
type Emitter struct {
	hooks   Hooks
	channel string
	actor   string
	now     func() time.Time
}

// NewEmitter constructs an emitter. Nil hooks are dropped.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{
		hooks:   hooks.Compact(),
		channel: strings.TrimSpace(cfg.Channel),
		actor:   strings.TrimSpace(cfg.Actor),
		now:     cfg.Now,
	}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Enabled reports whether Emit would reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit fills the unset channel, actor and time of event and notifies every
// hook. Values already set on event win.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.Actor) == "" {
		event.Actor = e.actor
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	return e.hooks.Notify(ctx, event)
}
