package props

import (
	"time"

	"github.com/goliatone/go-props/pkg/activity"
)

// Option configures a Resolver.
type Option func(*resolverConfig)

type resolverConfig struct {
	logger      Logger
	hooks       activity.Hooks
	channel     string
	actorID     string
	now         func() time.Time
	defaultArgs map[string]any
}

func applyOptions(opts []Option) resolverConfig {
	cfg := resolverConfig{
		logger: noopLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger records every write. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(cfg *resolverConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks emits property activity to hooks. Nil entries are
// dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Compact()
	return func(cfg *resolverConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *resolverConfig) {
		cfg.channel = channel
	}
}

// WithActor stamps emitted events with actorID.
func WithActor(actorID string) Option {
	return func(cfg *resolverConfig) {
		cfg.actorID = actorID
	}
}

// WithClock overrides the time source used for default contexts and events.
func WithClock(now func() time.Time) Option {
	return func(cfg *resolverConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithDefaultArgs exposes args to expression defaults.
func WithDefaultArgs(args map[string]any) Option {
	return func(cfg *resolverConfig) {
		cfg.defaultArgs = args
	}
}
