package manifest

import (
	"fmt"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/defaults"
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	functions *defaults.FunctionRegistry
	logger    defaults.EvaluatorLogger
	caches    map[string]defaults.ProgramCache
}

// WithFunctions replaces the builtin helper functions exposed to expression
// defaults.
func WithFunctions(registry *defaults.FunctionRegistry) BuildOption {
	return func(cfg *buildConfig) {
		if registry != nil {
			cfg.functions = registry
		}
	}
}

// WithEvaluatorLogger records every expression default evaluation.
func WithEvaluatorLogger(logger defaults.EvaluatorLogger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

// Build registers doc into a new registry.
func Build(doc Document, opts ...BuildOption) (*props.Registry, error) {
	registry := props.NewRegistry()
	if err := Apply(registry, doc, opts...); err != nil {
		return nil, err
	}
	return registry, nil
}

// Apply registers doc into registry. Bases may be declared earlier in
// registry or anywhere in doc. Registration stops at the first error.
func Apply(registry *props.Registry, doc Document, opts ...BuildOption) error {
	cfg := buildConfig{caches: map[string]defaults.ProgramCache{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.functions == nil {
		cfg.functions = defaults.NewBuiltinRegistry()
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	ordered, err := doc.order(func(name string) bool {
		_, ok := registry.Type(name)
		return ok
	})
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	for _, t := range ordered {
		if _, err := registry.RegisterType(t.Name, t.Base); err != nil {
			return fmt.Errorf("manifest: type %s: %w", t.Name, err)
		}
		for _, decl := range t.Properties {
			p, err := cfg.property(t.Name, decl)
			if err != nil {
				return fmt.Errorf("manifest: %s.%s: %w", t.Name, decl.Name, err)
			}
			if _, err := registry.Register(p); err != nil {
				return fmt.Errorf("manifest: %w", err)
			}
		}
	}
	return nil
}

func (cfg *buildConfig) property(typeName string, decl PropertyDecl) (props.Property, error) {
	kind, err := decl.kind()
	if err != nil {
		return props.Property{}, err
	}
	flags, err := decl.flags()
	if err != nil {
		return props.Property{}, err
	}
	factory, err := cfg.factory(decl.Default, decl.DefaultExpr, decl.Engine)
	if err != nil {
		return props.Property{}, err
	}
	if len(decl.DefaultsByType) > 0 {
		overrides := make(map[string]defaults.Factory, len(decl.DefaultsByType))
		for concrete, raw := range decl.DefaultsByType {
			overrides[concrete], err = cfg.override(raw, decl.Engine)
			if err != nil {
				return props.Property{}, fmt.Errorf("default for %s: %w", concrete, err)
			}
		}
		factory = defaults.ByType(factory, overrides)
	}
	return props.Property{
		Name:          decl.Name,
		DeclaringType: typeName,
		Kind:          kind,
		Sparse:        decl.Sparse,
		Flags:         flags,
		Default:       factory,
		Description:   decl.Description,
		Metadata:      decl.Metadata,
	}, nil
}

// override reads a defaults_by_type entry: either a plain native or a table
// {expr = "...", engine = "..."}.
func (cfg *buildConfig) override(raw any, engine string) (defaults.Factory, error) {
	if table, ok := raw.(map[string]any); ok {
		if expr, ok := table["expr"].(string); ok {
			if e, ok := table["engine"].(string); ok {
				engine = e
			}
			return cfg.factory(nil, expr, engine)
		}
	}
	return cfg.factory(raw, "", engine)
}

func (cfg *buildConfig) factory(native any, expr, engine string) (defaults.Factory, error) {
	if expr == "" {
		if native == nil {
			return nil, nil
		}
		return defaults.Native(native), nil
	}
	cache, ok := cfg.caches[engine]
	if !ok {
		cache = defaults.NewMapCache()
		cfg.caches[engine] = cache
	}
	evaluator, err := defaults.EvaluatorFor(engine, cache, cfg.functions)
	if err != nil {
		return nil, err
	}
	return defaults.Expression(expr, defaults.WithEvaluator(evaluator), defaults.WithEvaluatorLogger(cfg.logger))
}
