package style

import (
	"context"
	"errors"
	"fmt"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/value"
)

// Applier writes styles from a Library through a Resolver.
type Applier struct {
	Resolver *props.Resolver
	Library  Library
}

// Result reports what applying or removing a style did.
type Result struct {
	Style   string
	Source  props.BaseValueSource
	Changes []props.Change
	// Skipped lists properties left alone because a higher-ranked source
	// owns them.
	Skipped []string
}

// NeedsInvalidation reports whether any write asked for invalidation.
func (r Result) NeedsInvalidation() bool {
	for _, c := range r.Changes {
		if c.NeedsInvalidation {
			return true
		}
	}
	return false
}

func source(builtIn bool) props.BaseValueSource {
	if builtIn {
		return props.SourceBuiltInStyle
	}
	return props.SourceStyle
}

func (a Applier) prepare(ctx context.Context, obj *props.Object, name string) (Resolved, error) {
	if a.Resolver == nil {
		return Resolved{}, errors.New("style: resolver is required")
	}
	resolved, err := Resolve(ctx, a.Library, name)
	if err != nil {
		return Resolved{}, err
	}
	if resolved.TargetType != "" && !a.Resolver.Registry().IsA(obj.Type(), resolved.TargetType) {
		return Resolved{}, fmt.Errorf("%w: %s targets %s, object is %s", ErrTargetMismatch, name, resolved.TargetType, obj.Type())
	}
	return resolved, nil
}

func (a Applier) property(obj *props.Object, name string) (*props.Property, error) {
	p, ok := a.Resolver.Registry().ByName(obj.Type(), name)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", props.ErrUnknownProperty, name, obj.Type())
	}
	return p, nil
}

// Apply writes every setter of name to obj. Setters over a higher-ranked
// value are skipped. A setter that fails for another reason aborts the
// application; setters written before it stay in place.
func (a Applier) Apply(ctx context.Context, obj *props.Object, name string, builtIn bool) (Result, error) {
	resolved, err := a.prepare(ctx, obj, name)
	if err != nil {
		return Result{}, err
	}
	src := source(builtIn)
	result := Result{Style: name, Source: src}
	for _, setter := range resolved.Setters {
		p, err := a.property(obj, setter.Property)
		if err != nil {
			return result, err
		}
		v, err := value.FromNative(setter.Value, p.Kind)
		if err != nil {
			return result, fmt.Errorf("style: %s setter %s: %w", name, setter.Property, err)
		}
		change, err := a.Resolver.SetEffectiveValue(obj, p.ID, v, src, false)
		v.Destroy()
		switch {
		case errors.Is(err, props.ErrSourceRank):
			result.Skipped = append(result.Skipped, p.QualifiedName())
		case err != nil:
			return result, fmt.Errorf("style: %s setter %s: %w", name, setter.Property, err)
		default:
			result.Changes = append(result.Changes, change)
		}
	}
	a.Resolver.EmitStyleEvent(obj, name, true)
	return result, nil
}

// Remove clears every property name sets, but only where the value still
// comes from the style's source.
func (a Applier) Remove(ctx context.Context, obj *props.Object, name string, builtIn bool) (Result, error) {
	resolved, err := a.prepare(ctx, obj, name)
	if err != nil {
		return Result{}, err
	}
	src := source(builtIn)
	result := Result{Style: name, Source: src}
	for _, setter := range resolved.Setters {
		p, err := a.property(obj, setter.Property)
		if err != nil {
			return result, err
		}
		change, err := a.Resolver.ClearValueFromSource(obj, p.ID, src)
		if err != nil {
			return result, fmt.Errorf("style: remove %s setter %s: %w", name, setter.Property, err)
		}
		if change.Changed {
			result.Changes = append(result.Changes, change)
		} else {
			result.Skipped = append(result.Skipped, p.QualifiedName())
		}
	}
	a.Resolver.EmitStyleEvent(obj, name, false)
	return result, nil
}
