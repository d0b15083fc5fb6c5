package props

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-props/defaults"
	"github.com/goliatone/go-props/pkg/activity"
	"github.com/goliatone/go-props/value"
)

// Change reports the outcome of a write.
type Change struct {
	Property *Property
	// Changed is false when the written value equalled the stored one; the
	// source bookkeeping is still updated in that case.
	Changed bool
	// NeedsInvalidation asks the owner to invalidate layout or rendering.
	NeedsInvalidation bool
	OldSource         BaseValueSource
	NewSource         BaseValueSource
}

type defaultKey struct {
	typeName string
	id       PropertyID
}

// Resolver computes and writes effective values. Reads resolve, in order:
// an animation override, the stored base value, the parent's value for
// inherited properties, then the property default. Defaults are computed
// once per concrete type and cached until InvalidateDefaults or Close.
type Resolver struct {
	registry *Registry
	cfg      resolverConfig
	emitter  *activity.Emitter

	mu       sync.Mutex
	defaults map[defaultKey]*value.Value
}

// NewResolver constructs a resolver over registry.
func NewResolver(registry *Registry, opts ...Option) *Resolver {
	cfg := applyOptions(opts)
	return &Resolver{
		registry: registry,
		cfg:      cfg,
		emitter:  activity.NewEmitter(cfg.hooks, activity.Config{Channel: cfg.channel, Actor: cfg.actorID, Now: cfg.now}),
		defaults: map[defaultKey]*value.Value{},
	}
}

// Registry returns the metadata the resolver reads.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Activity returns the emitter used for property events.
func (r *Resolver) Activity() *activity.Emitter {
	return r.emitter
}

// NewObject creates an instance of a registered type with one field slot per
// field property on its type chain.
func (r *Resolver) NewObject(typeName string) (*Object, error) {
	info, ok := r.registry.instantiate(typeName)
	if !ok {
		return nil, &PropertyError{Op: "new object", Object: typeName, Err: ErrUnknownType}
	}
	return newObject(info.Name, info.Fields), nil
}

func (r *Resolver) property(op string, obj *Object, id PropertyID) (*Property, error) {
	if obj == nil {
		return nil, &PropertyError{Op: op, Err: fmt.Errorf("%w: nil object", ErrInvalidArgument)}
	}
	if obj.closed {
		return nil, propertyError(op, nil, obj, ErrClosed)
	}
	p, ok := r.registry.Lookup(id)
	if !ok {
		return nil, &PropertyError{Op: op, Property: fmt.Sprintf("#%d", id), Object: obj.String(), Err: ErrUnknownProperty}
	}
	if !r.registry.appliesTo(p, obj.typeName) {
		return nil, propertyError(op, p, obj, fmt.Errorf("%w: not declared on %s", ErrUnknownProperty, obj.typeName))
	}
	return p, nil
}

// GetEffectiveValue returns a view of the value a reader observes. The view
// is valid until the next write to the property or, for defaults, until the
// resolver's default cache is invalidated. A property with neither a value
// nor a default panics with *ConfigurationError.
func (r *Resolver) GetEffectiveValue(obj *Object, id PropertyID) (value.Value, error) {
	p, err := r.property("get", obj, id)
	if err != nil {
		return value.Value{}, err
	}
	v, _, err := r.effective(obj, p)
	return v, err
}

func (r *Resolver) effective(obj *Object, p *Property) (value.Value, BaseValueSource, error) {
	if m, ok := obj.store.Modified(p.ID); ok {
		v, err := coerceTo(m.Value(), p.Kind)
		if err != nil {
			return value.Value{}, SourceUnknown, propertyError("get", p, obj, err)
		}
		return v, SourceUnknown, nil
	}
	if e, ok := obj.store.Lookup(p); ok {
		return e.Value.View(), e.Source, nil
	}
	if parent := r.inheritanceParent(obj, p); parent != nil {
		v, _, err := r.effective(parent, p)
		return v, SourceInherited, err
	}
	v, err := r.defaultValue(obj, p)
	return v, SourceDefault, err
}

func (r *Resolver) inheritanceParent(obj *Object, p *Property) *Object {
	if !p.Flags.Has(FlagInherited) || obj.parent == nil || obj.parent.closed {
		return nil
	}
	if !r.registry.appliesTo(p, obj.parent.typeName) {
		return nil
	}
	return obj.parent
}

func (r *Resolver) defaultValue(obj *Object, p *Property) (value.Value, error) {
	key := defaultKey{typeName: obj.typeName, id: p.ID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.defaults[key]; ok {
		return cached.View(), nil
	}
	if p.Default == nil {
		panic(&ConfigurationError{Type: obj.typeName, Property: p.QualifiedName(), Reason: "no stored value and no default"})
	}
	now := r.cfg.now()
	produced, err := p.Default.Default(defaults.Context{
		Type:          obj.typeName,
		DeclaringType: p.DeclaringType,
		Property:      p.Name,
		Kind:          p.Kind,
		Now:           &now,
		Args:          r.cfg.defaultArgs,
		Metadata:      p.Metadata,
	})
	if err != nil {
		return value.Value{}, propertyError("default", p, obj, err)
	}
	if produced.IsUnset() {
		panic(&ConfigurationError{Type: obj.typeName, Property: p.QualifiedName(), Reason: "default factory produced no value"})
	}
	stored := &produced
	if p.Kind != value.KindUnset && produced.Kind() != p.Kind {
		coerced, err := value.Coerce(produced, p.Kind)
		if err != nil {
			produced.Destroy()
			panic(&ConfigurationError{Type: obj.typeName, Property: p.QualifiedName(), Reason: "default does not convert to " + p.Kind.String() + ": " + err.Error()})
		}
		clone, err := coerced.Clone()
		produced.Destroy()
		if err != nil {
			return value.Value{}, propertyError("default", p, obj, err)
		}
		stored = &clone
	}
	r.defaults[key] = stored
	return stored.View(), nil
}

// InvalidateDefaults drops every cached default. Views previously returned
// for defaults must not be used afterwards.
func (r *Resolver) InvalidateDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, v := range r.defaults {
		v.Destroy()
		delete(r.defaults, key)
	}
}

// Close releases the default cache.
func (r *Resolver) Close() {
	r.InvalidateDefaults()
}

// SetValue performs a local write. Read-only properties are rejected.
func (r *Resolver) SetValue(obj *Object, id PropertyID, v value.Value) (Change, error) {
	p, err := r.property("set", obj, id)
	if err != nil {
		return Change{}, err
	}
	if p.Flags.Has(FlagReadOnly) {
		return Change{Property: p}, propertyError("set", p, obj, fmt.Errorf("%w: read-only property", ErrAccessDenied))
	}
	return r.write(obj, p, v, SourceLocal, false)
}

// SetEffectiveValue writes v as the base value from src. It fails with
// ErrAccessDenied on a frozen object outside an unfreeze window, with
// ErrSourceRank when src is outranked by the current source and force is
// false, and with ErrInvalidArgument when v cannot be coerced to the storage
// kind. Writing an Unset value clears the property. SourceUnknown keeps the
// current source.
func (r *Resolver) SetEffectiveValue(obj *Object, id PropertyID, v value.Value, src BaseValueSource, force bool) (Change, error) {
	p, err := r.property("set", obj, id)
	if err != nil {
		return Change{}, err
	}
	return r.write(obj, p, v, src, force)
}

func (r *Resolver) write(obj *Object, p *Property, v value.Value, src BaseValueSource, force bool) (Change, error) {
	start := time.Now()
	change, oldNative, err := r.apply(obj, p, v, src, force)
	r.cfg.logger.LogWrite(WriteEvent{
		Op:        "set",
		Object:    obj.String(),
		Property:  p.QualifiedName(),
		Source:    change.NewSource,
		OldSource: change.OldSource,
		Forced:    force,
		Changed:   change.Changed,
		Animated:  r.IsAnimated(obj, p.ID),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err == nil && change.Changed && r.emitter.Enabled() {
		event := activity.Event{
			Verb:      activity.VerbPropertyCleared,
			OldValue:  oldNative,
			OldSource: change.OldSource.String(),
			NewSource: change.NewSource.String(),
			Forced:    force,
			Animated:  r.IsAnimated(obj, p.ID),
		}
		if e, ok := obj.store.Lookup(p); ok {
			event.Verb = activity.VerbPropertyChanged
			event.NewValue = e.Value.Native()
		}
		r.emit(obj, p, event)
	}
	return change, err
}

func (r *Resolver) apply(obj *Object, p *Property, v value.Value, src BaseValueSource, force bool) (Change, any, error) {
	change := Change{Property: p}
	if !obj.writable() {
		return change, nil, propertyError("set", p, obj, ErrAccessDenied)
	}
	entry, hasEntry := obj.store.Lookup(p)
	current := SourceDefault
	if hasEntry {
		current = entry.Source
	}
	if src == SourceUnknown {
		src = SourceLocal
		if hasEntry {
			src = current
		}
	}
	change.OldSource, change.NewSource = current, current
	if current.Outranks(src) && !force {
		return change, nil, propertyError("set", p, obj, fmt.Errorf("%w: %s write over %s", ErrSourceRank, src, current))
	}
	var oldNative any
	if hasEntry && r.emitter.Enabled() {
		oldNative = entry.Value.Native()
	}

	if v.IsUnset() {
		change.NewSource = SourceDefault
		if hasEntry {
			change.Changed = true
			obj.store.Reset(p)
			change.NeedsInvalidation = p.Flags.AffectsLayout()
		}
		return change, oldNative, nil
	}

	coerced, err := coerceTo(v, p.Kind)
	if err != nil {
		return change, nil, propertyError("set", p, obj, err)
	}
	change.NewSource = src
	if hasEntry && value.Equals(entry.Value, coerced) {
		entry.setSource(src)
		return change, oldNative, nil
	}
	var owned value.Value
	if err := owned.CopyDeep(coerced); err != nil {
		change.NewSource = current
		return change, nil, propertyError("set", p, obj, err)
	}
	change.Changed = true
	change.NeedsInvalidation = obj.store.Set(p, &owned, src)
	return change, oldNative, nil
}

// ClearValue resets the property to its default regardless of source,
// releasing the stored value and, for sparse properties, the entry.
func (r *Resolver) ClearValue(obj *Object, id PropertyID) (Change, error) {
	return r.SetEffectiveValue(obj, id, value.Unset(), SourceLocal, true)
}

// ClearValueFromSource resets the property only when its current source is
// src. Styles use it to withdraw their setters without disturbing local
// values.
func (r *Resolver) ClearValueFromSource(obj *Object, id PropertyID, src BaseValueSource) (Change, error) {
	p, err := r.property("clear", obj, id)
	if err != nil {
		return Change{}, err
	}
	if e, ok := obj.store.Lookup(p); !ok || e.Source != src {
		current := SourceDefault
		if ok {
			current = e.Source
		}
		return Change{Property: p, OldSource: current, NewSource: current}, nil
	}
	return r.write(obj, p, value.Unset(), src, false)
}

// SetAnimatedValue installs or replaces the animation override. The base
// value and source are untouched.
func (r *Resolver) SetAnimatedValue(obj *Object, id PropertyID, v value.Value) (Change, error) {
	p, err := r.property("animate", obj, id)
	if err != nil {
		return Change{}, err
	}
	change := Change{Property: p, OldSource: r.BaseValueSource(obj, id)}
	change.NewSource = change.OldSource
	if !obj.writable() {
		return change, propertyError("animate", p, obj, ErrAccessDenied)
	}
	if v.IsUnset() {
		return change, propertyError("animate", p, obj, fmt.Errorf("%w: unset animated value", ErrInvalidArgument))
	}
	coerced, err := coerceTo(v, p.Kind)
	if err != nil {
		return change, propertyError("animate", p, obj, err)
	}
	var owned value.Value
	if err := owned.CopyDeep(coerced); err != nil {
		return change, propertyError("animate", p, obj, err)
	}
	_, running := obj.store.Modified(p.ID)
	newNative := owned.Native()
	obj.store.SetAnimatedValue(p.ID, &owned)
	change.Changed = true
	change.NeedsInvalidation = p.Flags.AffectsLayout()
	if !running {
		r.emit(obj, p, activity.Event{
			Verb:      activity.VerbAnimationStarted,
			NewValue:  newNative,
			OldSource: change.OldSource.String(),
			NewSource: change.NewSource.String(),
			Animated:  true,
		})
	}
	return change, nil
}

// ClearAnimatedValue removes the animation override. When an animation is
// running and hold is non-nil, hold becomes the base value at SourceLocal,
// keeping the animation's end state. Without a running animation the call
// changes nothing.
func (r *Resolver) ClearAnimatedValue(obj *Object, id PropertyID, hold *value.Value) (Change, error) {
	p, err := r.property("clear animation", obj, id)
	if err != nil {
		return Change{}, err
	}
	change := Change{Property: p, OldSource: r.BaseValueSource(obj, id)}
	change.NewSource = change.OldSource
	if !obj.writable() {
		return change, propertyError("clear animation", p, obj, ErrAccessDenied)
	}
	if _, running := obj.store.Modified(p.ID); !running {
		return change, nil
	}
	var owned *value.Value
	if hold != nil && !hold.IsUnset() {
		coerced, err := coerceTo(*hold, p.Kind)
		if err != nil {
			return change, propertyError("clear animation", p, obj, err)
		}
		owned = &value.Value{}
		if err := owned.CopyDeep(coerced); err != nil {
			return change, propertyError("clear animation", p, obj, err)
		}
		change.NewSource = SourceLocal
	}
	var holdNative any
	if owned != nil {
		holdNative = owned.Native()
	}
	obj.store.ClearAnimatedValue(p, owned)
	change.Changed = true
	change.NeedsInvalidation = p.Flags.AffectsLayout()
	r.emit(obj, p, activity.Event{
		Verb:      activity.VerbAnimationCleared,
		NewValue:  holdNative,
		OldSource: change.OldSource.String(),
		NewSource: change.NewSource.String(),
	})
	return change, nil
}

// IsAnimated reports whether an animation override is active.
func (r *Resolver) IsAnimated(obj *Object, id PropertyID) bool {
	if obj == nil || obj.closed {
		return false
	}
	_, ok := obj.store.Modified(id)
	return ok
}

// BaseValueSource reports where the non-animated value comes from:
// the stored source, SourceInherited when the parent supplies it, or
// SourceDefault.
func (r *Resolver) BaseValueSource(obj *Object, id PropertyID) BaseValueSource {
	p, err := r.property("source", obj, id)
	if err != nil {
		return SourceUnknown
	}
	if e, ok := obj.store.Lookup(p); ok {
		return e.Source
	}
	if r.inheritanceParent(obj, p) != nil {
		return SourceInherited
	}
	return SourceDefault
}

// IsPropertyDefault reports whether the effective value is the default:
// nothing stored, nothing inherited and no animation running.
func (r *Resolver) IsPropertyDefault(obj *Object, id PropertyID) bool {
	return !r.IsAnimated(obj, id) && r.BaseValueSource(obj, id) == SourceDefault
}

// Trace reports every layer that could supply the property's value.
func (r *Resolver) Trace(obj *Object, id PropertyID) (Trace, error) {
	p, err := r.property("trace", obj, id)
	if err != nil {
		return Trace{}, err
	}
	trace := Trace{Object: obj.String(), Property: p.QualifiedName()}
	add := func(layer string, src BaseValueSource, v value.Value, found bool) {
		prov := Provenance{Layer: layer, Source: src, Found: found}
		if found {
			prov.Kind = v.Kind().String()
			prov.Value = v.Native()
			if trace.Winner == "" {
				trace.Winner = layer
			}
		}
		trace.Layers = append(trace.Layers, prov)
	}

	m, animated := obj.store.Modified(p.ID)
	add(LayerAnimation, SourceUnknown, m.Value(), animated)

	e, stored := obj.store.Lookup(p)
	if stored {
		add(LayerBase, e.Source, e.Value, true)
	} else {
		add(LayerBase, SourceUnknown, value.Value{}, false)
	}

	if p.Flags.Has(FlagInherited) {
		if parent := r.inheritanceParent(obj, p); parent != nil {
			v, _, err := r.effective(parent, p)
			add(LayerInherited, SourceInherited, v, err == nil)
		} else {
			add(LayerInherited, SourceInherited, value.Value{}, false)
		}
	}

	if p.Default != nil {
		v, err := r.defaultValue(obj, p)
		add(LayerDefault, SourceDefault, v, err == nil)
	} else {
		add(LayerDefault, SourceDefault, value.Value{}, false)
	}
	return trace, nil
}

// emit stamps obj and p on event and hands it to the emitter. Hook failures
// are logged, never returned to the writer.
func (r *Resolver) emit(obj *Object, p *Property, event activity.Event) {
	if !r.emitter.Enabled() {
		return
	}
	event.ObjectID = obj.id.String()
	event.ObjectType = obj.typeName
	if p != nil {
		event.Property = p.QualifiedName()
	}
	if err := r.emitter.Emit(context.Background(), event); err != nil {
		r.cfg.logger.LogWrite(WriteEvent{Op: "activity", Object: obj.String(), Property: event.Property, Err: err})
	}
}

// EmitStyleEvent reports a style applied to or removed from obj.
func (r *Resolver) EmitStyleEvent(obj *Object, styleName string, applied bool) {
	verb := activity.VerbStyleRemoved
	if applied {
		verb = activity.VerbStyleApplied
	}
	r.emit(obj, nil, activity.Event{Verb: verb, Style: styleName})
}

func coerceTo(v value.Value, kind value.Kind) (value.Value, error) {
	if kind == value.KindUnset || v.Kind() == kind {
		return v.View(), nil
	}
	return value.Coerce(v, kind)
}
