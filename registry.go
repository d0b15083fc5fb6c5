package props

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-props/value"
)

// TypeInfo describes a registered type.
type TypeInfo struct {
	Name  string
	Base  string
	Index value.TypeIndex
	// Fields is the number of field slots an object of this type carries,
	// including those declared on its base types.
	Fields int
}

type typeEntry struct {
	info    TypeInfo
	own     []*Property
	derived int
	// instantiated is set once an object of this type exists; its field
	// layout is fixed from then on.
	instantiated bool
}

// maxTypes is the number of distinct type handles; index 0 is
// value.UnknownType.
const maxTypes = math.MaxUint16

// Registry holds type declarations and property metadata. It is shared by
// every object created from it and is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*typeEntry
	order  []*typeEntry
	props  []*Property
	byName map[string]*Property
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  map[string]*typeEntry{},
		byName: map[string]*Property{},
	}
}

// RegisterType declares name deriving from base, which may be empty. The base
// must already be registered; its field layout is sealed from then on.
func (r *Registry) RegisterType(name, base string) (value.TypeIndex, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return value.UnknownType, fmt.Errorf("%w: type name must not be empty", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return value.UnknownType, fmt.Errorf("%w: type %q", ErrDuplicate, name)
	}
	if len(r.order) >= maxTypes {
		return value.UnknownType, fmt.Errorf("%w: registry holds %d types; cannot add %q", ErrOutOfResources, maxTypes, name)
	}
	fields := 0
	if base != "" {
		parent, ok := r.types[base]
		if !ok {
			return value.UnknownType, fmt.Errorf("%w: base %q of %q", ErrUnknownType, base, name)
		}
		parent.derived++
		fields = parent.info.Fields
	}
	entry := &typeEntry{info: TypeInfo{
		Name:   name,
		Base:   base,
		Index:  value.TypeIndex(len(r.order) + 1),
		Fields: fields,
	}}
	r.types[name] = entry
	r.order = append(r.order, entry)
	return entry.info.Index, nil
}

// Register stores p and returns the registered copy with its ID and, for
// field properties, its FieldOffset assigned.
func (r *Registry) Register(p Property) (*Property, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: property name must not be empty", ErrInvalidArgument)
	}
	if !p.Kind.IsValid() {
		return nil, fmt.Errorf("%w: property %s has invalid kind", ErrInvalidArgument, p.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.types[p.DeclaringType]
	if !ok {
		return nil, fmt.Errorf("%w: %q declaring %s", ErrUnknownType, p.DeclaringType, p.Name)
	}
	key := p.QualifiedName()
	if _, exists := r.byName[key]; exists {
		return nil, fmt.Errorf("%w: property %s", ErrDuplicate, key)
	}
	if !p.Sparse {
		if owner.derived > 0 {
			return nil, fmt.Errorf("%w: %s has derived types; declare %s as sparse", ErrTypeSealed, owner.info.Name, p.Name)
		}
		if owner.instantiated {
			return nil, fmt.Errorf("%w: %s already has instances; declare %s as sparse", ErrTypeSealed, owner.info.Name, p.Name)
		}
		p.FieldOffset = owner.info.Fields
		owner.info.Fields++
	} else {
		p.FieldOffset = -1
	}
	if len(p.Metadata) > 0 {
		meta := make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			meta[k] = v
		}
		p.Metadata = meta
	}
	p.ID = PropertyID(len(r.props) + 1)
	stored := &p
	r.props = append(r.props, stored)
	r.byName[key] = stored
	owner.own = append(owner.own, stored)
	return stored, nil
}

// MustRegister is Register for package-level declarations.
func (r *Registry) MustRegister(p Property) *Property {
	stored, err := r.Register(p)
	if err != nil {
		panic(err)
	}
	return stored
}

// Lookup returns the property registered under id.
func (r *Registry) Lookup(id PropertyID) (*Property, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id == 0 || int(id) > len(r.props) {
		return nil, false
	}
	return r.props[id-1], true
}

// ByName finds name on typeName or its base types. A qualified
// "Type.Name" is looked up directly.
func (r *Registry) ByName(typeName, name string) (*Property, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.byName[name]; ok && strings.Contains(name, ".") {
		return p, true
	}
	for t := r.types[typeName]; t != nil; t = r.types[t.info.Base] {
		if p, ok := r.byName[t.info.Name+"."+name]; ok {
			return p, true
		}
		if t.info.Base == "" {
			break
		}
	}
	return nil, false
}

// Properties lists the properties declared on typeName and its base types,
// base types first, in declaration order.
func (r *Registry) Properties(typeName string) []*Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var chain []*typeEntry
	for t := r.types[typeName]; t != nil; t = r.types[t.info.Base] {
		chain = append(chain, t)
		if t.info.Base == "" {
			break
		}
	}
	var out []*Property
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].own...)
	}
	return out
}

// FieldCount returns the number of field slots for typeName.
func (r *Registry) FieldCount(typeName string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.types[typeName]; ok {
		return t.info.Fields
	}
	return 0
}

// instantiate seals name's field layout and returns its declaration.
func (r *Registry) instantiate(name string) (TypeInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[name]
	if !ok {
		return TypeInfo{}, false
	}
	t.instantiated = true
	return t.info, true
}

// Type returns the declaration of name.
func (r *Registry) Type(name string) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return TypeInfo{}, false
	}
	return t.info, true
}

// TypeByIndex resolves a type handle.
func (r *Registry) TypeByIndex(index value.TypeIndex) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index == value.UnknownType || int(index) > len(r.order) {
		return TypeInfo{}, false
	}
	return r.order[index-1].info, true
}

// Types lists every registered type sorted by name.
func (r *Registry) Types() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, t.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsA reports whether typeName is ancestor or derives from it.
func (r *Registry) IsA(typeName, ancestor string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isA(typeName, ancestor)
}

func (r *Registry) isA(typeName, ancestor string) bool {
	for t := r.types[typeName]; t != nil; t = r.types[t.info.Base] {
		if t.info.Name == ancestor {
			return true
		}
		if t.info.Base == "" {
			break
		}
	}
	return false
}

// appliesTo reports whether p can be stored on objects of typeName: sparse
// properties attach to any type, field properties need the declaring type in
// the chain.
func (r *Registry) appliesTo(p *Property, typeName string) bool {
	return p.Sparse || r.IsA(typeName, p.DeclaringType)
}
