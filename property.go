package props

import (
	"strings"

	"github.com/goliatone/go-props/defaults"
	"github.com/goliatone/go-props/value"
)

// PropertyID identifies a registered property. Zero is never assigned.
type PropertyID uint32

// Flags describe how writes to a property affect its owner.
type Flags uint16

const (
	FlagAffectsMeasure Flags = 1 << iota
	FlagAffectsArrange
	FlagAffectsRender
	// FlagInherited makes unset values fall through to the parent object.
	FlagInherited
	// FlagReadOnly rejects public local writes.
	FlagReadOnly
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagAffectsMeasure, "affects-measure"},
	{FlagAffectsArrange, "affects-arrange"},
	{FlagAffectsRender, "affects-render"},
	{FlagInherited, "inherited"},
	{FlagReadOnly, "read-only"},
}

// Has reports whether every bit in flag is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// AffectsLayout reports whether a changed value needs the owner to
// invalidate measure, arrange or render.
func (f Flags) AffectsLayout() bool {
	return f&(FlagAffectsMeasure|FlagAffectsArrange|FlagAffectsRender) != 0
}

func (f Flags) Names() []string {
	var out []string
	for _, entry := range flagNames {
		if f.Has(entry.flag) {
			out = append(out, entry.name)
		}
	}
	return out
}

func (f Flags) String() string {
	return strings.Join(f.Names(), "|")
}

// ParseFlag converts a flag name such as "affects-measure".
func ParseFlag(name string) (Flags, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range flagNames {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return 0, false
}

// Property is the metadata the resolver reads. It is immutable once
// registered.
type Property struct {
	ID            PropertyID
	Name          string
	DeclaringType string
	// Kind is the storage kind values are coerced to. KindUnset accepts any
	// kind without coercion.
	Kind value.Kind
	// Sparse properties live in the store's overflow map. Field properties
	// occupy FieldOffset in every object whose type derives from
	// DeclaringType.
	Sparse      bool
	FieldOffset int
	Flags       Flags
	Default     defaults.Factory
	Description string
	Metadata    map[string]any
}

// QualifiedName returns "DeclaringType.Name".
func (p *Property) QualifiedName() string {
	if p == nil {
		return ""
	}
	if p.DeclaringType == "" {
		return p.Name
	}
	return p.DeclaringType + "." + p.Name
}

func (p *Property) String() string {
	return p.QualifiedName()
}
