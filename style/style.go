// Package style applies named sets of property values to objects. Styles
// write at SourceStyle (or SourceBuiltInStyle for theme defaults), so local
// values always win and removing a style restores whatever was underneath.
package style

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("style: not found")
	ErrCycle          = errors.New("style: based-on cycle")
	ErrTargetMismatch = errors.New("style: target type mismatch")
)

// Setter assigns one property. Value is a Go native converted to the
// property's storage kind when the style is applied.
type Setter struct {
	Property string `json:"property" yaml:"property" toml:"property"`
	Value    any    `json:"value" yaml:"value" toml:"value"`
}

// Style is a named setter set. BasedOn names a style whose setters apply
// first; setters here override them per property.
type Style struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	TargetType string   `json:"target_type,omitempty" yaml:"target_type,omitempty" toml:"target_type,omitempty"`
	BasedOn    string   `json:"based_on,omitempty" yaml:"based_on,omitempty" toml:"based_on,omitempty"`
	Setters    []Setter `json:"setters,omitempty" yaml:"setters,omitempty" toml:"setters,omitempty"`
}

// Validate checks the style in isolation.
func (s Style) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("style: name is required")
	}
	if s.BasedOn == s.Name {
		return fmt.Errorf("%w: %s is based on itself", ErrCycle, s.Name)
	}
	seen := map[string]bool{}
	for i, setter := range s.Setters {
		if strings.TrimSpace(setter.Property) == "" {
			return fmt.Errorf("style: %s setters[%d] has no property", s.Name, i)
		}
		if seen[setter.Property] {
			return fmt.Errorf("style: %s sets %s twice", s.Name, setter.Property)
		}
		seen[setter.Property] = true
	}
	return nil
}

// Library stores styles by name.
type Library interface {
	Load(ctx context.Context, name string) (Style, bool, error)
	Save(ctx context.Context, s Style) error
}

// Resolved is a style flattened along its BasedOn chain.
type Resolved struct {
	Name string
	// TargetType is the most derived target declared along the chain.
	TargetType string
	// Chain lists the style names from the root base to Name.
	Chain   []string
	Setters []Setter
}

// Resolve flattens name and its bases. Setters of derived styles replace
// those of their bases for the same property; order follows first
// declaration.
func Resolve(ctx context.Context, lib Library, name string) (Resolved, error) {
	if lib == nil {
		return Resolved{}, errors.New("style: library is required")
	}
	var chain []Style
	visited := map[string]bool{}
	for current := name; current != ""; {
		if visited[current] {
			return Resolved{}, fmt.Errorf("%w: %s", ErrCycle, current)
		}
		visited[current] = true
		s, ok, err := lib.Load(ctx, current)
		if err != nil {
			return Resolved{}, fmt.Errorf("style: load %q: %w", current, err)
		}
		if !ok {
			return Resolved{}, fmt.Errorf("%w: %q", ErrNotFound, current)
		}
		chain = append(chain, s)
		current = s.BasedOn
	}

	out := Resolved{Name: name}
	index := map[string]int{}
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		out.Chain = append(out.Chain, s.Name)
		if s.TargetType != "" {
			out.TargetType = s.TargetType
		}
		for _, setter := range s.Setters {
			if at, ok := index[setter.Property]; ok {
				out.Setters[at] = setter
				continue
			}
			index[setter.Property] = len(out.Setters)
			out.Setters = append(out.Setters, setter)
		}
	}
	return out, nil
}
