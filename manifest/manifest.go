// Package manifest declares property metadata in TOML or YAML files and
// builds a props.Registry from them.
//
// A manifest lists types, base types first or in any order, each with the
// properties it declares:
//
//	[[types]]
//	name = "Control"
//	base = "UIElement"
//
//	  [[types.properties]]
//	  name = "Width"
//	  kind = "double"
//	  flags = ["affects-measure"]
//	  default = 100
//
//	  [[types.properties]]
//	  name = "Padding"
//	  kind = "thickness"
//	  sparse = true
//	  default_expr = 'ownerType == "Button" ? thickness(8) : thickness(0)'
package manifest

import (
	"fmt"
	"strings"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/style"
	"github.com/goliatone/go-props/value"
)

// Document is a decoded manifest.
type Document struct {
	Types  []TypeDecl    `json:"types"`
	Styles []style.Style `json:"styles,omitempty"`
}

// TypeDecl declares a type and the properties it owns.
type TypeDecl struct {
	Name       string         `json:"name"`
	Base       string         `json:"base,omitempty"`
	Properties []PropertyDecl `json:"properties,omitempty"`
}

// PropertyDecl declares one property. At most one of Default and DefaultExpr
// is set; DefaultsByType overrides either for specific concrete types.
type PropertyDecl struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Sparse      bool           `json:"sparse,omitempty"`
	Flags       []string       `json:"flags,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	Default        any            `json:"default,omitempty"`
	DefaultExpr    string         `json:"default_expr,omitempty"`
	Engine         string         `json:"engine,omitempty"`
	DefaultsByType map[string]any `json:"defaults_by_type,omitempty"`
}

// Validate checks names, kinds and flags without touching a registry.
func (d Document) Validate() error {
	seen := map[string]bool{}
	for i, t := range d.Types {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: types[%d] has no name", props.ErrInvalidArgument, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: type %q declared twice", props.ErrDuplicate, t.Name)
		}
		seen[t.Name] = true
		for j, p := range t.Properties {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("%w: %s.properties[%d] has no name", props.ErrInvalidArgument, t.Name, j)
			}
			if _, err := p.kind(); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name, p.Name, err)
			}
			if _, err := p.flags(); err != nil {
				return fmt.Errorf("%s.%s: %w", t.Name, p.Name, err)
			}
			if p.Default != nil && p.DefaultExpr != "" {
				return fmt.Errorf("%w: %s.%s sets both default and default_expr", props.ErrInvalidArgument, t.Name, p.Name)
			}
		}
	}
	for _, s := range d.Styles {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Library loads the manifest's styles into a new in-memory library.
func (d Document) Library() (*style.MemoryLibrary, error) {
	return style.NewMemoryLibrary(d.Styles...)
}

func (p PropertyDecl) kind() (value.Kind, error) {
	if strings.TrimSpace(p.Kind) == "" {
		return value.KindUnset, nil
	}
	kind, ok := value.ParseKind(p.Kind)
	if !ok {
		return value.KindUnset, fmt.Errorf("%w: unknown kind %q", props.ErrInvalidArgument, p.Kind)
	}
	return kind, nil
}

func (p PropertyDecl) flags() (props.Flags, error) {
	var out props.Flags
	for _, name := range p.Flags {
		flag, ok := props.ParseFlag(name)
		if !ok {
			return 0, fmt.Errorf("%w: unknown flag %q", props.ErrInvalidArgument, name)
		}
		out |= flag
	}
	return out, nil
}

// order returns the types sorted so every base precedes its derived types.
// Bases not declared in the document must already exist in the registry.
func (d Document) order(existing func(string) bool) ([]TypeDecl, error) {
	byName := make(map[string]TypeDecl, len(d.Types))
	for _, t := range d.Types {
		byName[t.Name] = t
	}
	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	out := make([]TypeDecl, 0, len(d.Types))
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%w: base cycle through %q", props.ErrInvalidArgument, name)
		case done:
			return nil
		}
		t := byName[name]
		state[name] = visiting
		if t.Base != "" {
			if _, declared := byName[t.Base]; declared {
				if err := visit(t.Base); err != nil {
					return err
				}
			} else if !existing(t.Base) {
				return fmt.Errorf("%w: base %q of %q", props.ErrUnknownType, t.Base, name)
			}
		}
		state[name] = done
		out = append(out, t)
		return nil
	}
	for _, t := range d.Types {
		if err := visit(t.Name); err != nil {
			return nil, err
		}
	}
	return out, nil
}
