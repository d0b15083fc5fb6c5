// Package openapi documents the properties of a registered type as an
// OpenAPI 3 document with a read operation returning effective values and a
// patch operation writing them at a chosen source.
package openapi

import (
	"errors"
	"fmt"

	props "github.com/goliatone/go-props"
)

// Generator builds documents for types of one registry.
type Generator struct {
	registry *props.Registry
	config   generatorConfig
}

// NewGenerator constructs a generator over registry.
func NewGenerator(registry *props.Registry, opts ...GeneratorOption) *Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Generator{registry: registry, config: cfg}
}

// Generate documents every property typeName declares or inherits, plus
// sparse properties declared elsewhere when includeAttached is set.
func (g *Generator) Generate(typeName string, includeAttached bool) (map[string]any, error) {
	if g.registry == nil {
		return nil, errors.New("openapi: registry is required")
	}
	info, ok := g.registry.Type(typeName)
	if !ok {
		return nil, fmt.Errorf("openapi: %w: %q", props.ErrUnknownType, typeName)
	}
	root, err := g.rootNode(typeName, includeAttached)
	if err != nil {
		return nil, err
	}
	return newDocumentBuilder(g.config, info, root).build()
}

func (g *Generator) rootNode(typeName string, includeAttached bool) (*schemaNode, error) {
	properties := g.registry.Properties(typeName)
	if includeAttached {
		seen := map[props.PropertyID]bool{}
		for _, p := range properties {
			seen[p.ID] = true
		}
		for _, t := range g.registry.Types() {
			for _, p := range g.registry.Properties(t.Name) {
				if p.Sparse && !seen[p.ID] {
					seen[p.ID] = true
					properties = append(properties, p)
				}
			}
		}
	}

	var sample *props.Object
	if g.config.resolver != nil {
		obj, err := g.config.resolver.NewObject(typeName)
		if err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
		defer obj.Close()
		sample = obj
	}

	root := newObjectNode()
	root.Description = fmt.Sprintf("Effective property values of a %s.", typeName)
	for _, p := range properties {
		node := nodeForKind(p.Kind)
		node.Description = p.Description
		node.ReadOnly = p.Flags.Has(props.FlagReadOnly)
		node.extension = extensionFor(p, typeName)
		if sample != nil {
			node.Default = g.defaultFor(sample, p)
		}
		key := p.Name
		if p.DeclaringType != typeName && !g.registry.IsA(typeName, p.DeclaringType) {
			key = p.QualifiedName()
		}
		root.Properties[key] = node
	}
	return root, nil
}

// defaultFor reads the default through the resolver. A property without a
// usable default is documented without one.
func (g *Generator) defaultFor(obj *props.Object, p *props.Property) (out any) {
	defer func() {
		var cfgErr *props.ConfigurationError
		if rec := recover(); rec != nil {
			if err, ok := rec.(error); ok && errors.As(err, &cfgErr) {
				out = nil
				return
			}
			panic(rec)
		}
	}()
	v, err := g.config.resolver.GetEffectiveValue(obj, p.ID)
	if err != nil {
		return nil
	}
	return jsonDefault(v)
}

func extensionFor(p *props.Property, typeName string) map[string]any {
	ext := map[string]any{
		"kind":           p.Kind.String(),
		"declaring_type": p.DeclaringType,
		"storage":        "field",
	}
	if p.Sparse {
		ext["storage"] = "sparse"
	}
	if names := p.Flags.Names(); len(names) > 0 {
		flags := make([]any, len(names))
		for i, name := range names {
			flags[i] = name
		}
		ext["flags"] = flags
	}
	if p.DeclaringType != typeName {
		ext["inherited_from"] = p.DeclaringType
	}
	return ext
}
