package openapi

import (
	props "github.com/goliatone/go-props"
)

const (
	defaultPath        = "/objects/{type}/{id}/properties"
	jsonContentType    = "application/json"
	changesComponent   = "PropertyChanges"
	patchSuffix        = "Patch"
	typeExtensionField = "x-props-type"
)

type generatorConfig struct {
	openAPIVersion string
	title          string
	version        string
	description    string
	path           string
	// writeSources are the sources a patch may write at; the first is the
	// default.
	writeSources  []props.BaseValueSource
	responses     map[string]string
	rootComponent string
	resolver      *props.Resolver
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion: "3.0.3",
		title:          "Property Schema",
		version:        "1.0.0",
		path:           defaultPath,
		writeSources:   []props.BaseValueSource{props.SourceLocal, props.SourceStyle, props.SourceBuiltInStyle},
		responses: map[string]string{
			"200": "Changes applied; unchanged properties are omitted.",
			"403": "The object is frozen or a property is read-only.",
			"409": "A current value outranks the requested source and force was not set.",
			"422": "A value cannot be coerced to the property's storage kind.",
		},
	}
}

// GeneratorOption configures the OpenAPI generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.openAPIVersion = version
		}
	}
}

// WithInfo configures the info block. Empty title or version keep the
// defaults.
func WithInfo(title, version, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.version = version
		}
		cfg.description = description
	}
}

// WithPath mounts the read and patch operations at path. A "{type}" segment
// is replaced by the documented type name.
func WithPath(path string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.path = path
		}
	}
}

// WithWriteSources lists the sources a patch may write at. The first one is
// the default. SourceUnknown and SourceDefault are ignored since neither can
// be written.
func WithWriteSources(sources ...props.BaseValueSource) GeneratorOption {
	return func(cfg *generatorConfig) {
		var out []props.BaseValueSource
		for _, src := range sources {
			if src > props.SourceDefault {
				out = append(out, src)
			}
		}
		if len(out) > 0 {
			cfg.writeSources = out
		}
	}
}

// WithResponse documents an extra patch response or replaces the description
// of an existing one. An empty description removes the status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		if description == "" {
			delete(cfg.responses, status)
			return
		}
		cfg.responses[status] = description
	}
}

// WithRootComponent publishes the read schema under name and the patch
// schema under name+"Patch" instead of inlining them.
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.rootComponent = name
	}
}

// WithDefaults evaluates every property default through r and records it in
// the read schema. Properties whose default cannot be computed are
// documented without one. Generating a document instantiates the type,
// which seals its field layout.
func WithDefaults(r *props.Resolver) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.resolver = r
	}
}
