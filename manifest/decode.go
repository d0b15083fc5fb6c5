package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-props/internal/hydrate"
)

// Formats accepted by Decode.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// DecodeTOML parses a TOML manifest. source names the payload in errors.
func DecodeTOML(data []byte, source string) (Document, error) {
	var payload map[string]any
	if err := toml.Unmarshal(data, &payload); err != nil {
		return Document{}, fmt.Errorf("manifest: parse %s: %w", source, err)
	}
	return hydrateDocument(hydrate.Context{Source: source, Format: FormatTOML}, payload)
}

// DecodeYAML parses a YAML manifest. source names the payload in errors.
func DecodeYAML(data []byte, source string) (Document, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return Document{}, fmt.Errorf("manifest: parse %s: %w", source, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return hydrateDocument(hydrate.Context{Source: source, Format: FormatYAML}, payload)
}

// Decode dispatches on format ("toml", "yaml" or "yml").
func Decode(data []byte, format, source string) (Document, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case FormatTOML:
		return DecodeTOML(data, source)
	case FormatYAML, "yml":
		return DecodeYAML(data, source)
	}
	return Document{}, fmt.Errorf("manifest: unsupported format %q for %s", format, source)
}

// Load reads path and decodes it according to its extension.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Decode(data, filepath.Ext(path), path)
}

func hydrateDocument(ctx hydrate.Context, payload map[string]any) (Document, error) {
	decoder := hydrate.NewDecoder(
		hydrate.WithPreHook[Document](normalizeKeys),
		hydrate.WithDisallowUnknownFields[Document](),
		hydrate.WithPostHook[Document](func(_ hydrate.Context, doc *Document) error {
			return doc.Validate()
		}),
	)
	doc, err := decoder.Decode(ctx, payload)
	if err != nil {
		return Document{}, fmt.Errorf("manifest: %w", err)
	}
	return doc, nil
}

// normalizeKeys accepts kebab-case keys ("default-expr") and a single flag
// written as a string.
func normalizeKeys(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	types, _ := payload["types"].([]any)
	for _, rawType := range types {
		t, ok := rawType.(map[string]any)
		if !ok {
			continue
		}
		properties, _ := t["properties"].([]any)
		for _, rawProp := range properties {
			p, ok := rawProp.(map[string]any)
			if !ok {
				continue
			}
			for key, v := range p {
				if strings.Contains(key, "-") {
					delete(p, key)
					p[strings.ReplaceAll(key, "-", "_")] = v
				}
			}
			if flag, ok := p["flags"].(string); ok {
				p["flags"] = []any{flag}
			}
		}
	}
	return payload, nil
}
