package openapi

import (
	"fmt"
	"sort"
	"strings"

	props "github.com/goliatone/go-props"
)

// documentBuilder lays out the read and patch operations of one type.
type documentBuilder struct {
	config     generatorConfig
	components *componentRegistry
	info       props.TypeInfo
	read       *schemaNode
	patch      *schemaNode
}

func newDocumentBuilder(config generatorConfig, info props.TypeInfo, read *schemaNode) *documentBuilder {
	return &documentBuilder{
		config:     config,
		components: newComponentRegistry(),
		info:       info,
		read:       read,
		patch:      patchNode(info.Name, read),
	}
}

func (b *documentBuilder) build() (map[string]any, error) {
	readSchema, patchSchema := b.bodySchemas()
	changesRef := b.components.forceReference(changesComponent, changesNode())

	path := strings.ReplaceAll(b.config.path, "{type}", b.info.Name)
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.infoMap(),
		"paths": map[string]any{
			path: map[string]any{
				"get":   b.readOperation(path, readSchema),
				"patch": b.patchOperation(path, patchSchema, changesRef),
			},
		},
		typeExtensionField: b.typeExtension(),
	}
	if components := b.components.componentsMap(); components != nil {
		document["components"] = map[string]any{"schemas": components}
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) bodySchemas() (map[string]any, map[string]any) {
	root := b.config.rootComponent
	if root == "" {
		return b.schemaFor(b.read, b.info.Name), b.schemaFor(b.patch, b.info.Name+patchSuffix)
	}
	readRef := b.components.forceReference(root, b.read)
	b.registerDescendants(root, b.read)
	patchRef := b.components.forceReference(root+patchSuffix, b.patch)
	b.registerDescendants(root+patchSuffix, b.patch)
	return map[string]any{"$ref": readRef}, map[string]any{"$ref": patchRef}
}

func (b *documentBuilder) infoMap() map[string]any {
	info := map[string]any{
		"title":   b.config.title,
		"version": b.config.version,
	}
	if b.config.description != "" {
		info["description"] = b.config.description
	}
	return info
}

func (b *documentBuilder) typeExtension() map[string]any {
	sparse := 0
	for _, node := range b.read.Properties {
		if node.extension["storage"] == "sparse" {
			sparse++
		}
	}
	ext := map[string]any{
		"name":   b.info.Name,
		"index":  uint16(b.info.Index),
		"fields": b.info.Fields,
		"sparse": sparse,
	}
	if b.info.Base != "" {
		ext["base"] = b.info.Base
	}
	return ext
}

func (b *documentBuilder) readOperation(path string, schema map[string]any) map[string]any {
	op := map[string]any{
		"operationId": "get" + b.operationName(),
		"summary":     fmt.Sprintf("Read the effective property values of a %s", b.info.Name),
		"responses": map[string]any{
			"200": map[string]any{
				"description": "Effective values after animation, local, style, inherited and default resolution.",
				"content":     jsonContent(schema),
			},
		},
	}
	if params := pathParameters(path); len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func (b *documentBuilder) patchOperation(path string, schema map[string]any, changesRef string) map[string]any {
	sources := make([]any, len(b.config.writeSources))
	for i, src := range b.config.writeSources {
		sources[i] = src.String()
	}
	params := append(pathParameters(path),
		map[string]any{
			"name":        "source",
			"in":          "query",
			"description": "Source the values are written at.",
			"schema":      map[string]any{"type": "string", "enum": sources, "default": sources[0]},
		},
		map[string]any{
			"name":        "force",
			"in":          "query",
			"description": "Overwrite values held by a higher ranked source.",
			"schema":      map[string]any{"type": "boolean", "default": false},
		},
	)

	statuses := make([]string, 0, len(b.config.responses))
	for status := range b.config.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		resp := map[string]any{"description": b.config.responses[status]}
		if status == "200" {
			resp["content"] = jsonContent(map[string]any{"$ref": changesRef})
		}
		responses[status] = resp
	}

	return map[string]any{
		"operationId": "patch" + b.operationName(),
		"summary":     fmt.Sprintf("Write property values of a %s", b.info.Name),
		"parameters":  params,
		"requestBody": map[string]any{
			"required": true,
			"content":  jsonContent(schema),
		},
		"responses": responses,
	}
}

func (b *documentBuilder) operationName() string {
	return strings.ReplaceAll(sanitizeComponentName(b.info.Name), "_", "") + "Properties"
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{jsonContentType: map[string]any{"schema": schema}}
}

func pathParameters(path string) []any {
	if !strings.Contains(path, "{id}") {
		return nil
	}
	return []any{map[string]any{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   map[string]any{"type": "string", "format": "uuid"},
	}}
}

// patchNode derives the write shape from the read shape: read-only
// properties are dropped, defaults are left out and every value may be null,
// which clears it.
func patchNode(typeName string, read *schemaNode) *schemaNode {
	patch := newObjectNode()
	patch.Description = fmt.Sprintf("Values to write on a %s. null clears the value held at the requested source.", typeName)
	for name, node := range read.Properties {
		if node.ReadOnly {
			continue
		}
		writable := *node
		writable.Default = nil
		writable.Nullable = true
		patch.Properties[name] = &writable
	}
	return patch
}

func changesNode() *schemaNode {
	all := []any{}
	for src := props.SourceDefault; src <= props.SourceLocal; src++ {
		all = append(all, src.String())
	}
	change := newObjectNode()
	change.Properties["property"] = &schemaNode{Type: "string", Description: "Qualified property name."}
	change.Properties["old_source"] = &schemaNode{Type: "string", Enum: all}
	change.Properties["new_source"] = &schemaNode{Type: "string", Enum: all}
	change.Properties["needs_invalidation"] = &schemaNode{Type: "boolean", Description: "Set when a layout-affecting property changed."}
	change.Required = []string{"property", "old_source", "new_source"}
	return &schemaNode{Type: "array", Items: change}
}

func (b *documentBuilder) schemaFor(node *schemaNode, nameHint string) map[string]any {
	if node.component != "" {
		shape, annotations := node.split()
		ref := b.components.register(nameHint, shape)
		if len(annotations) == 0 {
			return map[string]any{"$ref": ref}
		}
		annotations["allOf"] = []any{map[string]any{"$ref": ref}}
		return annotations
	}

	result := node.baseMap()
	if len(node.Properties) > 0 || node.Type == "object" {
		properties := make(map[string]any, len(node.Properties))
		for _, key := range node.propertyNames() {
			properties[key] = b.schemaFor(node.Properties[key], nameHint+"_"+key)
		}
		result["properties"] = properties
	}
	if len(node.Required) > 0 {
		required := append([]string{}, node.Required...)
		sort.Strings(required)
		result["required"] = required
	}
	if node.Items != nil {
		result["items"] = b.schemaFor(node.Items, nameHint+"_item")
	}
	if len(node.extension) > 0 {
		result["x-props"] = node.extension
	}
	return result
}

// registerDescendants publishes the geometry shapes a root component uses.
func (b *documentBuilder) registerDescendants(nameHint string, node *schemaNode) {
	for _, key := range node.propertyNames() {
		b.schemaFor(node.Properties[key], nameHint+"_"+key)
	}
}

func validateDocument(document map[string]any) error {
	info, _ := document["info"].(map[string]any)
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	for pathKey, item := range paths {
		if !strings.HasPrefix(pathKey, "/") {
			return fmt.Errorf("openapi: path %q must start with /", pathKey)
		}
		for method, raw := range item.(map[string]any) {
			op := raw.(map[string]any)
			if responses, _ := op["responses"].(map[string]any); len(responses) == 0 {
				return fmt.Errorf("openapi: %s %s has no responses", method, pathKey)
			}
		}
		if strings.Contains(pathKey, "{") && !strings.Contains(pathKey, "{id}") {
			return fmt.Errorf("openapi: path %q has an unbound parameter", pathKey)
		}
	}
	return nil
}
