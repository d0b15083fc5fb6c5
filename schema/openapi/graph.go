package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/goliatone/go-props/value"
)

type schemaNode struct {
	Type        string
	Format      string
	Description string
	Properties  map[string]*schemaNode
	Required    []string
	Items       *schemaNode
	Enum        []any
	Default     any
	Minimum     *float64
	Pattern     string
	Nullable    bool
	ReadOnly    bool
	// component names reusable shapes such as geometry payloads.
	component string
	extension map[string]any
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	if n.Description != "" {
		result["description"] = n.Description
	}
	if n.Default != nil {
		result["default"] = n.Default
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if n.Minimum != nil {
		result["minimum"] = *n.Minimum
	}
	if n.Pattern != "" {
		result["pattern"] = n.Pattern
	}
	if n.Nullable {
		result["nullable"] = true
	}
	if n.ReadOnly {
		result["readOnly"] = true
	}
	return result
}

func (n *schemaNode) inlineOpenAPI() map[string]any {
	result := n.baseMap()
	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range n.propertyNames() {
			props[name] = n.Properties[name].inlineOpenAPI()
		}
		result["properties"] = props
	}
	if len(n.Required) > 0 {
		names := append([]string{}, n.Required...)
		sort.Strings(names)
		result["required"] = names
	}
	if n.Items != nil {
		result["items"] = n.Items.inlineOpenAPI()
	}
	if len(n.extension) > 0 {
		result["x-props"] = n.extension
	}
	return result
}

func (n *schemaNode) propertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Digest identifies structurally equal nodes so the component registry can
// share them.
func (n *schemaNode) Digest() string {
	data, err := json.Marshal(n.inlineOpenAPI())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func float(v float64) *float64 {
	return &v
}

func numberObject(component, format string, fields ...string) *schemaNode {
	node := newObjectNode()
	node.component = component
	for _, field := range fields {
		node.Properties[field] = &schemaNode{Type: "number", Format: format}
	}
	node.Required = append([]string{}, fields...)
	return node
}

// nodeForKind maps a storage kind to its JSON representation, matching what
// value.FromNative accepts.
func nodeForKind(kind value.Kind) *schemaNode {
	switch kind {
	case value.KindBool:
		return &schemaNode{Type: "boolean"}
	case value.KindEnum, value.KindEnum8, value.KindTypeHandle:
		return &schemaNode{Type: "integer", Minimum: float(0)}
	case value.KindSigned:
		return &schemaNode{Type: "integer", Format: "int32"}
	case value.KindUnsigned:
		return &schemaNode{Type: "integer", Format: "int64", Minimum: float(0)}
	case value.KindInt64:
		return &schemaNode{Type: "integer", Format: "int64"}
	case value.KindUInt64:
		return &schemaNode{Type: "integer", Minimum: float(0)}
	case value.KindFloat:
		return &schemaNode{Type: "number", Format: "float"}
	case value.KindDouble:
		return &schemaNode{Type: "number", Format: "double"}
	case value.KindString:
		return &schemaNode{Type: "string"}
	case value.KindColor:
		return &schemaNode{Type: "string", Pattern: "^#([0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$"}
	case value.KindPoint:
		return numberObject("Point", "float", "x", "y")
	case value.KindSize:
		return numberObject("Size", "float", "width", "height")
	case value.KindRect:
		return numberObject("Rect", "float", "x", "y", "width", "height")
	case value.KindThickness:
		return numberObject("Thickness", "double", "left", "top", "right", "bottom")
	case value.KindCornerRadius:
		return numberObject("CornerRadius", "double", "topleft", "topright", "bottomright", "bottomleft")
	case value.KindGridLength:
		node := numberObject("GridLength", "double", "value")
		node.Properties["unit"] = &schemaNode{Type: "string", Enum: []any{"auto", "pixel", "star"}}
		return node
	case value.KindTextRange:
		node := newObjectNode()
		node.component = "TextRange"
		node.Properties["start"] = &schemaNode{Type: "integer", Format: "int32"}
		node.Properties["length"] = &schemaNode{Type: "integer", Format: "int32"}
		node.Required = []string{"start", "length"}
		return node
	case value.KindDateTime:
		return &schemaNode{Type: "string", Format: "date-time"}
	case value.KindTimeSpan:
		return &schemaNode{Type: "string", Format: "duration"}
	case value.KindSignedArray:
		return &schemaNode{Type: "array", Items: nodeForKind(value.KindSigned)}
	case value.KindFloatArray:
		return &schemaNode{Type: "array", Items: nodeForKind(value.KindFloat)}
	case value.KindDoubleArray:
		return &schemaNode{Type: "array", Items: nodeForKind(value.KindDouble)}
	case value.KindPointArray:
		return &schemaNode{Type: "array", Items: nodeForKind(value.KindPoint)}
	}
	// Unset (any kind), null and reference kinds have no portable encoding.
	return &schemaNode{Nullable: true}
}

// jsonDefault converts an exported native into the shape nodeForKind
// documents.
func jsonDefault(v value.Value) any {
	switch native := v.Native().(type) {
	case value.Color:
		return native.String()
	case value.Point:
		return map[string]any{"x": native.X, "y": native.Y}
	case value.Size:
		return map[string]any{"width": native.Width, "height": native.Height}
	case value.Rect:
		return map[string]any{"x": native.X, "y": native.Y, "width": native.Width, "height": native.Height}
	case value.Thickness:
		return map[string]any{"left": native.Left, "top": native.Top, "right": native.Right, "bottom": native.Bottom}
	case value.CornerRadius:
		return map[string]any{"topleft": native.TopLeft, "topright": native.TopRight, "bottomright": native.BottomRight, "bottomleft": native.BottomLeft}
	case value.GridLength:
		units := []string{"auto", "pixel", "star"}
		unit := "pixel"
		if int(native.Unit) < len(units) {
			unit = units[native.Unit]
		}
		return map[string]any{"value": native.Value, "unit": unit}
	case value.TextRange:
		return map[string]any{"start": native.Start, "length": native.Length}
	case value.TypeIndex:
		return uint16(native)
	case uintptr, value.Object:
		return nil
	case nil:
		return nil
	default:
		return native
	}
}

// split separates a named shape from the per-property annotations that must
// not leak into the shared component.
func (n *schemaNode) split() (*schemaNode, map[string]any) {
	shape := *n
	shape.Default, shape.Description, shape.ReadOnly, shape.Nullable, shape.extension = nil, "", false, false, nil
	annotations := map[string]any{}
	if n.Nullable {
		annotations["nullable"] = true
	}
	if n.Default != nil {
		annotations["default"] = n.Default
	}
	if n.Description != "" {
		annotations["description"] = n.Description
	}
	if n.ReadOnly {
		annotations["readOnly"] = true
	}
	if len(n.extension) > 0 {
		annotations["x-props"] = n.extension
	}
	return &shape, annotations
}
