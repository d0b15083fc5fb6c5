package manifest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/style"
	"github.com/goliatone/go-props/value"
)

func TestLoadTOMLBuildsWorkingRegistry(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "controls.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(doc.Types))
	}
	registry, err := Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if registry.FieldCount("Button") != 4 {
		t.Fatalf("expected 4 field slots on Button, got %d", registry.FieldCount("Button"))
	}
	width, ok := registry.ByName("Button", "Width")
	if !ok || !width.Flags.Has(props.FlagAffectsMeasure) || width.Description == "" {
		t.Fatalf("unexpected Width metadata %+v", width)
	}

	r := props.NewResolver(registry)
	button, err := r.NewObject("Button")
	if err != nil {
		t.Fatalf("new button: %v", err)
	}
	defer button.Close()
	control, err := r.NewObject("Control")
	if err != nil {
		t.Fatalf("new control: %v", err)
	}
	defer control.Close()

	got, err := r.GetEffectiveValue(button, width.ID)
	if err != nil || got.AsDouble() != 100 {
		t.Fatalf("expected width 100, got %v (%v)", got, err)
	}

	background, _ := registry.ByName("", "Control.Background")
	if got, _ := r.GetEffectiveValue(button, background.ID); got.AsColor() != 0xFFDDDDDD {
		t.Fatalf("expected per-type background, got %v", got)
	}
	if got, _ := r.GetEffectiveValue(control, background.ID); got.AsColor() != 0xFFFFFFFF {
		t.Fatalf("expected fallback background, got %v", got)
	}

	padding, _ := registry.ByName("Button", "Padding")
	if got, _ := r.GetEffectiveValue(button, padding.ID); got.AsThickness().Left != 8 {
		t.Fatalf("expected expression padding 8, got %v", got)
	}
	if got, _ := r.GetEffectiveValue(control, padding.ID); got.AsThickness().Left != 0 {
		t.Fatalf("expected expression padding 0, got %v", got)
	}
}

func TestLoadYAMLWithCELDefault(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "controls.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	registry, err := Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	row, ok := registry.ByName("Grid", "Row")
	if !ok || !row.Sparse || row.Kind != value.KindSigned {
		t.Fatalf("unexpected Row %+v", row)
	}
	spacing, _ := registry.ByName("Grid", "Spacing")
	if spacing.Metadata["category"] != "layout" {
		t.Fatalf("metadata not carried: %+v", spacing.Metadata)
	}

	r := props.NewResolver(registry)
	grid, _ := r.NewObject("Grid")
	defer grid.Close()
	if got, err := r.GetEffectiveValue(grid, spacing.ID); err != nil || got.AsDouble() != 4 {
		t.Fatalf("expected cel default 4, got %v (%v)", got, err)
	}
	if got, err := r.GetEffectiveValue(grid, row.ID); err != nil || got.AsSigned() != 0 {
		t.Fatalf("expected row 0, got %v (%v)", got, err)
	}
}

func TestDecodeRejectsInvalidManifests(t *testing.T) {
	cases := []struct {
		name    string
		format  string
		input   string
		wantErr string
	}{
		{"unknown kind", "yaml", "types:\n  - name: A\n    properties:\n      - name: P\n        kind: vector\n", "unknown kind"},
		{"unknown flag", "yaml", "types:\n  - name: A\n    properties:\n      - name: P\n        kind: bool\n        flags: [sticky]\n", "unknown flag"},
		{"unknown field", "toml", "[[types]]\nname = \"A\"\ncolour = \"red\"\n", "unknown field"},
		{"duplicate type", "yaml", "types:\n  - name: A\n  - name: A\n", "declared twice"},
		{"both defaults", "yaml", "types:\n  - name: A\n    properties:\n      - name: P\n        kind: double\n        default: 1\n        default_expr: '2.0'\n", "both default"},
		{"bad toml", "toml", "[[types]\n", "parse"},
		{"unsupported format", "json", "{}", "unsupported format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input), tc.format, "inline")
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBuildRejectsBrokenHierarchies(t *testing.T) {
	cycle := Document{Types: []TypeDecl{{Name: "A", Base: "B"}, {Name: "B", Base: "A"}}}
	if _, err := Build(cycle); !errors.Is(err, props.ErrInvalidArgument) {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
	missing := Document{Types: []TypeDecl{{Name: "A", Base: "Missing"}}}
	if _, err := Build(missing); !errors.Is(err, props.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	badExpr := Document{Types: []TypeDecl{{Name: "A", Properties: []PropertyDecl{{Name: "P", Kind: "double", DefaultExpr: "1 +"}}}}}
	if _, err := Build(badExpr); err == nil {
		t.Fatalf("expected compile error for broken expression")
	}
}

func TestApplyExtendsExistingRegistry(t *testing.T) {
	registry := props.NewRegistry()
	if _, err := registry.RegisterType("UIElement", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	doc := Document{Types: []TypeDecl{{
		Name: "TextBlock", Base: "UIElement",
		Properties: []PropertyDecl{{Name: "Text", Kind: "string", Default: ""}},
	}}}
	if err := Apply(registry, doc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !registry.IsA("TextBlock", "UIElement") {
		t.Fatalf("TextBlock should derive from UIElement")
	}
}

func TestManifestStylesApply(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "controls.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	registry, err := Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lib, err := doc.Library()
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if names := lib.Names(); len(names) != 2 {
		t.Fatalf("expected 2 styles, got %v", names)
	}

	r := props.NewResolver(registry)
	button, _ := r.NewObject("Button")
	defer button.Close()
	applier := style.Applier{Resolver: r, Library: lib}
	if _, err := applier.Apply(context.Background(), button, "CompactButton", false); err != nil {
		t.Fatalf("apply: %v", err)
	}
	width, _ := registry.ByName("Button", "Width")
	background, _ := registry.ByName("Button", "Background")
	if got, _ := r.GetEffectiveValue(button, width.ID); got.AsDouble() != 64 {
		t.Fatalf("expected styled width 64, got %v", got)
	}
	if got, _ := r.GetEffectiveValue(button, background.ID); got.AsColor() != 0xFF202020 {
		t.Fatalf("expected styled background, got %v", got)
	}
}
