package props

import (
	"testing"

	"github.com/goliatone/go-props/defaults"
	"github.com/goliatone/go-props/value"
)

const defaultWidth = 100.0

type fixture struct {
	registry   *Registry
	opacity    *Property
	width      *Property
	fontSize   *Property
	broken     *Property
	name       *Property
	tag        *Property
	padding    *Property
	background *Property
	row        *Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := NewRegistry()
	f := &fixture{registry: r}
	mustType := func(name, base string) {
		if _, err := r.RegisterType(name, base); err != nil {
			t.Fatalf("register type %s: %v", name, err)
		}
	}

	mustType("UIElement", "")
	f.opacity = r.MustRegister(Property{
		Name: "Opacity", DeclaringType: "UIElement", Kind: value.KindDouble,
		Flags: FlagAffectsRender, Default: defaults.MustStatic(value.FromDouble(1)),
	})
	f.name = r.MustRegister(Property{
		Name: "Name", DeclaringType: "UIElement", Kind: value.KindString, Sparse: true,
		Flags: FlagReadOnly, Default: defaults.MustStatic(value.FromString("")),
	})

	mustType("Control", "UIElement")
	f.width = r.MustRegister(Property{
		Name: "Width", DeclaringType: "Control", Kind: value.KindDouble,
		Flags: FlagAffectsMeasure, Default: defaults.MustStatic(value.FromDouble(defaultWidth)),
	})
	f.fontSize = r.MustRegister(Property{
		Name: "FontSize", DeclaringType: "Control", Kind: value.KindDouble,
		Flags: FlagInherited | FlagAffectsMeasure, Default: defaults.Native(14),
	})
	f.broken = r.MustRegister(Property{
		Name: "Broken", DeclaringType: "Control", Kind: value.KindSigned,
	})
	f.tag = r.MustRegister(Property{
		Name: "Tag", DeclaringType: "Control", Kind: value.KindString, Sparse: true,
		Default: defaults.MustStatic(value.FromString("")),
	})
	evaluator, err := defaults.EvaluatorFor("expr", nil, defaults.NewBuiltinRegistry())
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	padding, err := defaults.Expression(`ownerType == "Button" ? thickness(8) : thickness(0)`, defaults.WithEvaluator(evaluator))
	if err != nil {
		t.Fatalf("padding default: %v", err)
	}
	f.padding = r.MustRegister(Property{
		Name: "Padding", DeclaringType: "Control", Kind: value.KindThickness, Sparse: true,
		Flags: FlagAffectsMeasure, Default: padding,
	})
	f.background = r.MustRegister(Property{
		Name: "Background", DeclaringType: "Control", Kind: value.KindColor,
		Flags: FlagAffectsRender, Default: defaults.Native("#FFFFFF"),
	})

	mustType("Button", "Control")
	mustType("Grid", "UIElement")
	f.row = r.MustRegister(Property{
		Name: "Row", DeclaringType: "Grid", Kind: value.KindSigned, Sparse: true,
		Default: defaults.Native(0),
	})
	return f
}

func (f *fixture) object(t *testing.T, r *Resolver, typeName string) *Object {
	t.Helper()
	obj, err := r.NewObject(typeName)
	if err != nil {
		t.Fatalf("new object %s: %v", typeName, err)
	}
	t.Cleanup(obj.Close)
	return obj
}

func effectiveDouble(t *testing.T, r *Resolver, obj *Object, p *Property) float64 {
	t.Helper()
	v, err := r.GetEffectiveValue(obj, p.ID)
	if err != nil {
		t.Fatalf("get %s: %v", p, err)
	}
	if v.Kind() != value.KindDouble {
		t.Fatalf("expected double for %s, got %v", p, v)
	}
	return v.AsDouble()
}
