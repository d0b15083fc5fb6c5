package defaults

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-props/value"
)

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry))
		},
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry))
		},
	},
	{
		name: "js",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			return NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry))
		},
	},
}

func TestStaticFactoryReturnsIndependentCopies(t *testing.T) {
	src := value.FromString("hello")
	factory, err := Static(src)
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	src.Destroy()

	first, err := factory.Default(Context{})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	second, _ := factory.Default(Context{})
	if !first.OwnsValue() || first.AsString() != "hello" {
		t.Fatalf("expected owned copy, got %v", first)
	}
	first.Destroy()
	if second.AsString() != "hello" {
		t.Fatalf("copies must be independent, got %v", second)
	}
	second.Destroy()
}

func TestNativeFactoryUsesStorageKind(t *testing.T) {
	got, err := Native(5).Default(Context{Kind: value.KindDouble})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if got.Kind() != value.KindDouble || got.AsDouble() != 5 {
		t.Fatalf("expected double 5, got %v", got)
	}
	if _, err := Native("x").Default(Context{Kind: value.KindSigned}); !errors.Is(err, value.ErrInvalidArgument) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestByTypeSelectsOverride(t *testing.T) {
	factory := ByType(Native(1), map[string]Factory{"Button": Native(8)})
	cases := map[string]int32{"Button": 8, "Panel": 1}
	for typ, want := range cases {
		got, err := factory.Default(Context{Type: typ, Kind: value.KindSigned})
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if got.AsSigned() != want {
			t.Fatalf("%s: expected %d, got %v", typ, want, got)
		}
	}
}

func TestExpressionDefaultsAcrossEngines(t *testing.T) {
	for _, tc := range evaluatorFactories {
		t.Run(tc.name, func(t *testing.T) {
			evaluator := tc.new(NewMapCache(), nil)
			if evaluator == nil {
				t.Skip("engine not available in this build")
			}
			factory, err := Expression(`ownerType == "Button" ? 12 : 4`, WithEvaluator(evaluator))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := factory.Default(Context{Type: "Button", Property: "Padding", Kind: value.KindDouble})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.Kind() != value.KindDouble || got.AsDouble() != 12 {
				t.Fatalf("expected 12, got %v", got)
			}
			got, _ = factory.Default(Context{Type: "Panel", Property: "Padding", Kind: value.KindDouble})
			if got.AsDouble() != 4 {
				t.Fatalf("expected 4 for Panel, got %v", got)
			}
		})
	}
}

func TestExpressionUsesBuiltins(t *testing.T) {
	registry := NewBuiltinRegistry()
	cases := []struct {
		engine string
		expr   string
	}{
		{"expr", `rgb(255, 0, 0)`},
		{"cel", `call("rgb", [255, 0, 0])`},
	}
	for _, tc := range cases {
		t.Run(tc.engine+" "+tc.expr, func(t *testing.T) {
			evaluator, err := EvaluatorFor(tc.engine, nil, registry)
			if err != nil {
				t.Fatalf("evaluator: %v", err)
			}
			factory, err := Expression(tc.expr, WithEvaluator(evaluator))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := factory.Default(Context{Kind: value.KindColor})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.AsColor() != value.ARGB(0xFF, 0xFF, 0, 0) {
				t.Fatalf("expected opaque red, got %v", got)
			}
		})
	}
}

func TestExpressionGeometryDefault(t *testing.T) {
	evaluator, _ := EvaluatorFor("expr", nil, NewBuiltinRegistry())
	factory, err := Expression(`thickness(2)`, WithEvaluator(evaluator))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := factory.Default(Context{Kind: value.KindThickness})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	defer got.Destroy()
	if got.AsThickness() != (value.Thickness{Left: 2, Top: 2, Right: 2, Bottom: 2}) {
		t.Fatalf("unexpected thickness %v", got)
	}
}

func TestExpressionLogsEvaluations(t *testing.T) {
	var events []EvaluatorLogEvent
	logger := EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})
	factory, err := Expression(`args.base * 2`, WithEvaluatorLogger(logger), WithArgs(map[string]any{"base": 21}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := factory.Default(Context{DeclaringType: "Control", Property: "Width", Kind: value.KindSigned})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.AsSigned() != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	if events[0].Engine != "expr" || events[0].Property != "Control.Width" || events[0].Err != nil {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestExpressionConversionFailure(t *testing.T) {
	factory, err := Expression(`"wide"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, err = factory.Default(Context{Property: "Width", Kind: value.KindDouble})
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if !errors.Is(err, value.ErrInvalidArgument) {
		t.Fatalf("expected the conversion failure to unwrap, got %v", err)
	}
}

func TestExpressionCompileErrors(t *testing.T) {
	if _, err := Expression(""); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	_, err := Expression(`1 +`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "expr" {
		t.Fatalf("expected expr EvaluationError, got %v", err)
	}
}

func TestExpressionSeesNow(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	factory, err := Expression(`now`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := factory.Default(Context{Now: &fixed, Kind: value.KindDateTime})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !got.AsDateTime().Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, got.AsDateTime())
	}
}

func TestProgramCacheReuse(t *testing.T) {
	cache := NewMapCache()
	evaluator := NewExprEvaluator(ExprWithProgramCache(cache))
	for i := 0; i < 3; i++ {
		if _, err := evaluator.Evaluate(Context{}, `1 + 1`); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}

func TestEvaluatorForUnknownEngine(t *testing.T) {
	if _, err := EvaluatorFor("lua", nil, nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}
