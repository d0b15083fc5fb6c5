// Package defaults computes property default values. A Factory is evaluated
// on demand when a property has neither an animated nor a stored value.
package defaults

import (
	"fmt"
	"time"

	"github.com/goliatone/go-props/value"
)

// Factory produces the default value of a property. The returned value is
// owned by the caller.
type Factory interface {
	Default(ctx Context) (value.Value, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx Context) (value.Value, error)

// Default implements Factory.
func (f FactoryFunc) Default(ctx Context) (value.Value, error) {
	if f == nil {
		return value.Unset(), nil
	}
	return f(ctx)
}

type staticFactory struct {
	v value.Value
}

// Static returns a factory producing a copy of v. v is deep copied, so the
// caller keeps ownership of its argument.
func Static(v value.Value) (Factory, error) {
	clone, err := v.Clone()
	if err != nil {
		return nil, err
	}
	return &staticFactory{v: clone}, nil
}

// MustStatic is Static for values whose copy cannot fail (inline kinds and
// heap-backed buffers).
func MustStatic(v value.Value) Factory {
	f, err := Static(v)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *staticFactory) Default(Context) (value.Value, error) {
	return f.v.Clone()
}

// Native returns a factory converting x with value.FromNative into the
// requesting property's storage kind.
func Native(x any) Factory {
	return FactoryFunc(func(ctx Context) (value.Value, error) {
		return value.FromNative(x, ctx.Kind)
	})
}

// ByType selects a factory by the concrete type being read, falling back to
// fallback. It models defaults that differ between derived types.
func ByType(fallback Factory, overrides map[string]Factory) Factory {
	table := make(map[string]Factory, len(overrides))
	for name, f := range overrides {
		table[name] = f
	}
	return FactoryFunc(func(ctx Context) (value.Value, error) {
		if f, ok := table[ctx.Type]; ok && f != nil {
			return f.Default(ctx)
		}
		if fallback == nil {
			return value.Unset(), nil
		}
		return fallback.Default(ctx)
	})
}

// ExpressionOption configures an expression factory.
type ExpressionOption func(*expressionFactory)

// WithEvaluator selects the engine. The default is expr.
func WithEvaluator(e Evaluator) ExpressionOption {
	return func(f *expressionFactory) {
		if e != nil {
			f.evaluator = e
		}
	}
}

// WithEvaluatorLogger records every evaluation.
func WithEvaluatorLogger(logger EvaluatorLogger) ExpressionOption {
	return func(f *expressionFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithArgs exposes args to the expression. Args set on the Context take
// precedence.
func WithArgs(args map[string]any) ExpressionOption {
	return func(f *expressionFactory) {
		f.args = args
	}
}

type expressionFactory struct {
	expr      string
	evaluator Evaluator
	rule      CompiledRule
	logger    EvaluatorLogger
	args      map[string]any
}

// Expression compiles expr and returns a factory that evaluates it on every
// call, converting the result into the property's storage kind. Compilation
// errors surface here rather than at first read.
func Expression(expr string, opts ...ExpressionOption) (Factory, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	f := &expressionFactory{expr: expr, logger: noopEvaluatorLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.evaluator == nil {
		f.evaluator = NewExprEvaluator()
	}
	rule, err := f.evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engineName(f.evaluator), expr, "", err)
	}
	f.rule = rule
	return f, nil
}

func (f *expressionFactory) Default(ctx Context) (value.Value, error) {
	if ctx.Args == nil && f.args != nil {
		ctx.Args = f.args
	}
	ctx = ctx.withDefaults()
	engine := engineName(f.evaluator)
	start := time.Now()
	result, err := f.rule.Evaluate(ctx)
	var out value.Value
	if err == nil {
		out, err = value.FromNative(result, ctx.Kind)
		if err != nil {
			err = fmt.Errorf("convert %T result: %w", result, err)
		}
	}
	err = wrapEvaluationError(engine, f.expr, ctx.label(), err)
	f.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     f.expr,
		Property: ctx.label(),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return value.Value{}, err
	}
	return out, nil
}

// Source returns the expression text.
func (f *expressionFactory) Source() string {
	return f.expr
}
