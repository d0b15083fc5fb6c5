package defaults

import (
	"time"

	"github.com/goliatone/go-props/value"
)

// Context carries the inputs a default factory sees. Type is the concrete
// type of the object being read, which may differ from DeclaringType when the
// property is inherited from a base type.
type Context struct {
	Type          string
	DeclaringType string
	Property      string
	Kind          value.Kind
	Now           *time.Time
	Args          map[string]any
	Metadata      map[string]any
}

func (ctx Context) withDefaults() Context {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx Context) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx Context) label() string {
	switch {
	case ctx.Property == "":
		return "unknown"
	case ctx.DeclaringType == "":
		return ctx.Property
	}
	return ctx.DeclaringType + "." + ctx.Property
}

// bindings are the variables every evaluator exposes besides args/metadata.
func (ctx Context) bindings() map[string]any {
	return map[string]any{
		"ownerType":     ctx.Type,
		"declaringType": ctx.DeclaringType,
		"property":      ctx.Property,
		"kind":          ctx.Kind.String(),
	}
}
