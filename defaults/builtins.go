package defaults

import (
	"fmt"
	"math"

	"github.com/goliatone/go-props/value"
)

// NewBuiltinRegistry returns a registry preloaded with the value helpers:
//
//	rgb(r, g, b)          opaque color
//	argb(a, r, g, b)      color with alpha
//	point(x, y)           {"x", "y"}
//	size(w, h)            {"width", "height"}
//	thickness(u)          uniform thickness
//	thickness(l, t, r, b) per-side thickness
//
// Geometry helpers return maps so every engine can pass them through;
// value.FromNative turns them into the property's storage kind.
func NewBuiltinRegistry() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("rgb", func(args ...any) (any, error) {
		c, err := channels("rgb", args, 3)
		if err != nil {
			return nil, err
		}
		return uint32(value.ARGB(0xFF, c[0], c[1], c[2])), nil
	})
	_ = r.Register("argb", func(args ...any) (any, error) {
		c, err := channels("argb", args, 4)
		if err != nil {
			return nil, err
		}
		return uint32(value.ARGB(c[0], c[1], c[2], c[3])), nil
	})
	_ = r.Register("point", func(args ...any) (any, error) {
		f, err := numbers("point", args, 2)
		if err != nil {
			return nil, err
		}
		return map[string]any{"x": f[0], "y": f[1]}, nil
	})
	_ = r.Register("size", func(args ...any) (any, error) {
		f, err := numbers("size", args, 2)
		if err != nil {
			return nil, err
		}
		return map[string]any{"width": f[0], "height": f[1]}, nil
	})
	_ = r.Register("thickness", func(args ...any) (any, error) {
		if len(args) == 1 {
			f, err := numbers("thickness", args, 1)
			if err != nil {
				return nil, err
			}
			args = []any{f[0], f[0], f[0], f[0]}
		}
		f, err := numbers("thickness", args, 4)
		if err != nil {
			return nil, err
		}
		return map[string]any{"left": f[0], "top": f[1], "right": f[2], "bottom": f[3]}, nil
	})
	return r
}

func numbers(name string, args []any, want int) ([]float64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("defaults: %s expects %d arguments, got %d", name, want, len(args))
	}
	out := make([]float64, len(args))
	for i, arg := range args {
		switch n := arg.(type) {
		case int:
			out[i] = float64(n)
		case int64:
			out[i] = float64(n)
		case uint64:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return nil, fmt.Errorf("defaults: %s argument %d is %T, not a number", name, i, arg)
		}
	}
	return out, nil
}

func channels(name string, args []any, want int) ([]uint8, error) {
	f, err := numbers(name, args, want)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(f))
	for i, n := range f {
		if n < 0 || n > math.MaxUint8 || n != math.Trunc(n) {
			return nil, fmt.Errorf("defaults: %s channel %v out of range", name, n)
		}
		out[i] = uint8(n)
	}
	return out, nil
}
