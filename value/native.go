package value

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FromNative converts a Go value into an owned Value of kind. Pass KindUnset
// to keep the natural kind of x. Natives are the values produced by
// expression evaluators, manifests and style setters: booleans, integers,
// floats, strings, time values, the geometry types of this package, slices and
// maps describing geometry ({"x": 1, "y": 2}). A string is parsed as a color
// when kind is KindColor.
func FromNative(x any, kind Kind) (Value, error) {
	natural, err := nativeValue(x, kind)
	if err != nil {
		return Value{}, err
	}
	if kind == KindUnset || natural.kind == kind {
		return natural, nil
	}
	defer natural.Destroy()
	coerced, err := Coerce(natural, kind)
	if err != nil {
		return Value{}, err
	}
	return coerced.Clone()
}

func nativeValue(x any, hint Kind) (Value, error) {
	switch typed := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed.Clone()
	case bool:
		return FromBool(typed), nil
	case int:
		return integerValue(int64(typed), hint), nil
	case int8:
		return integerValue(int64(typed), hint), nil
	case int16:
		return integerValue(int64(typed), hint), nil
	case int32:
		return integerValue(int64(typed), hint), nil
	case int64:
		return integerValue(typed, hint), nil
	case uint8:
		return unsignedValue(uint64(typed), hint), nil
	case uint16:
		return unsignedValue(uint64(typed), hint), nil
	case uint32:
		return unsignedValue(uint64(typed), hint), nil
	case uint:
		return unsignedValue(uint64(typed), hint), nil
	case uint64:
		return unsignedValue(typed, hint), nil
	case float32:
		return FromFloat(typed), nil
	case float64:
		return FromDouble(typed), nil
	case string:
		if hint == KindColor {
			c, err := ParseColor(typed)
			if err != nil {
				return Value{}, &KindError{Op: "native", From: KindString, To: hint, Detail: typed, Err: fmt.Errorf("%w: %w", ErrInvalidArgument, err)}
			}
			return FromColor(c), nil
		}
		return FromString(typed), nil
	case time.Time:
		return FromDateTime(typed), nil
	case time.Duration:
		return FromTimeSpan(typed), nil
	case Color:
		return FromColor(typed), nil
	case TypeIndex:
		return FromTypeHandle(typed), nil
	case TextRange:
		return FromTextRange(typed), nil
	case Point:
		return FromPoint(typed), nil
	case Size:
		return FromSize(typed), nil
	case Rect:
		return FromRect(typed), nil
	case Thickness:
		return FromThickness(typed), nil
	case GridLength:
		return FromGridLength(typed), nil
	case CornerRadius:
		return FromCornerRadius(typed), nil
	case []int32:
		return FromSignedArray(typed), nil
	case []float32:
		return FromFloatArray(typed), nil
	case []float64:
		return FromDoubleArray(typed), nil
	case []Point:
		return FromPointArray(typed), nil
	case []any:
		return sliceValue(typed, hint)
	case map[string]any:
		return geometryValue(typed, hint)
	case Boxed:
		return FromBoxed(typed), nil
	case Object:
		if hint == KindThemeResource {
			return FromThemeResource(typed), nil
		}
		return FromObject(typed), nil
	}
	return Value{}, invalidKind("native", KindUnset, hint, typeName(x))
}

func integerValue(i int64, hint Kind) Value {
	switch hint {
	case KindEnum:
		if i >= 0 && i <= math.MaxUint32 {
			return FromEnum(uint32(i), UnknownType)
		}
	case KindEnum8:
		if i >= 0 && i <= math.MaxUint8 {
			return FromEnum8(uint8(i), UnknownType)
		}
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return FromSigned(int32(i))
	}
	return FromInt64(i)
}

func unsignedValue(u uint64, hint Kind) Value {
	if hint == KindEnum || hint == KindEnum8 {
		if u <= math.MaxInt64 {
			return integerValue(int64(u), hint)
		}
	}
	if u <= math.MaxUint32 {
		return FromUnsigned(uint32(u))
	}
	return FromUInt64(u)
}

func sliceValue(items []any, hint Kind) (Value, error) {
	switch hint {
	case KindSignedArray:
		out := make([]int32, 0, len(items))
		for _, item := range items {
			f, ok := toFloat(item)
			if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
				return Value{}, invalidKind("native", KindUnset, hint, typeName(item))
			}
			out = append(out, int32(f))
		}
		return FromSignedArray(out), nil
	case KindFloatArray:
		out := make([]float32, 0, len(items))
		for _, item := range items {
			f, ok := toFloat(item)
			if !ok {
				return Value{}, invalidKind("native", KindUnset, hint, typeName(item))
			}
			out = append(out, float32(f))
		}
		return FromFloatArray(out), nil
	case KindDoubleArray, KindUnset:
		out := make([]float64, 0, len(items))
		for _, item := range items {
			f, ok := toFloat(item)
			if !ok {
				return Value{}, invalidKind("native", KindUnset, hint, typeName(item))
			}
			out = append(out, f)
		}
		return FromDoubleArray(out), nil
	case KindPointArray:
		out := make([]Point, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				return Value{}, invalidKind("native", KindUnset, hint, typeName(item))
			}
			p, err := pointFrom(m)
			if err != nil {
				return Value{}, err
			}
			out = append(out, p)
		}
		return FromPointArray(out), nil
	}
	return Value{}, invalidKind("native", KindUnset, hint, "slice")
}

func geometryValue(m map[string]any, hint Kind) (Value, error) {
	switch hint {
	case KindPoint:
		p, err := pointFrom(m)
		if err != nil {
			return Value{}, err
		}
		return FromPoint(p), nil
	case KindSize:
		w, h, err := pair(m, hint, "width", "height")
		if err != nil {
			return Value{}, err
		}
		return FromSize(Size{Width: float32(w), Height: float32(h)}), nil
	case KindRect:
		x, y, err := pair(m, hint, "x", "y")
		if err != nil {
			return Value{}, err
		}
		w, h, err := pair(m, hint, "width", "height")
		if err != nil {
			return Value{}, err
		}
		return FromRect(Rect{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}), nil
	case KindThickness:
		l, t, err := pair(m, hint, "left", "top")
		if err != nil {
			return Value{}, err
		}
		r, b, err := pair(m, hint, "right", "bottom")
		if err != nil {
			return Value{}, err
		}
		return FromThickness(Thickness{Left: l, Top: t, Right: r, Bottom: b}), nil
	case KindCornerRadius:
		tl, tr, err := pair(m, hint, "topleft", "topright")
		if err != nil {
			return Value{}, err
		}
		br, bl, err := pair(m, hint, "bottomright", "bottomleft")
		if err != nil {
			return Value{}, err
		}
		return FromCornerRadius(CornerRadius{TopLeft: tl, TopRight: tr, BottomRight: br, BottomLeft: bl}), nil
	case KindGridLength:
		length, ok := toFloat(lookup(m, "value"))
		if !ok {
			return Value{}, invalidKind("native", KindUnset, hint, "missing value")
		}
		unit := GridUnitPixel
		if raw, ok := lookup(m, "unit").(string); ok {
			switch strings.ToLower(raw) {
			case "auto":
				unit = GridUnitAuto
			case "star", "*":
				unit = GridUnitStar
			}
		}
		return FromGridLength(GridLength{Value: length, Unit: unit}), nil
	}
	return Value{}, invalidKind("native", KindUnset, hint, "map")
}

func pointFrom(m map[string]any) (Point, error) {
	x, y, err := pair(m, KindPoint, "x", "y")
	if err != nil {
		return Point{}, err
	}
	return Point{X: float32(x), Y: float32(y)}, nil
}

func pair(m map[string]any, kind Kind, first, second string) (float64, float64, error) {
	a, okA := toFloat(lookup(m, first))
	b, okB := toFloat(lookup(m, second))
	if !okA || !okB {
		return 0, 0, invalidKind("native", KindUnset, kind, fmt.Sprintf("fields %s/%s required", first, second))
	}
	return a, b, nil
}

func lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Native exports the payload as a Go value. Arrays are copied; objects are
// returned without taking a reference.
func (v Value) Native() any {
	switch v.kind {
	case KindUnset, KindNull:
		return nil
	case KindBool:
		return v.bits != 0
	case KindEnum, KindEnum8:
		return v.enumValue()
	case KindSigned:
		return v.i32()
	case KindUnsigned:
		return uint32(v.bits)
	case KindInt64:
		return int64(v.bits)
	case KindUInt64:
		return v.bits
	case KindFloat:
		return v.f32()
	case KindDouble:
		return v.f64()
	case KindColor:
		return Color(v.bits)
	case KindDateTime:
		return v.AsDateTime()
	case KindTimeSpan:
		return v.AsTimeSpan()
	case KindTypeHandle:
		return TypeIndex(v.bits)
	case KindPointer:
		return uintptr(v.bits)
	case KindTextRange:
		return v.AsTextRange()
	case KindBoxed:
		if inner, ok := unboxed(v); ok {
			return inner.Native()
		}
		return v.ref
	case KindObject, KindThemeResource:
		return v.ref
	}
	b := v.buffer()
	if b == nil {
		return nil
	}
	return cloneData(b.data)
}

func (v Value) String() string {
	switch {
	case v.kind == KindUnset:
		return "unset"
	case v.IsNull():
		return v.kind.String() + "(null)"
	case v.kind == KindString:
		return fmt.Sprintf("string(%q)", v.AsString())
	case v.IsEnum():
		val, t := v.AsEnum()
		return fmt.Sprintf("%s(%d:%d)", v.kind, val, t)
	}
	native := v.Native()
	if v.kind.IsArray() {
		return fmt.Sprintf("%s%v", v.kind, native)
	}
	return fmt.Sprintf("%s(%v)", v.kind, native)
}

// Equal reports whether v equals other under Equals.
func (v Value) Equal(other Value) bool {
	return Equals(v, other)
}

func typeName(x any) string {
	if x == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", x)
}
