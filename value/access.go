package value

import "time"

// Accessors return the payload for the requested representation, widening
// where the conversion is lossless, and the zero value otherwise. A boxed
// value is looked through one level. Returned slices alias the buffer and
// must not be modified.

func (v Value) resolved() Value {
	if v.kind == KindBoxed {
		if inner, ok := unboxed(v); ok {
			return inner
		}
	}
	return v
}

func (v Value) AsBool() bool {
	v = v.resolved()
	return v.kind == KindBool && v.bits != 0
}

func (v Value) AsSigned() int32 {
	v = v.resolved()
	if v.kind == KindSigned {
		return v.i32()
	}
	return 0
}

func (v Value) AsUnsigned() uint32 {
	v = v.resolved()
	if v.kind == KindUnsigned {
		return uint32(v.bits)
	}
	return 0
}

func (v Value) AsInt64() int64 {
	v = v.resolved()
	switch v.kind {
	case KindSigned:
		return int64(v.i32())
	case KindUnsigned:
		return int64(uint32(v.bits))
	case KindInt64:
		return int64(v.bits)
	}
	return 0
}

func (v Value) AsUInt64() uint64 {
	v = v.resolved()
	switch v.kind {
	case KindUnsigned, KindUInt64:
		return v.bits
	case KindSigned:
		if i := v.i32(); i >= 0 {
			return uint64(i)
		}
	case KindInt64:
		if i := int64(v.bits); i >= 0 {
			return uint64(i)
		}
	}
	return 0
}

func (v Value) AsFloat() float32 {
	v = v.resolved()
	switch v.kind {
	case KindFloat:
		return v.f32()
	case KindDouble:
		return float32(v.f64())
	}
	return 0
}

func (v Value) AsDouble() float64 {
	v = v.resolved()
	switch v.kind {
	case KindFloat:
		return float64(v.f32())
	case KindDouble:
		return v.f64()
	case KindSigned:
		return float64(v.i32())
	case KindUnsigned:
		return float64(uint32(v.bits))
	case KindInt64:
		return float64(int64(v.bits))
	case KindUInt64:
		return float64(v.bits)
	}
	return 0
}

// AsEnum returns the enumeration value and its type for enum and enum8 kinds.
func (v Value) AsEnum() (uint32, TypeIndex) {
	v = v.resolved()
	if v.IsEnum() {
		return v.enumValue(), v.enumType()
	}
	return 0, UnknownType
}

func (v Value) AsColor() Color {
	if v.kind == KindColor {
		return Color(v.bits)
	}
	return 0
}

func (v Value) AsString() string {
	v = v.resolved()
	if v.kind != KindString {
		return ""
	}
	s, _ := bufferPayload[string](v)
	return s
}

func (v Value) AsPoint() Point {
	p, _ := bufferPayload[Point](v)
	return p
}

func (v Value) AsSize() Size {
	s, _ := bufferPayload[Size](v)
	return s
}

func (v Value) AsRect() Rect {
	r, _ := bufferPayload[Rect](v)
	return r
}

func (v Value) AsThickness() Thickness {
	t, _ := bufferPayload[Thickness](v)
	return t
}

func (v Value) AsGridLength() GridLength {
	g, _ := bufferPayload[GridLength](v)
	return g
}

func (v Value) AsCornerRadius() CornerRadius {
	c, _ := bufferPayload[CornerRadius](v)
	return c
}

func (v Value) AsDateTime() time.Time {
	v = v.resolved()
	if v.kind != KindDateTime {
		return time.Time{}
	}
	return dateTimeFromTicks(int64(v.bits))
}

func (v Value) AsTimeSpan() time.Duration {
	v = v.resolved()
	if v.kind != KindTimeSpan {
		return 0
	}
	return time.Duration(v.bits)
}

func (v Value) AsTypeHandle() TypeIndex {
	if v.kind == KindTypeHandle {
		return TypeIndex(v.bits)
	}
	return UnknownType
}

func (v Value) AsPointer() uintptr {
	if v.kind == KindPointer {
		return uintptr(v.bits)
	}
	return 0
}

func (v Value) AsTextRange() TextRange {
	if v.kind != KindTextRange {
		return TextRange{}
	}
	return TextRange{Start: int32(uint32(v.bits)), Length: int32(uint32(v.bits >> 32))}
}

// AsObject returns the referenced object for object, boxed and theme resource
// kinds without taking a reference.
func (v Value) AsObject() Object {
	switch v.kind {
	case KindObject, KindBoxed, KindThemeResource:
		obj, _ := v.ref.(Object)
		return obj
	}
	return nil
}

func (v Value) AsBoxed() Boxed {
	if v.kind != KindBoxed {
		return nil
	}
	b, _ := v.ref.(Boxed)
	return b
}

func (v Value) AsSignedArray() []int32 {
	a, _ := bufferPayload[[]int32](v)
	return a
}

func (v Value) AsFloatArray() []float32 {
	a, _ := bufferPayload[[]float32](v)
	return a
}

func (v Value) AsDoubleArray() []float64 {
	a, _ := bufferPayload[[]float64](v)
	return a
}

func (v Value) AsPointArray() []Point {
	a, _ := bufferPayload[[]Point](v)
	return a
}

// IsFloatingPoint reports whether v holds a float or double scalar.
func (v Value) IsFloatingPoint() bool {
	return v.kind == KindFloat || v.kind == KindDouble
}

// IsArray reports whether v holds one of the array kinds.
func (v Value) IsArray() bool {
	return v.kind.IsArray()
}

// IsEnum reports whether v holds an enum or enum8 value.
func (v Value) IsEnum() bool {
	return v.kind == KindEnum || v.kind == KindEnum8
}

// ArrayLen returns the element count of an array value, zero otherwise.
func (v Value) ArrayLen() int {
	if !v.IsArray() {
		return 0
	}
	return v.buffer().Len()
}

func bufferPayload[T any](v Value) (T, bool) {
	var zero T
	b := v.buffer()
	if b == nil {
		return zero, false
	}
	typed, ok := b.data.(T)
	return typed, ok
}
