package value

import "math"

// Coerce converts v to kind to. The result never owns its payload: it is
// either a view of v (same kind, or the unboxed content of a boxed value) or
// a freshly computed inline value. Callers that keep the result deep copy it.
//
// Supported paths: identity; lossless or range-checked conversions between
// the numeric kinds; enum8 to enum and back when the value fits; unsigned to
// color and back; null to any nullable kind; one level of unboxing. Any other
// pairing fails with ErrInvalidArgument.
func Coerce(v Value, to Kind) (Value, error) {
	if !to.IsValid() {
		return Value{}, invalidKind("coerce", v.kind, to, "unknown kind")
	}
	if v.kind == to {
		return v.View(), nil
	}
	if v.kind == KindBoxed {
		if inner, ok := unboxed(v); ok {
			if inner.kind == to {
				return inner.View(), nil
			}
			return coerceOnce(inner, to)
		}
	}
	return coerceOnce(v, to)
}

// CanCoerce reports whether Coerce(v, to) would succeed.
func CanCoerce(v Value, to Kind) bool {
	_, err := Coerce(v, to)
	return err == nil
}

func coerceOnce(v Value, to Kind) (Value, error) {
	switch {
	case v.kind == KindNull && to.Nullable():
		return Null(), nil
	case v.kind == KindEnum8 && to == KindEnum:
		return FromEnum(v.enumValue(), v.enumType()), nil
	case v.kind == KindEnum && to == KindEnum8:
		if val := v.enumValue(); val <= math.MaxUint8 {
			return FromEnum8(uint8(val), v.enumType()), nil
		}
		return Value{}, invalidKind("coerce", v.kind, to, "enum value out of range")
	case v.kind == KindUnsigned && to == KindColor:
		return FromColor(Color(uint32(v.bits))), nil
	case v.kind == KindColor && to == KindUnsigned:
		return FromUnsigned(uint32(v.bits)), nil
	case v.kind.isNumeric() && to.isNumeric():
		if out, ok := convertNumber(v, to); ok {
			return out, nil
		}
		return Value{}, invalidKind("coerce", v.kind, to, "value out of range")
	}
	return Value{}, invalidKind("coerce", v.kind, to, "")
}

func convertNumber(v Value, to Kind) (Value, bool) {
	switch v.kind {
	case KindFloat, KindDouble:
		return fromFloating(v.AsDouble(), to)
	case KindSigned, KindInt64:
		return fromInteger(v.AsInt64(), to)
	case KindUnsigned, KindUInt64:
		return fromUnsigned(v.bits, to)
	}
	return Value{}, false
}

func fromFloating(f float64, to Kind) (Value, bool) {
	switch to {
	case KindDouble:
		return FromDouble(f), true
	case KindFloat:
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) <= math.MaxFloat32 {
			return FromFloat(float32(f)), true
		}
		return Value{}, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return Value{}, false
	}
	if f < 0 {
		if f < math.MinInt64 {
			return Value{}, false
		}
		return fromInteger(int64(f), to)
	}
	if f >= math.MaxUint64 {
		return Value{}, false
	}
	return fromUnsigned(uint64(f), to)
}

func fromInteger(i int64, to Kind) (Value, bool) {
	if i >= 0 {
		return fromUnsigned(uint64(i), to)
	}
	switch to {
	case KindSigned:
		if i >= math.MinInt32 {
			return FromSigned(int32(i)), true
		}
	case KindInt64:
		return FromInt64(i), true
	case KindFloat:
		return FromFloat(float32(i)), true
	case KindDouble:
		return FromDouble(float64(i)), true
	}
	return Value{}, false
}

func fromUnsigned(u uint64, to Kind) (Value, bool) {
	switch to {
	case KindSigned:
		if u <= math.MaxInt32 {
			return FromSigned(int32(u)), true
		}
	case KindUnsigned:
		if u <= math.MaxUint32 {
			return FromUnsigned(uint32(u)), true
		}
	case KindInt64:
		if u <= math.MaxInt64 {
			return FromInt64(int64(u)), true
		}
	case KindUInt64:
		return FromUInt64(u), true
	case KindFloat:
		return FromFloat(float32(u)), true
	case KindDouble:
		return FromDouble(float64(u)), true
	}
	return Value{}, false
}
