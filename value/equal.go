package value

// Equals compares two values.
//
// Values of the same kind use the kind's comparator: bit equality for inline
// kinds, content for strings, geometry and arrays, and reference identity for
// objects. Mixed kinds follow a fixed promotion table: float and double are
// compared as doubles, enum8 is widened to enum, and a boxed value is unboxed
// one level before comparing. Any other kind mismatch is unequal.
func Equals(a, b Value) bool {
	return equals(a, b, true)
}

func equals(a, b Value, unbox bool) bool {
	if a.kind == b.kind {
		if !a.kind.IsValid() {
			return false
		}
		return handlers[a.kind].equal(a, b)
	}

	switch {
	case a.kind == KindFloat && b.kind == KindDouble:
		return float64(a.f32()) == b.f64()
	case a.kind == KindDouble && b.kind == KindFloat:
		return a.f64() == float64(b.f32())
	case a.kind == KindEnum8 && b.kind == KindEnum,
		a.kind == KindEnum && b.kind == KindEnum8:
		return a.enumValue() == b.enumValue() && a.enumType() == b.enumType()
	}

	if !unbox {
		return false
	}
	if a.kind == KindBoxed {
		if inner, ok := unboxed(a); ok {
			return equals(inner, b, false)
		}
		return false
	}
	if b.kind == KindBoxed {
		if inner, ok := unboxed(b); ok {
			return equals(a, inner, false)
		}
	}
	return false
}
