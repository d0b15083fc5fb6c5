package props

import "github.com/goliatone/go-props/value"

// ModifiedValue is the animation override for one property of one object.
// A wrapper exists only while the property is animated: clearing the
// animation destroys it rather than flipping a flag.
type ModifiedValue struct {
	animated value.Value
}

// IsAnimated reports whether an override is active. It is true for every
// live wrapper.
func (m *ModifiedValue) IsAnimated() bool {
	return m != nil
}

// Value returns a view of the animated value.
func (m *ModifiedValue) Value() value.Value {
	if m == nil {
		return value.Unset()
	}
	return m.animated.View()
}

// replace moves v into the wrapper, releasing the previous animated value.
func (m *ModifiedValue) replace(v *value.Value) {
	m.animated.Move(v)
	m.animated.SetCustomData(m.animated.CustomData() | value.CustomIndependent)
}

func (m *ModifiedValue) destroy() {
	m.animated.Destroy()
}
