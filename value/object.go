package value

// Object is a reference-counted resource held by KindObject and
// KindThemeResource values. Implementations must be comparable (typically a
// pointer type) because reference identity is used for equality.
type Object interface {
	AddRef()
	Release()
}

// Boxed is an Object wrapping a primitive value. Equality looks through one
// level of boxing before falling back to reference identity.
type Boxed interface {
	Object
	// Unbox returns a view of the boxed payload. The view must not outlive
	// the box.
	Unbox() (Value, bool)
}

// Box is the stock Boxed implementation. A new box holds one reference owned
// by the caller; the boxed payload is destroyed when the last reference is
// released.
type Box struct {
	inner Value
	refs  int
}

// NewBox deep copies v into a new box.
func NewBox(v Value) (*Box, error) {
	b := &Box{refs: 1}
	if err := b.inner.CopyDeep(v); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Box) AddRef() {
	b.refs++
}

func (b *Box) Release() {
	if b.refs <= 0 {
		panic("value: box released more times than retained")
	}
	b.refs--
	if b.refs == 0 {
		b.inner.Destroy()
	}
}

func (b *Box) Unbox() (Value, bool) {
	if b == nil || b.refs == 0 {
		return Value{}, false
	}
	return b.inner.View(), true
}

// Refs returns the outstanding reference count.
func (b *Box) Refs() int {
	return b.refs
}

func unboxed(v Value) (Value, bool) {
	boxed, ok := v.ref.(Boxed)
	if !ok || boxed == nil {
		return Value{}, false
	}
	return boxed.Unbox()
}
