package value

import (
	"math"
	"time"
)

// CustomData carries per-slot flags alongside a payload. The bits belong to
// the slot: replacing or moving the payload leaves them in place.
type CustomData uint8

const (
	// CustomIndependent marks a value driven by an independent animation.
	CustomIndependent CustomData = 1 << iota
	// CustomSetLocally marks a value assigned through a local write.
	CustomSetLocally
	// CustomSetByStyle marks a value assigned by a style setter.
	CustomSetByStyle
)

// Has reports whether every bit in flag is set.
func (d CustomData) Has(flag CustomData) bool {
	return d&flag == flag
}

// Value is a tagged union holding exactly one payload. The zero Value is
// Unset.
type Value struct {
	kind   Kind
	owns   bool
	custom CustomData
	bits   uint64
	ref    any
}

// Unset returns the empty container.
func Unset() Value {
	return Value{}
}

// Null returns an explicit null.
func Null() Value {
	return Value{kind: KindNull}
}

// FromBool stores b.
func FromBool(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{kind: KindBool, bits: bits}
}

// FromSigned stores a 32-bit signed integer.
func FromSigned(i int32) Value {
	return Value{kind: KindSigned, bits: uint64(uint32(i))}
}

// FromUnsigned stores a 32-bit unsigned integer.
func FromUnsigned(u uint32) Value {
	return Value{kind: KindUnsigned, bits: uint64(u)}
}

// FromInt64 stores a 64-bit signed integer.
func FromInt64(i int64) Value {
	return Value{kind: KindInt64, bits: uint64(i)}
}

// FromUInt64 stores a 64-bit unsigned integer.
func FromUInt64(u uint64) Value {
	return Value{kind: KindUInt64, bits: u}
}

// FromFloat stores a single precision float.
func FromFloat(f float32) Value {
	return Value{kind: KindFloat, bits: uint64(math.Float32bits(f))}
}

// FromDouble stores a double precision float.
func FromDouble(f float64) Value {
	return Value{kind: KindDouble, bits: math.Float64bits(f)}
}

// FromEnum stores a 32-bit enumeration value of type t.
func FromEnum(v uint32, t TypeIndex) Value {
	return Value{kind: KindEnum, bits: uint64(v) | uint64(t)<<32}
}

// FromEnum8 stores the compact form of an enumeration value of type t.
func FromEnum8(v uint8, t TypeIndex) Value {
	return Value{kind: KindEnum8, bits: uint64(v) | uint64(t)<<32}
}

// FromColor stores a packed ARGB color.
func FromColor(c Color) Value {
	return Value{kind: KindColor, bits: uint64(c)}
}

// FromDateTime stores t as 100ns ticks since 1601-01-01 UTC. Sub-tick
// nanoseconds are truncated. Instants more than about 29,000 years from the
// epoch clamp to the nearest representable tick.
func FromDateTime(t time.Time) Value {
	return Value{kind: KindDateTime, bits: uint64(dateTimeTicks(t))}
}

const (
	ticksPerSecond = int64(time.Second / 100)
	maxTickSeconds = math.MaxInt64 / ticksPerSecond
)

// dateTimeEpoch is the Unix second of tick zero.
var dateTimeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()

func dateTimeTicks(t time.Time) int64 {
	unix := t.Unix()
	switch {
	case unix >= dateTimeEpoch+maxTickSeconds:
		return math.MaxInt64
	case unix <= dateTimeEpoch-maxTickSeconds:
		return math.MinInt64
	}
	return (unix-dateTimeEpoch)*ticksPerSecond + int64(t.Nanosecond())/100
}

func dateTimeFromTicks(ticks int64) time.Time {
	return time.Unix(ticks/ticksPerSecond+dateTimeEpoch, (ticks%ticksPerSecond)*100).UTC()
}

// FromTimeSpan stores a duration in nanoseconds.
func FromTimeSpan(d time.Duration) Value {
	return Value{kind: KindTimeSpan, bits: uint64(d)}
}

// FromTypeHandle stores a registered type handle.
func FromTypeHandle(t TypeIndex) Value {
	return Value{kind: KindTypeHandle, bits: uint64(t)}
}

// FromPointer stores an opaque address. The container never owns it.
func FromPointer(p uintptr) Value {
	return Value{kind: KindPointer, bits: uint64(p)}
}

// FromTextRange packs r inline.
func FromTextRange(r TextRange) Value {
	return Value{kind: KindTextRange, bits: uint64(uint32(r.Start)) | uint64(uint32(r.Length))<<32}
}

// FromString allocates an owned copy of s.
func FromString(s string) Value {
	return mustAllocate(KindString, s)
}

// WrapString returns a non-owning view of s. The backing buffer is never
// released through the view.
func WrapString(s string) Value {
	v := FromString(s)
	v.owns = false
	return v
}

// FromPoint allocates an owned copy of p.
func FromPoint(p Point) Value { return mustAllocate(KindPoint, p) }

// FromSize allocates an owned copy of s.
func FromSize(s Size) Value { return mustAllocate(KindSize, s) }

// FromRect allocates an owned copy of r.
func FromRect(r Rect) Value { return mustAllocate(KindRect, r) }

// FromThickness allocates an owned copy of t.
func FromThickness(t Thickness) Value { return mustAllocate(KindThickness, t) }

// FromGridLength allocates an owned copy of g.
func FromGridLength(g GridLength) Value { return mustAllocate(KindGridLength, g) }

// FromCornerRadius allocates an owned copy of c.
func FromCornerRadius(c CornerRadius) Value { return mustAllocate(KindCornerRadius, c) }

// FromSignedArray allocates an owned copy of items.
func FromSignedArray(items []int32) Value { return mustAllocate(KindSignedArray, items) }

// FromFloatArray allocates an owned copy of items.
func FromFloatArray(items []float32) Value { return mustAllocate(KindFloatArray, items) }

// FromDoubleArray allocates an owned copy of items.
func FromDoubleArray(items []float64) Value { return mustAllocate(KindDoubleArray, items) }

// FromPointArray allocates an owned copy of items.
func FromPointArray(items []Point) Value { return mustAllocate(KindPointArray, items) }

// FromObject takes a new reference on obj. The returned value owns that
// reference. A nil obj yields a null object value.
func FromObject(obj Object) Value {
	return retained(KindObject, obj)
}

// WrapObject returns a view of obj without taking a reference.
func WrapObject(obj Object) Value {
	return wrapped(KindObject, obj)
}

// FromBoxed takes a new reference on b.
func FromBoxed(b Boxed) Value {
	if b == nil {
		return Value{kind: KindBoxed}
	}
	return retained(KindBoxed, b)
}

// WrapBoxed returns a view of b without taking a reference.
func WrapBoxed(b Boxed) Value {
	if b == nil {
		return Value{kind: KindBoxed}
	}
	return wrapped(KindBoxed, b)
}

// FromThemeResource takes a new reference on res.
func FromThemeResource(res Object) Value {
	return retained(KindThemeResource, res)
}

func retained(kind Kind, obj Object) Value {
	if obj == nil {
		return Value{kind: kind}
	}
	obj.AddRef()
	return Value{kind: kind, owns: true, ref: obj}
}

func wrapped(kind Kind, obj Object) Value {
	if obj == nil {
		return Value{kind: kind}
	}
	return Value{kind: kind, ref: obj}
}

// Allocate builds an owned buffer-backed value using alloc, which may be nil
// for the heap allocator. payload must be the Go type matching kind (string,
// Point, []int32, ...).
func Allocate(alloc Allocator, kind Kind, payload any) (Value, error) {
	data, count, ok := bufferData(kind, payload)
	if !ok {
		return Value{}, invalidKind("allocate", KindUnset, kind, typeName(payload))
	}
	buf, err := newBuffer(alloc, kind, data, count)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: kind, owns: true, ref: buf}, nil
}

func mustAllocate(kind Kind, payload any) Value {
	v, err := Allocate(heap, kind, payload)
	if err != nil {
		panic(err)
	}
	return v
}

// Construct builds a value of kind from payload. For counted kinds owns
// adopts the caller's reference (no AddRef) when true and creates a view
// otherwise. For buffer kinds a *Buffer payload is adopted or viewed the same
// way, while raw Go payloads are always copied into a new owned buffer. owns
// is ignored for inline kinds, which never own.
func Construct(kind Kind, payload any, owns bool) (Value, error) {
	if !kind.IsValid() {
		return Value{}, invalidKind("construct", KindUnset, kind, "unknown kind")
	}
	switch handlers[kind].storage {
	case storageBuffer:
		if buf, ok := payload.(*Buffer); ok {
			if buf == nil {
				return Value{kind: kind}, nil
			}
			if buf.kind != kind {
				return Value{}, invalidKind("construct", buf.kind, kind, "buffer kind mismatch")
			}
			return Value{kind: kind, owns: owns, ref: buf}, nil
		}
		if payload == nil {
			return Value{kind: kind}, nil
		}
		return Allocate(heap, kind, payload)
	case storageCounted:
		if payload == nil {
			return Value{kind: kind}, nil
		}
		if kind == KindBoxed {
			boxed, ok := payload.(Boxed)
			if !ok {
				return Value{}, invalidKind("construct", KindUnset, kind, typeName(payload))
			}
			return Value{kind: kind, owns: owns, ref: boxed}, nil
		}
		obj, ok := payload.(Object)
		if !ok {
			return Value{}, invalidKind("construct", KindUnset, kind, typeName(payload))
		}
		return Value{kind: kind, owns: owns, ref: obj}, nil
	}
	return constructInline(kind, payload)
}

func constructInline(kind Kind, payload any) (Value, error) {
	switch kind {
	case KindUnset:
		return Unset(), nil
	case KindNull:
		return Null(), nil
	case KindBool:
		if b, ok := payload.(bool); ok {
			return FromBool(b), nil
		}
	case KindEnum:
		if u, ok := payload.(uint32); ok {
			return FromEnum(u, UnknownType), nil
		}
	case KindEnum8:
		if u, ok := payload.(uint8); ok {
			return FromEnum8(u, UnknownType), nil
		}
	case KindSigned:
		if i, ok := payload.(int32); ok {
			return FromSigned(i), nil
		}
	case KindUnsigned:
		if u, ok := payload.(uint32); ok {
			return FromUnsigned(u), nil
		}
	case KindInt64:
		if i, ok := payload.(int64); ok {
			return FromInt64(i), nil
		}
	case KindUInt64:
		if u, ok := payload.(uint64); ok {
			return FromUInt64(u), nil
		}
	case KindFloat:
		if f, ok := payload.(float32); ok {
			return FromFloat(f), nil
		}
	case KindDouble:
		if f, ok := payload.(float64); ok {
			return FromDouble(f), nil
		}
	case KindColor:
		if c, ok := payload.(Color); ok {
			return FromColor(c), nil
		}
	case KindDateTime:
		if t, ok := payload.(time.Time); ok {
			return FromDateTime(t), nil
		}
	case KindTimeSpan:
		if d, ok := payload.(time.Duration); ok {
			return FromTimeSpan(d), nil
		}
	case KindTypeHandle:
		if t, ok := payload.(TypeIndex); ok {
			return FromTypeHandle(t), nil
		}
	case KindPointer:
		if p, ok := payload.(uintptr); ok {
			return FromPointer(p), nil
		}
	case KindTextRange:
		if r, ok := payload.(TextRange); ok {
			return FromTextRange(r), nil
		}
	}
	return Value{}, invalidKind("construct", KindUnset, kind, typeName(payload))
}

// Kind returns the payload category.
func (v Value) Kind() Kind {
	return v.kind
}

// OwnsValue reports whether destroying v releases its payload.
func (v Value) OwnsValue() bool {
	return v.owns
}

// CustomData returns the slot flags.
func (v Value) CustomData() CustomData {
	return v.custom
}

// SetCustomData replaces the slot flags.
func (v *Value) SetCustomData(d CustomData) {
	v.custom = d
}

// IsUnset reports whether v holds no value.
func (v Value) IsUnset() bool {
	return v.kind == KindUnset
}

// IsNull reports whether v is null for its kind: the Null kind, a counted or
// buffer kind with no resource, a zero pointer or the unknown type handle. An
// empty string is not null. Unset values are never null.
func (v Value) IsNull() bool {
	return handlers[v.kind].isNull(v)
}

// IsNullOrUnset reports whether v is null or unset.
func (v Value) IsNullOrUnset() bool {
	return v.IsUnset() || v.IsNull()
}

// View returns a non-owning alias of v. The view must not outlive v's owner.
func (v Value) View() Value {
	v.owns = false
	return v
}

// Clone returns an independent copy of v that owns its payload.
func (v Value) Clone() (Value, error) {
	var out Value
	if err := out.CopyDeep(v); err != nil {
		return Value{}, err
	}
	return out, nil
}

// Move releases the current payload and takes over other's payload and
// ownership. other is left Unset. Moving a value onto itself does nothing.
func (v *Value) Move(other *Value) {
	if v == other || other == nil {
		return
	}
	v.release()
	v.kind, v.owns, v.bits, v.ref = other.kind, other.owns, other.bits, other.ref
	other.reset()
}

// CopyShallow releases the current payload and aliases src's payload without
// owning it.
func (v *Value) CopyShallow(src Value) {
	if v.sameResource(src) && v.owns {
		return
	}
	v.release()
	v.kind, v.owns, v.bits, v.ref = src.kind, false, src.bits, src.ref
}

// CopyDeep replaces the current payload with an independent duplicate of
// src's. Duplication happens before the old payload is released, so on
// failure (ErrOutOfResources) v is unchanged.
func (v *Value) CopyDeep(src Value) error {
	if !src.kind.IsValid() {
		return invalidKind("copy", src.kind, src.kind, "unknown kind")
	}
	dup, err := handlers[src.kind].duplicate(src)
	if err != nil {
		return err
	}
	v.release()
	v.kind, v.owns, v.bits, v.ref = dup.kind, dup.owns, dup.bits, dup.ref
	return nil
}

// ReleaseAndReset releases an owned payload and leaves v Unset. Calling it
// again is a no-op.
func (v *Value) ReleaseAndReset() {
	if v == nil {
		return
	}
	v.release()
	v.reset()
}

// Destroy releases an owned payload exactly once and leaves v Unset.
func (v *Value) Destroy() {
	v.ReleaseAndReset()
}

func (v *Value) release() {
	if !v.owns {
		return
	}
	handlers[v.kind].release(v)
	v.owns = false
}

func (v *Value) reset() {
	v.kind = KindUnset
	v.owns = false
	v.bits = 0
	v.ref = nil
}

func (v Value) sameResource(other Value) bool {
	return v.kind == other.kind && v.ref != nil && v.ref == other.ref
}

func (v Value) buffer() *Buffer {
	b, _ := v.ref.(*Buffer)
	return b
}

func (v Value) i32() int32         { return int32(uint32(v.bits)) }
func (v Value) f32() float32       { return math.Float32frombits(uint32(v.bits)) }
func (v Value) f64() float64       { return math.Float64frombits(v.bits) }
func (v Value) enumValue() uint32  { return uint32(v.bits) }
func (v Value) enumType() TypeIndex { return TypeIndex(v.bits >> 32) }
