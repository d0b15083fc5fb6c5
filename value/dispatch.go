package value

import (
	"fmt"
	"slices"
)

type storageClass uint8

const (
	storageInline storageClass = iota
	storageBuffer
	storageCounted
)

// handler implements the per-kind operations. Every kind has exactly one.
type handler struct {
	storage   storageClass
	release   func(v *Value)
	duplicate func(v Value) (Value, error)
	equal     func(a, b Value) bool
	isNull    func(v Value) bool
}

var handlers [kindCount]handler

func init() {
	// The literal must have exactly kindCount entries to be assignable, and
	// duplicate keys do not compile. Gaps are caught by verifyHandlers.
	handlers = [...]handler{
		KindUnset:         inline(alwaysEqual, neverNull),
		KindNull:          inline(alwaysEqual, alwaysNull),
		KindBool:          inline(bitsEqual, neverNull),
		KindEnum:          inline(bitsEqual, neverNull),
		KindEnum8:         inline(bitsEqual, neverNull),
		KindSigned:        inline(bitsEqual, neverNull),
		KindUnsigned:      inline(bitsEqual, neverNull),
		KindInt64:         inline(bitsEqual, neverNull),
		KindUInt64:        inline(bitsEqual, neverNull),
		KindFloat:         inline(floatEqual, neverNull),
		KindDouble:        inline(doubleEqual, neverNull),
		KindString:        buffered(dataEqual),
		KindColor:         inline(bitsEqual, neverNull),
		KindPoint:         buffered(dataEqual),
		KindSize:          buffered(dataEqual),
		KindRect:          buffered(dataEqual),
		KindThickness:     buffered(dataEqual),
		KindGridLength:    buffered(dataEqual),
		KindCornerRadius:  buffered(dataEqual),
		KindDateTime:      inline(bitsEqual, neverNull),
		KindTimeSpan:      inline(bitsEqual, neverNull),
		KindObject:        counted(identityEqual),
		KindBoxed:         counted(boxedEqual),
		KindTypeHandle:    inline(bitsEqual, zeroBitsNull),
		KindThemeResource: counted(identityEqual),
		KindPointer:       inline(bitsEqual, zeroBitsNull),
		KindTextRange:     inline(bitsEqual, neverNull),
		KindSignedArray:   buffered(sliceEqual[int32]),
		KindFloatArray:    buffered(sliceEqual[float32]),
		KindDoubleArray:   buffered(sliceEqual[float64]),
		KindPointArray:    buffered(sliceEqual[Point]),
	}
	if err := verifyHandlers(); err != nil {
		panic(err)
	}
}

func verifyHandlers() error {
	for k, h := range handlers {
		if h.release == nil || h.duplicate == nil || h.equal == nil || h.isNull == nil {
			return fmt.Errorf("value: no handler registered for kind %s", Kind(k))
		}
	}
	return nil
}

func inline(equal func(a, b Value) bool, isNull func(Value) bool) handler {
	return handler{
		storage: storageInline,
		release: func(*Value) {},
		duplicate: func(v Value) (Value, error) {
			v.owns = false
			return v, nil
		},
		equal:  equal,
		isNull: isNull,
	}
}

func buffered(equal func(a, b *Buffer) bool) handler {
	return handler{
		storage: storageBuffer,
		release: func(v *Value) {
			if b := v.buffer(); b != nil {
				b.release()
			}
		},
		duplicate: func(v Value) (Value, error) {
			b := v.buffer()
			if b == nil {
				return Value{kind: v.kind}, nil
			}
			dup, err := b.duplicate()
			if err != nil {
				return Value{}, err
			}
			return Value{kind: v.kind, owns: true, ref: dup}, nil
		},
		equal: func(a, b Value) bool {
			ba, bb := a.buffer(), b.buffer()
			if ba == nil || bb == nil || ba == bb {
				return ba == bb
			}
			return equal(ba, bb)
		},
		isNull: func(v Value) bool {
			return v.buffer() == nil
		},
	}
}

func counted(equal func(a, b Value) bool) handler {
	return handler{
		storage: storageCounted,
		release: func(v *Value) {
			if obj, ok := v.ref.(Object); ok {
				obj.Release()
			}
		},
		duplicate: func(v Value) (Value, error) {
			obj, ok := v.ref.(Object)
			if !ok || obj == nil {
				return Value{kind: v.kind}, nil
			}
			obj.AddRef()
			return Value{kind: v.kind, owns: true, ref: obj}, nil
		},
		equal: equal,
		isNull: func(v Value) bool {
			return v.ref == nil
		},
	}
}

func alwaysEqual(Value, Value) bool { return true }
func alwaysNull(Value) bool         { return true }
func neverNull(Value) bool          { return false }
func zeroBitsNull(v Value) bool     { return v.bits == 0 }

func bitsEqual(a, b Value) bool {
	return a.bits == b.bits
}

func floatEqual(a, b Value) bool {
	return a.f32() == b.f32()
}

func doubleEqual(a, b Value) bool {
	return a.f64() == b.f64()
}

func dataEqual(a, b *Buffer) bool {
	return a.data == b.data
}

func sliceEqual[T comparable](a, b *Buffer) bool {
	sa, _ := a.data.([]T)
	sb, _ := b.data.([]T)
	return slices.Equal(sa, sb)
}

func identityEqual(a, b Value) bool {
	return a.ref == b.ref
}

func boxedEqual(a, b Value) bool {
	if a.ref == b.ref {
		return true
	}
	ia, okA := unboxed(a)
	ib, okB := unboxed(b)
	if !okA || !okB {
		return false
	}
	return equals(ia, ib, false)
}
