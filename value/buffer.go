package value

import (
	"fmt"
	"slices"
	"sync"
)

// Allocator provides and reclaims the secondary allocations behind string,
// geometry and array kinds. Allocate may refuse, which surfaces as
// ErrOutOfResources from the operation that needed the buffer.
type Allocator interface {
	Allocate(kind Kind, count int) error
	Free(kind Kind, count int)
}

// HeapAllocator leaves reclamation to the garbage collector and never refuses.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(Kind, int) error { return nil }
func (HeapAllocator) Free(Kind, int)           {}

var heap Allocator = HeapAllocator{}

// Buffer is a secondary allocation referenced by a Value. It remembers the
// allocator that produced it so duplicates and frees are accounted against the
// same source. A buffer is released exactly once; a second release panics.
type Buffer struct {
	kind     Kind
	data     any
	count    int
	alloc    Allocator
	released bool
}

// Kind returns the value kind the buffer backs.
func (b *Buffer) Kind() Kind {
	return b.kind
}

// Len returns the element count for arrays, the byte length for strings and
// one for geometry payloads.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.count
}

// Released reports whether the buffer has been freed.
func (b *Buffer) Released() bool {
	return b != nil && b.released
}

func newBuffer(alloc Allocator, kind Kind, data any, count int) (*Buffer, error) {
	if alloc == nil {
		alloc = heap
	}
	if err := alloc.Allocate(kind, count); err != nil {
		return nil, fmt.Errorf("%w: allocate %s[%d]: %w", ErrOutOfResources, kind, count, err)
	}
	return &Buffer{kind: kind, data: data, count: count, alloc: alloc}, nil
}

func (b *Buffer) duplicate() (*Buffer, error) {
	if b.released {
		panic(fmt.Sprintf("value: duplicate of released %s buffer", b.kind))
	}
	return newBuffer(b.alloc, b.kind, cloneData(b.data), b.count)
}

func (b *Buffer) release() {
	if b.released {
		panic(fmt.Sprintf("value: %s buffer released twice", b.kind))
	}
	b.released = true
	b.alloc.Free(b.kind, b.count)
	b.data = nil
}

func cloneData(data any) any {
	switch typed := data.(type) {
	case []int32:
		return slices.Clone(typed)
	case []float32:
		return slices.Clone(typed)
	case []float64:
		return slices.Clone(typed)
	case []Point:
		return slices.Clone(typed)
	default:
		return data
	}
}

func bufferData(kind Kind, payload any) (any, int, bool) {
	switch kind {
	case KindString:
		if s, ok := payload.(string); ok {
			return s, len(s), true
		}
	case KindPoint:
		if p, ok := payload.(Point); ok {
			return p, 1, true
		}
	case KindSize:
		if s, ok := payload.(Size); ok {
			return s, 1, true
		}
	case KindRect:
		if r, ok := payload.(Rect); ok {
			return r, 1, true
		}
	case KindThickness:
		if t, ok := payload.(Thickness); ok {
			return t, 1, true
		}
	case KindGridLength:
		if g, ok := payload.(GridLength); ok {
			return g, 1, true
		}
	case KindCornerRadius:
		if c, ok := payload.(CornerRadius); ok {
			return c, 1, true
		}
	case KindSignedArray:
		if a, ok := payload.([]int32); ok {
			return slices.Clone(a), len(a), true
		}
	case KindFloatArray:
		if a, ok := payload.([]float32); ok {
			return slices.Clone(a), len(a), true
		}
	case KindDoubleArray:
		if a, ok := payload.([]float64); ok {
			return slices.Clone(a), len(a), true
		}
	case KindPointArray:
		if a, ok := payload.([]Point); ok {
			return slices.Clone(a), len(a), true
		}
	}
	return nil, 0, false
}

// CountingAllocator records allocations and frees. It is intended for tests
// that verify every acquisition is released exactly once. A positive Limit
// caps the number of live allocations; further requests are refused.
type CountingAllocator struct {
	Limit int

	mu     sync.Mutex
	allocs int
	frees  int
}

func (a *CountingAllocator) Allocate(Kind, int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Limit > 0 && a.allocs-a.frees >= a.Limit {
		return fmt.Errorf("allocation limit %d reached", a.Limit)
	}
	a.allocs++
	return nil
}

func (a *CountingAllocator) Free(Kind, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frees++
}

// Allocations returns the number of successful allocations.
func (a *CountingAllocator) Allocations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Frees returns the number of frees.
func (a *CountingAllocator) Frees() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees
}

// Live returns allocations not yet freed.
func (a *CountingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs - a.frees
}
