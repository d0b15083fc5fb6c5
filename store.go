package props

import "github.com/goliatone/go-props/value"

// Entry is the stored base value of one property and where it came from.
type Entry struct {
	Value  value.Value
	Source BaseValueSource
}

// IsSet reports whether the entry holds a value.
func (e *Entry) IsSet() bool {
	return e != nil && !e.Value.IsUnset()
}

func (e *Entry) assign(v *value.Value, src BaseValueSource) {
	e.Value.Move(v)
	e.setSource(src)
}

func (e *Entry) setSource(src BaseValueSource) {
	e.Source = src
	flags := e.Value.CustomData() &^ (value.CustomSetLocally | value.CustomSetByStyle)
	switch src {
	case SourceLocal:
		flags |= value.CustomSetLocally
	case SourceStyle, SourceBuiltInStyle:
		flags |= value.CustomSetByStyle
	}
	e.Value.SetCustomData(flags)
}

func (e *Entry) reset() {
	e.Value.ReleaseAndReset()
	e.Value.SetCustomData(0)
	e.Source = SourceUnknown
}

// Store holds the per-object property values: fixed field slots for
// properties declared on the object's type chain, a sparse map for the rest
// and a side map of animation overrides. A Store is used from a single
// goroutine and never triggers layout; writes only report whether the owner
// needs to invalidate.
type Store struct {
	fields   []Entry
	sparse   map[PropertyID]*Entry
	modified map[PropertyID]*ModifiedValue
}

// NewStore allocates fieldCount field slots.
func NewStore(fieldCount int) *Store {
	return &Store{fields: make([]Entry, fieldCount)}
}

// Field returns the slot at offset. It panics when offset is out of range,
// which means the property does not belong to this store's type.
func (s *Store) Field(offset int) *Entry {
	return &s.fields[offset]
}

// FieldCount returns the number of field slots.
func (s *Store) FieldCount() int {
	return len(s.fields)
}

// Sparse returns the entry for id if one has been set.
func (s *Store) Sparse(id PropertyID) (*Entry, bool) {
	e, ok := s.sparse[id]
	return e, ok
}

// SparseLen returns the number of sparse entries.
func (s *Store) SparseLen() int {
	return len(s.sparse)
}

// Lookup returns the set entry backing p, if any.
func (s *Store) Lookup(p *Property) (*Entry, bool) {
	if p.Sparse {
		return s.Sparse(p.ID)
	}
	if p.FieldOffset < 0 || p.FieldOffset >= len(s.fields) {
		return nil, false
	}
	e := s.Field(p.FieldOffset)
	return e, e.IsSet()
}

// SetSparse moves *v into the sparse entry for p, releasing any previous
// payload, and leaves *v Unset. It reports whether the owner needs to
// invalidate.
func (s *Store) SetSparse(p *Property, v *value.Value, src BaseValueSource) bool {
	if s.sparse == nil {
		s.sparse = map[PropertyID]*Entry{}
	}
	e, ok := s.sparse[p.ID]
	if !ok {
		e = &Entry{}
		s.sparse[p.ID] = e
	}
	e.assign(v, src)
	return p.Flags.AffectsLayout()
}

// SetField is SetSparse for field storage.
func (s *Store) SetField(p *Property, v *value.Value, src BaseValueSource) bool {
	s.Field(p.FieldOffset).assign(v, src)
	return p.Flags.AffectsLayout()
}

// Set writes to the storage p declares.
func (s *Store) Set(p *Property, v *value.Value, src BaseValueSource) bool {
	if p.Sparse {
		return s.SetSparse(p, v, src)
	}
	return s.SetField(p, v, src)
}

// EraseSparse removes and releases the entry for id.
func (s *Store) EraseSparse(id PropertyID) bool {
	e, ok := s.sparse[id]
	if !ok {
		return false
	}
	e.reset()
	delete(s.sparse, id)
	return true
}

// ResetField releases the slot at offset.
func (s *Store) ResetField(offset int) bool {
	if offset < 0 || offset >= len(s.fields) {
		return false
	}
	e := s.Field(offset)
	if !e.IsSet() {
		return false
	}
	e.reset()
	return true
}

// Reset returns p to its default, releasing the stored value.
func (s *Store) Reset(p *Property) bool {
	if p.Sparse {
		return s.EraseSparse(p.ID)
	}
	return s.ResetField(p.FieldOffset)
}

// Modified returns the animation wrapper for id.
func (s *Store) Modified(id PropertyID) (*ModifiedValue, bool) {
	m, ok := s.modified[id]
	return m, ok
}

// SetAnimatedValue moves *v into the animation wrapper for id, allocating it
// on first use. The base value is not touched.
func (s *Store) SetAnimatedValue(id PropertyID, v *value.Value) {
	if s.modified == nil {
		s.modified = map[PropertyID]*ModifiedValue{}
	}
	m, ok := s.modified[id]
	if !ok {
		m = &ModifiedValue{}
		s.modified[id] = m
	}
	m.replace(v)
}

// ClearAnimatedValue destroys the wrapper for p. When a wrapper exists and
// hold is non-nil, hold is moved into the base value at SourceLocal first.
// Without a running animation hold is left untouched. It reports whether a
// wrapper existed.
func (s *Store) ClearAnimatedValue(p *Property, hold *value.Value) bool {
	m, ok := s.modified[p.ID]
	if !ok {
		return false
	}
	if hold != nil {
		s.Set(p, hold, SourceLocal)
	}
	m.destroy()
	delete(s.modified, p.ID)
	return true
}

// AnimatedLen returns the number of live animation wrappers.
func (s *Store) AnimatedLen() int {
	return len(s.modified)
}

// Close releases every field, sparse entry and animation wrapper.
func (s *Store) Close() {
	for i := range s.fields {
		s.fields[i].reset()
	}
	for id, e := range s.sparse {
		e.reset()
		delete(s.sparse, id)
	}
	for id, m := range s.modified {
		m.destroy()
		delete(s.modified, id)
	}
}
