package props

import (
	"fmt"

	"github.com/google/uuid"
)

// Object owns a Store for one instance of a registered type. Objects are
// created by a Resolver and must be used from a single goroutine.
type Object struct {
	id       uuid.UUID
	typeName string
	store    *Store
	parent   *Object
	frozen   bool
	unfreeze int
	closed   bool
}

func newObject(typeName string, fields int) *Object {
	return &Object{
		id:       uuid.New(),
		typeName: typeName,
		store:    NewStore(fields),
	}
}

func (o *Object) ID() uuid.UUID {
	return o.id
}

// Type returns the concrete type name.
func (o *Object) Type() string {
	return o.typeName
}

// Store exposes the raw storage. Writes through it bypass precedence and
// freeze checks.
func (o *Object) Store() *Store {
	return o.store
}

func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%s", o.typeName, o.id)
}

// Freeze rejects further writes outside an Unfrozen window.
func (o *Object) Freeze() {
	o.frozen = true
}

func (o *Object) IsFrozen() bool {
	return o.frozen
}

// Unfrozen runs fn with writes permitted on a frozen object. Windows nest.
func (o *Object) Unfrozen(fn func() error) error {
	o.unfreeze++
	defer func() { o.unfreeze-- }()
	return fn()
}

func (o *Object) writable() bool {
	return !o.frozen || o.unfreeze > 0
}

// Parent returns the object inherited properties fall through to.
func (o *Object) Parent() *Object {
	return o.parent
}

// SetParent links o under parent for property inheritance. A nil parent
// detaches o. Cycles are rejected.
func (o *Object) SetParent(parent *Object) error {
	for p := parent; p != nil; p = p.parent {
		if p == o {
			return &PropertyError{Op: "set parent", Object: o.String(), Err: fmt.Errorf("%w: parent cycle", ErrInvalidArgument)}
		}
	}
	o.parent = parent
	return nil
}

// Close releases every stored value. The object is unusable afterwards.
func (o *Object) Close() {
	if o.closed {
		return
	}
	o.store.Close()
	o.parent = nil
	o.closed = true
}

func (o *Object) IsClosed() bool {
	return o.closed
}
