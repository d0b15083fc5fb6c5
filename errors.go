package props

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-props/value"
)

var (
	// ErrInvalidArgument aliases the value sentinel so callers can test
	// coercion failures without importing the value package.
	ErrInvalidArgument = value.ErrInvalidArgument
	// ErrOutOfResources aliases the value sentinel for failed duplication.
	ErrOutOfResources = value.ErrOutOfResources
	// ErrAccessDenied rejects writes to frozen objects outside an unfreeze
	// window and public writes to read-only properties.
	ErrAccessDenied = errors.New("props: access denied")
	// ErrSourceRank rejects an unforced write from a lower-ranked source.
	ErrSourceRank = errors.New("props: source outranked by current value")
	// ErrUnknownProperty reports a property id that is not registered or not
	// applicable to the object's type.
	ErrUnknownProperty = errors.New("props: unknown property")
	// ErrUnknownType reports an unregistered type name.
	ErrUnknownType = errors.New("props: unknown type")
	// ErrDuplicate reports a second declaration of a type or property.
	ErrDuplicate = errors.New("props: duplicate declaration")
	// ErrTypeSealed rejects field properties on types that already have
	// derived types, whose field layout depends on the base layout.
	ErrTypeSealed = errors.New("props: type layout sealed")
	// ErrClosed reports use of a closed object.
	ErrClosed = errors.New("props: object closed")
)

// PropertyError captures the operation, property and object alongside the
// originating error.
type PropertyError struct {
	Op       string
	Property string
	Object   string
	Err      error
}

func (e *PropertyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "props: " + e.Op
	if e.Property != "" {
		msg += " property=" + e.Property
	}
	if e.Object != "" {
		msg += " object=" + e.Object
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *PropertyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigurationError is raised with panic when metadata cannot produce a
// value, such as a property with neither a stored value nor a default. It
// indicates an authoring bug and is never returned.
type ConfigurationError struct {
	Type     string
	Property string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("props: configuration error type=%s property=%s: %s", e.Type, e.Property, e.Reason)
}

func propertyError(op string, p *Property, obj *Object, err error) error {
	if err == nil {
		return nil
	}
	pe := &PropertyError{Op: op, Err: err}
	if p != nil {
		pe.Property = p.QualifiedName()
	}
	if obj != nil {
		pe.Object = obj.String()
	}
	return pe
}
