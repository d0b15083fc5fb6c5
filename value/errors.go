package value

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a payload or kind that cannot be used for
	// the requested operation, such as a coercion with no conversion path.
	ErrInvalidArgument = errors.New("value: invalid argument")
	// ErrOutOfResources indicates a duplication or allocation failure. The
	// destination of the failed operation is left untouched.
	ErrOutOfResources = errors.New("value: out of resources")
)

// KindError captures the kinds involved in a failed conversion alongside the
// originating error.
type KindError struct {
	Op     string
	From   Kind
	To     Kind
	Detail string
	Err    error
}

func (e *KindError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("value: %s %s -> %s", e.Op, e.From, e.To)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *KindError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidKind(op string, from, to Kind, detail string) error {
	return &KindError{Op: op, From: from, To: to, Detail: detail, Err: ErrInvalidArgument}
}
