package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrTooLarge     = errors.New("upload too large")
	ErrUnavailable  = errors.New("service unavailable")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// KindError ties an error to the handler operation and a sentinel kind.
// errors.Is matches both the kind and the wrapped cause.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the kind and the cause.
func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind wraps err as kind raised by op.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}
