package repositories

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by TaskReader. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrConnection    = errors.New("connection error")
	ErrQuery         = errors.New("query error")
	ErrMapping       = errors.New("mapping error")
)

// ReadError carries the kind of a reader failure, the step that failed and the
// underlying cause.
type ReadError struct {
	Kind error
	Op   string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *ReadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newReadError(kind error, op string, err error) error {
	return &ReadError{Kind: kind, Op: op, Err: err}
}
