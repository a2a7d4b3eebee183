package listrep

import (
	"errors"
	"fmt"
)

var (
	ErrMaxLengthExceeded   = errors.New("max length of a list exceeded")
	ErrAllocationFailed    = errors.New("list allocation failed")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrNegativeRepeatCount = errors.New("bad count: must be integer >= 0")
	ErrReleasedList        = errors.New("list has been released")
	ErrStaleView           = errors.New("element view used after a mutation of its store")
	ErrInvalidLayout       = errors.New("invalid list layout")
)

// LimitError is returned when a requested length exceeds the maximum length of a list.
type LimitError struct {
	Requested int
	Max       int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %d elements requested, max is %d", ErrMaxLengthExceeded, e.Requested, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrMaxLengthExceeded
}

// AllocError is returned when the allocator cannot provide even the exact size requested.
type AllocError struct {
	Bytes int64
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("%s: unable to alloc %d bytes", ErrAllocationFailed, e.Bytes)
}

func (e *AllocError) Unwrap() error {
	return ErrAllocationFailed
}

type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index \"%d\" out of range (length %d)", e.Index, e.Length)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// InvariantViolation is the panic value used when the internal structure of a list is inconsistent.
// It is never returned as an error.
type InvariantViolation struct {
	Condition string
	Detail    string
}

func (v *InvariantViolation) Error() string {
	if v.Detail == "" {
		return "list internal failure, condition: " + v.Condition
	}
	return "list internal failure, condition: " + v.Condition + " (" + v.Detail + ")"
}
