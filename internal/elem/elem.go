package elem

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// An Elem is an opaque reference-counted value stored in lists. Holding a reference
// means having called IncrRef once; the reference is given back with DecrRef.
type Elem interface {
	IncrRef()
	DecrRef()
}

type Kind uint8

const (
	IntKind Kind = iota + 1
	FloatKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

var nextValueId atomic.Uint64

// Value is the Elem implementation used by the arithmetic series, the developer CLI and the tests.
// A newly created Value has a reference count of zero.
type Value struct {
	id       uint64
	kind     Kind
	i        int64
	f        float64
	s        string
	refCount int64
	freed    bool
	tracker  *Tracker //can be nil
}

func (v *Value) Id() uint64 {
	return v.id
}

func (v *Value) Kind() Kind {
	return v.kind
}

func (v *Value) Int() (int64, bool) {
	return v.i, v.kind == IntKind
}

func (v *Value) Float() (float64, bool) {
	switch v.kind {
	case FloatKind:
		return v.f, true
	case IntKind:
		return float64(v.i), true
	}
	return 0, false
}

func (v *Value) RefCount() int64 {
	return v.refCount
}

// Freed returns true if the reference count of the value dropped to zero after having been positive.
func (v *Value) Freed() bool {
	return v.freed
}

func (v *Value) IncrRef() {
	if v.freed {
		panic(fmt.Errorf("%w: %s", ErrUseAfterFree, v.describe()))
	}
	v.refCount++
	if v.tracker != nil {
		v.tracker.onIncr(v)
	}
}

func (v *Value) DecrRef() {
	if v.refCount <= 0 {
		panic(fmt.Errorf("%w: %s", ErrNegativeRefCount, v.describe()))
	}
	v.refCount--
	if v.tracker != nil {
		v.tracker.onDecr(v)
	}
	if v.refCount == 0 {
		v.freed = true
	}
}

// Equal compares the string forms of the values, two values are equal if they print the same way.
func (v *Value) Equal(other *Value) bool {
	if v == other {
		return true
	}
	if v.kind == other.kind {
		switch v.kind {
		case IntKind:
			return v.i == other.i
		case StringKind:
			return v.s == other.s
		}
	}
	return v.String() == other.String()
}

func (v *Value) String() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return FormatFloat(v.f)
	default:
		return v.s
	}
}

func (v *Value) describe() string {
	return fmt.Sprintf("value #%d (%s %q)", v.id, v.kind, v.String())
}

// FormatFloat returns the shortest representation of f that parses back to f,
// integral values always have a fractional part so that they do not print as integers.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
