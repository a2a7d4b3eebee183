package arithseq

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inoxlang/listrep/internal/elem"
)

var (
	ErrInvalidNumber = errors.New("expected number")
)

type numberKind uint8

const (
	intNumber numberKind = iota
	floatNumber
)

// A Number is a parameter of a series: an integer or a float. Floats parsed from text remember the number of
// digits after the decimal point, the elements of a float series are rounded to the largest precision
// of its parameters.
type Number struct {
	kind      numberKind
	i         int64
	f         float64
	precision uint
}

func Int(i int64) Number {
	return Number{kind: intNumber, i: i}
}

// Float returns a float number whose precision is derived from its shortest string form.
func Float(f float64) Number {
	return Number{kind: floatNumber, f: f, precision: textPrecision(elem.FormatFloat(f))}
}

// ParseNumber parses an integer (decimal, hexadecimal, octal or binary with the 0x, 0o and 0b prefixes)
// or a float, "Inf" and "NaN" included.
func ParseNumber(s string) (Number, error) {
	text := strings.TrimSpace(s)

	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return Int(i), nil
	} else if errors.Is(err, strconv.ErrRange) && isDecimalInteger(text) {
		return Number{}, fmt.Errorf("%w: integer %q is too large", ErrInvalidNumber, s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, fmt.Errorf("%w but got %q", ErrInvalidNumber, s)
	}

	return Number{kind: floatNumber, f: f, precision: textPrecision(text)}, nil
}

func isDecimalInteger(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// textPrecision returns the number of digits after the decimal point, 0 for the e-notation.
func textPrecision(s string) uint {
	if strings.ContainsAny(s, "eE") {
		return 0
	}
	_, fraction, found := strings.Cut(s, ".")
	if !found {
		return 0
	}
	return uint(len(fraction))
}

func (n Number) IsFloat() bool {
	return n.kind == floatNumber
}

// IsIntegral returns true for integers and for finite floats without fractional part.
func (n Number) IsIntegral() bool {
	if n.kind == intNumber {
		return true
	}
	return !math.IsInf(n.f, 0) && !math.IsNaN(n.f) && math.Floor(n.f) == n.f
}

// Int64 returns the value of an integer, the truncated value of a float.
func (n Number) Int64() int64 {
	if n.kind == intNumber {
		return n.i
	}
	return int64(n.f)
}

func (n Number) Float64() float64 {
	if n.kind == intNumber {
		return float64(n.i)
	}
	return n.f
}

// Precision returns the number of digits after the decimal point of a float, 0 for integers.
func (n Number) Precision() uint {
	return n.precision
}

func (n Number) String() string {
	if n.kind == intNumber {
		return strconv.FormatInt(n.i, 10)
	}
	return elem.FormatFloat(n.f)
}

func maxPrecision(numbers ...*Number) uint {
	var precision uint
	for _, n := range numbers {
		if n != nil {
			precision = max(precision, n.precision)
		}
	}
	return precision
}

func power10(n uint) float64 {
	return math.Pow10(int(n))
}

// roundTo rounds d to n digits after the decimal point, d is returned unchanged if n is zero.
func roundTo(d float64, n uint) float64 {
	if n == 0 {
		return d
	}
	scaleFactor := power10(n)
	return math.Round(d*scaleFactor) / scaleFactor
}
