package arithseq

import (
	"errors"
	"fmt"
	"math"

	"github.com/inoxlang/listrep/internal/listrep"
)

var (
	ErrInvalidSeries = errors.New("invalid arithmetic series parameter values")
	ErrDomain        = errors.New("domain error: argument not in valid range")
	ErrNotANumber    = errors.New("non-numeric floating-point value")
	ErrMissingBound  = errors.New("the end or the length of an arithmetic series should be given")
)

// Params are the parameters of a new series, Start defaults to 0. At least one of End and Length should be set:
//   - Step is 1 (-1 if Start > End) when missing, if End and Length are both given it is derived from them
//     and the values of a float series are not rounded.
//   - Length wins over End when Step is given.
//
// The series is a float series if UseFloats is true or if one of the numbers is a float.
type Params struct {
	Start     *Number
	End       *Number
	Step      *Number
	Length    *int64
	UseFloats bool
}

// New creates a list whose representation is a new series.
func New(a *listrep.Allocator, factory ElemFactory, params Params) (*listrep.List, error) {
	series, err := NewSeries(factory, params, a.MaxLength())
	if err != nil {
		logger := a.Logger()
		logger.Debug().Err(err).Msg("arithmetic series creation failed")
		return nil, err
	}
	return a.NewAbstract(series), nil
}

// NewInt creates a list of length integers: start, start+step, ...
func NewInt(a *listrep.Allocator, factory ElemFactory, start, step, length int64) (*listrep.List, error) {
	startN, stepN := Int(start), Int(step)
	return New(a, factory, Params{Start: &startN, Step: &stepN, Length: &length})
}

// NewFloat creates a list of floats going from start to end (included if reached).
func NewFloat(a *listrep.Allocator, factory ElemFactory, start, end, step float64) (*listrep.List, error) {
	startN, endN, stepN := Float(start), Float(end), Float(step)
	return New(a, factory, Params{Start: &startN, End: &endN, Step: &stepN, UseFloats: true})
}

// NewSeries creates a series with a reference count of 1, a *listrep.LimitError is returned if
// the length of the series is greater than maxLength.
func NewSeries(factory ElemFactory, params Params, maxLength int) (*Series, error) {
	start := Int(0)
	if params.Start != nil {
		start = *params.Start
	}
	end, step := params.End, params.Step

	if end == nil && params.Length == nil {
		return nil, ErrMissingBound
	}

	useFloats := params.UseFloats || start.IsFloat() || (end != nil && end.IsFloat()) || (step != nil && step.IsFloat())

	if step != nil && step.IsFloat() && math.IsNaN(step.f) {
		return nil, fmt.Errorf("%w: cannot use NaN as step", ErrNotANumber)
	}

	var length int64
	var precision uint
	var derivedStep bool

	switch {
	case params.Length != nil:
		length = max(*params.Length, 0)

		if step == nil && end != nil && length > 1 {
			derived, isFloat := deriveStep(start, *end, length, useFloats)
			step = &derived
			useFloats = useFloats || isFloat
			derivedStep = true
		}
		if useFloats && !derivedStep {
			precision = maxPrecision(&start, step)
		}
	default:
		if step == nil {
			one := Int(1)
			if start.Float64() > end.Float64() {
				one = Int(-1)
			}
			step = &one
		}

		if useFloats {
			if math.IsInf(start.Float64(), 0) || math.IsInf(end.Float64(), 0) {
				return nil, &listrep.LimitError{Requested: math.MaxInt, Max: maxLength}
			}
			if math.IsNaN(start.Float64()) || math.IsNaN(end.Float64()) {
				nan := start
				if !math.IsNaN(start.Float64()) {
					nan = *end
				}
				return nil, fmt.Errorf("%w: cannot use %s to estimate the length of an arithmetic series", ErrNotANumber, nan)
			}
			precision = maxPrecision(&start, end, step)
		}

		switch {
		case useFloats && step.Float64() == 0, !useFloats && step.Int64() == 0:
			if start.Float64() != end.Float64() {
				return nil, fmt.Errorf("%w: zero step with distinct start and end", ErrInvalidSeries)
			}
			length = 1
		case useFloats:
			length = max(floatSeriesLength(start.Float64(), end.Float64(), step.Float64(), precision), 0)
		default:
			length = intSeriesLength(start.Int64(), end.Int64(), step.Int64())
		}
	}

	if step == nil {
		one := Int(1)
		step = &one
	}

	if length > int64(maxLength) {
		return nil, &listrep.LimitError{Requested: int(min(length, math.MaxInt)), Max: maxLength}
	}

	if useFloats {
		last := start.Float64() + float64(length-1)*step.Float64()
		if length > 0 && math.IsNaN(last) {
			return nil, ErrDomain
		}
		return newFloatSeries(factory, start.Float64(), step.Float64(), int(length), precision), nil
	}

	if !isValidIntRange(start.Int64(), step.Int64(), length) {
		return nil, ErrInvalidSeries
	}
	return newIntSeries(factory, start.Int64(), step.Int64(), int(length)), nil
}

// deriveStep returns (end-start)/(length-1), the step is a float with no rounding if the division is not exact.
func deriveStep(start, end Number, length int64, useFloats bool) (step Number, isFloat bool) {
	intervals := length - 1

	if !useFloats {
		diff := end.Int64() - start.Int64()
		overflow := (end.Int64() >= start.Int64()) != (diff >= 0)
		if !overflow && diff%intervals == 0 {
			return Int(diff / intervals), false
		}
	}

	return Number{kind: floatNumber, f: (end.Float64() - start.Float64()) / float64(intervals)}, true
}

// intSeriesLength returns the number of values from start to end, 0 if end cannot be reached.
func intSeriesLength(start, end, step int64) int64 {
	if step == 0 || (step > 0 && end < start) || (step < 0 && end > start) {
		return 0
	}

	var distance uint64
	if end >= start {
		distance = uint64(end) - uint64(start)
	} else {
		distance = uint64(start) - uint64(end)
	}

	count := distance/absUint64(step) + 1
	if count > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(count)
}

// floatSeriesLength computes the length on integers when the scaled distance and step fit in an int64,
// the result can be negative.
func floatSeriesLength(start, end, step float64, precision uint) int64 {
	if step == 0 {
		return 0
	}
	if precision > 0 {
		scaleFactor := power10(precision)
		start *= scaleFactor
		end *= scaleFactor
		step *= scaleFactor
	}

	distance := end - start

	if isInInt64Range(distance) && isInInt64Range(step) {
		intDistance := int64(math.Round(distance))
		intStep := int64(math.Round(step))
		if intStep != 0 {
			return intDistance/intStep + 1
		}
	}

	length := distance/step + 1
	if length >= math.MaxInt {
		return math.MaxInt
	}
	if length < 0 {
		return 0
	}
	return int64(length)
}

func isInInt64Range(f float64) bool {
	return f >= math.MinInt64 && f <= math.MaxInt64
}

func absUint64(i int64) uint64 {
	if i >= 0 {
		return uint64(i)
	}
	//also correct for math.MinInt64
	return uint64(-(i + 1)) + 1
}

// isValidIntRange checks that start + (length-1)*step does not overflow.
func isValidIntRange(start, step, length int64) bool {
	if length <= 1 || step == 0 {
		return true
	}

	intervals := uint64(length - 1)
	absStep := absUint64(step)

	if math.MaxUint64/absStep < intervals {
		return false
	}
	span := absStep * intervals

	if step > 0 {
		roomAbove := uint64(math.MaxInt64) - uint64(start)
		return span <= roomAbove
	}
	roomBelow := uint64(start) + 1<<63 //start - math.MinInt64
	return span <= roomBelow
}
