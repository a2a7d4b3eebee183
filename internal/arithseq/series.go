// Package arithseq implements arithmetic series, lazy lists of numbers usable as the representation of a list.
package arithseq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/inoxlang/listrep/internal/elem"
	"github.com/inoxlang/listrep/internal/listrep"
	"golang.org/x/exp/constraints"
)

// ElemFactory creates the elements of series, *elem.Factory implements it.
type ElemFactory interface {
	Int(i int64) *elem.Value
	Float(f float64) *elem.Value
}

var (
	_ listrep.Ranger    = (*Series)(nil)
	_ listrep.Reverser  = (*Series)(nil)
	_ listrep.Container = (*Series)(nil)
)

// A Series is the arithmetic progression start, start+step, start+2*step, ... of length elements. Either ints
// or floats is set. The elements are created on demand and cached, the series holds a reference on each
// cached element.
//
// A Series is an abstract list (listrep.Abstract): it is shared by the lists that reference it and is only
// modified in place by Range and Reverse when it is not shared.
type Series struct {
	factory ElemFactory
	length  int
	ints    *progression[int64]
	floats  *floatProgression

	refCount  int
	cache     []listrep.Elem //grown up to the highest index requested
	populated *bitset.BitSet
}

type progression[T constraints.Signed | constraints.Float] struct {
	start T
	step  T
}

func (p progression[T]) at(i int) T {
	return p.start + T(i)*p.step
}

// floatProgression is a float progression whose values are rounded to a number of decimal digits.
type floatProgression struct {
	progression[float64]
	precision uint
}

func (p floatProgression) at(i int) float64 {
	return roundTo(p.progression.at(i), p.precision)
}

func newIntSeries(factory ElemFactory, start, step int64, length int) *Series {
	return &Series{
		factory:  factory,
		length:   max(length, 0),
		ints:     &progression[int64]{start: start, step: step},
		refCount: 1,
	}
}

func newFloatSeries(factory ElemFactory, start, step float64, length int, precision uint) *Series {
	return &Series{
		factory: factory,
		length:  max(length, 0),
		floats: &floatProgression{
			progression: progression[float64]{start: start, step: step},
			precision:   precision,
		},
		refCount: 1,
	}
}

func (s *Series) IsFloat() bool {
	return s.floats != nil
}

func (s *Series) Len() int {
	return s.length
}

func (s *Series) RefCount() int {
	return s.refCount
}

func (s *Series) Start() Number {
	if s.floats != nil {
		return Number{kind: floatNumber, f: s.floats.start, precision: s.floats.precision}
	}
	return Int(s.ints.start)
}

func (s *Series) Step() Number {
	if s.floats != nil {
		return Number{kind: floatNumber, f: s.floats.step, precision: s.floats.precision}
	}
	return Int(s.ints.step)
}

// End returns the last value of the series, the start value if the series is empty.
func (s *Series) End() Number {
	if s.length == 0 {
		return s.Start()
	}
	return s.At(s.length - 1)
}

// Precision returns the number of decimal digits the values of a float series are rounded to, 0 means no rounding.
func (s *Series) Precision() uint {
	if s.floats != nil {
		return s.floats.precision
	}
	return 0
}

// At returns the value at index i without creating an element, i should be in [0, length).
func (s *Series) At(i int) Number {
	if s.floats != nil {
		return Number{kind: floatNumber, f: s.floats.at(i), precision: s.floats.precision}
	}
	return Int(s.ints.at(i))
}

// Index returns the element at index i, it is created on the first request. The element is borrowed:
// the series keeps its reference until it is released, ranged or reversed.
func (s *Series) Index(i int) (listrep.Elem, bool) {
	if i < 0 || i >= s.length {
		return nil, false
	}

	if s.populated != nil && s.populated.Test(uint(i)) {
		return s.cache[i], true
	}

	if i >= len(s.cache) {
		cache := make([]listrep.Elem, i+1, max(i+1, min(2*len(s.cache), s.length)))
		copy(cache, s.cache)
		s.cache = cache
	}
	if s.populated == nil {
		s.populated = bitset.New(uint(i + 1))
	}

	var e *elem.Value
	if s.floats != nil {
		e = s.factory.Float(s.floats.at(i))
	} else {
		e = s.factory.Int(s.ints.at(i))
	}
	e.IncrRef()

	s.cache[i] = e
	s.populated.Set(uint(i))
	return e, true
}

// Elements creates all the elements that are not cached yet.
func (s *Series) Elements() ([]listrep.Elem, error) {
	if s.populated != nil && s.populated.Count() == uint(s.length) {
		return s.cache, nil
	}
	for i := s.length - 1; i >= 0; i-- {
		s.Index(i)
	}
	return s.cache[:s.length], nil
}

// Range returns the series of the elements [first, last], indexes are clamped to the bounds of the series.
// The series is modified in place if it is not shared, otherwise the reference of the caller is released
// and a new series is returned.
func (s *Series) Range(first, last int) (listrep.Abstract, error) {
	first = max(first, 0)
	last = min(last, s.length-1)

	if first > last {
		s.Release()
		if s.floats != nil {
			return newFloatSeries(s.factory, 0, 1, 0, s.floats.precision), nil
		}
		return newIntSeries(s.factory, 0, 1, 0), nil
	}

	length := last - first + 1

	if s.refCount > 1 {
		var result *Series
		if s.floats != nil {
			result = newFloatSeries(s.factory, s.floats.at(first), s.floats.step, length, s.floats.precision)
		} else {
			result = newIntSeries(s.factory, s.ints.at(first), s.ints.step, length)
		}
		s.Release()
		return result, nil
	}

	if s.floats != nil {
		s.floats.start = s.floats.at(first)
	} else {
		s.ints.start = s.ints.at(first)
	}
	s.length = length
	s.freeElements()
	return s, nil
}

// Reverse returns the series going from the last value to the start value, the series is modified in place
// if it is not shared.
func (s *Series) Reverse() (listrep.Abstract, error) {
	end := s.End()

	if s.refCount > 1 {
		var result *Series
		if s.floats != nil {
			result = newFloatSeries(s.factory, end.f, -s.floats.step, s.length, s.floats.precision)
		} else {
			result = newIntSeries(s.factory, end.i, -s.ints.step, s.length)
		}
		s.Release()
		return result, nil
	}

	if s.floats != nil {
		s.floats.start = end.f
		s.floats.step = -s.floats.step
	} else {
		s.ints.start = end.i
		s.ints.step = -s.ints.step
	}
	s.freeElements()
	return s, nil
}

// Contains tells whether an element of the series has the same string form as e. Elements without
// string form are never contained.
func (s *Series) Contains(e listrep.Elem) (bool, error) {
	stringer, ok := e.(fmt.Stringer)
	if !ok || s.length == 0 {
		return false, nil
	}
	str := stringer.String()

	n, err := ParseNumber(str)
	if err != nil {
		return false, nil
	}

	if s.floats != nil {
		if s.floats.step == 0 {
			return s.At(0).String() == str, nil
		}
		index := int((n.Float64() - s.floats.start) / s.floats.step)
		for incr := 0; incr < 2; incr++ {
			i := index + incr
			if i >= 0 && i < s.length && s.At(i).String() == str {
				return true, nil
			}
		}
		return false, nil
	}

	if n.IsFloat() {
		return false, nil
	}
	if s.ints.step == 0 {
		return s.ints.start == n.i && strconv.FormatInt(n.i, 10) == str, nil
	}
	if (n.i < s.ints.start) != (s.ints.step < 0) && n.i != s.ints.start {
		return false, nil
	}

	//the distance is computed on unsigned integers, it does not fit in an int64 near the extremes.
	var distance uint64
	if n.i >= s.ints.start {
		distance = uint64(n.i) - uint64(s.ints.start)
	} else {
		distance = uint64(s.ints.start) - uint64(n.i)
	}
	index := distance / absUint64(s.ints.step)
	if index >= uint64(s.length) {
		return false, nil
	}
	return s.At(int(index)).String() == str, nil
}

func (s *Series) Dup() listrep.Abstract {
	s.refCount++
	return s
}

func (s *Series) Release() {
	s.refCount--
	if s.refCount == 0 {
		s.freeElements()
	}
}

func (s *Series) freeElements() {
	if s.populated == nil {
		return
	}
	for i, ok := s.populated.NextSet(0); ok; i, ok = s.populated.NextSet(i + 1) {
		s.cache[i].DecrRef()
	}
	s.cache = nil
	s.populated = nil
}

// String returns the values of the series separated by spaces.
func (s *Series) String() string {
	var builder strings.Builder
	for i := 0; i < s.length; i++ {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(s.At(i).String())
	}
	return builder.String()
}
