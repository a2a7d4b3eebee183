package listrep

import (
	"slices"
)

// An Abstract is a lazy representation of a list: the elements are computed or borrowed from another
// value instead of being stored. Any operation needing a store converts the list to a list with a store.
//
// Elements returned by Index and Elements are borrowed: the abstract list keeps a reference on them
// as long as it is alive.
type Abstract interface {
	Len() int
	Index(i int) (Elem, bool)

	// Elements returns all elements, the returned slice should not be modified.
	Elements() ([]Elem, error)

	// Dup returns a new reference on the abstract list, the abstract list can be shared.
	Dup() Abstract

	Release()
}

// A Ranger is an abstract list that can compute a range without materializing its elements. The caller
// gives its reference to Range: an unshared abstract list can be modified and returned. On error the
// reference is not consumed.
type Ranger interface {
	Abstract
	Range(first, last int) (Abstract, error)
}

// A Reverser is an abstract list that can be reversed without materializing its elements, the reference
// is consumed as with Ranger.
type Reverser interface {
	Abstract
	Reverse() (Abstract, error)
}

// A Container is an abstract list that can tell whether it contains a value faster than a linear search.
type Container interface {
	Abstract
	Contains(e Elem) (bool, error)
}

// reversedList is a reversed view of a list.
type reversedList struct {
	src      *List //owned handle
	refCount int
	elems    []Elem //borrowed from src, built on first call to Elements
}

func newReversedList(src *List) *reversedList {
	return &reversedList{src: src, refCount: 1}
}

func (r *reversedList) Len() int {
	return r.src.Len()
}

func (r *reversedList) Index(i int) (Elem, bool) {
	n := r.src.Len()
	if i < 0 || i >= n {
		return nil, false
	}
	return r.src.Index(n - 1 - i)
}

func (r *reversedList) Elements() ([]Elem, error) {
	if r.elems == nil {
		n := r.src.Len()
		elems := make([]Elem, n)
		for i := range elems {
			elems[i], _ = r.src.Index(n - 1 - i)
		}
		r.elems = elems
	}
	return r.elems, nil
}

func (r *reversedList) Range(first, last int) (Abstract, error) {
	n := r.src.Len()
	first = max(first, 0)
	last = min(last, n-1)

	srcRange, err := r.src.Range(n-1-last, n-1-first)
	if err != nil {
		return nil, err
	}

	if r.refCount == 1 {
		r.src.Release()
		r.src = srcRange
		r.elems = nil
		return r, nil
	}

	r.Release()
	return newReversedList(srcRange), nil
}

func (r *reversedList) Dup() Abstract {
	r.refCount++
	return r
}

func (r *reversedList) Release() {
	r.refCount--
	if r.refCount == 0 {
		r.src.Release()
		r.elems = nil
	}
}

// repeatedList is a sequence of elements repeated a number of times.
type repeatedList struct {
	elems    []Elem //the list holds a reference on each element
	length   int
	refCount int
	all      []Elem //built on first call to Elements
}

func newRepeatedList(elems []Elem, count int) *repeatedList {
	list := &repeatedList{
		elems:    slices.Clone(elems),
		length:   len(elems) * count,
		refCount: 1,
	}
	incrRefs(list.elems)
	return list
}

func (r *repeatedList) Len() int {
	return r.length
}

func (r *repeatedList) Index(i int) (Elem, bool) {
	if i < 0 || i >= r.length {
		return nil, false
	}
	return r.elems[i%len(r.elems)], true
}

func (r *repeatedList) Elements() ([]Elem, error) {
	if r.all == nil {
		all := make([]Elem, r.length)
		for i := 0; i < r.length; i += len(r.elems) {
			copy(all[i:], r.elems)
		}
		r.all = all
	}
	return r.all, nil
}

func (r *repeatedList) Contains(e Elem) (bool, error) {
	return slices.Contains(r.elems, e), nil
}

func (r *repeatedList) Dup() Abstract {
	r.refCount++
	return r
}

func (r *repeatedList) Release() {
	r.refCount--
	if r.refCount == 0 {
		for _, e := range r.elems {
			e.DecrRef()
		}
		r.elems = nil
		r.all = nil
	}
}
