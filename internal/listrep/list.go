package listrep

import (
	"fmt"

	"github.com/inoxlang/listrep/internal/elem"
)

type Elem = elem.Elem

// A List is a handle on a list value. Several lists can share the same store (copy-on-write), so a mutating
// method never modifies elements visible through another list. A *List itself has a single owner: it should
// not be used by two goroutines at the same time, Dup should be used to create another handle.
type List struct {
	allocator *Allocator
	rep       rep      //zero if abstract is set
	abstract  Abstract //lazy representation, materialized when needed
	str       *string  //cached string form
	released  bool
}

// NewList creates a list containing elems, the store is sized exactly.
func (a *Allocator) NewList(elems []Elem) (*List, error) {
	if elems == nil {
		elems = []Elem{}
	}
	r, err := a.newRep(len(elems), elems, 0)
	if err != nil {
		return nil, err
	}
	return a.newListFromRep(r), nil
}

// NewEmpty creates an empty list with room for reserve elements.
func (a *Allocator) NewEmpty(reserve int) (*List, error) {
	r, err := a.newRep(reserve, nil, 0)
	if err != nil {
		return nil, err
	}
	return a.newListFromRep(r), nil
}

// NewWithLayout creates a list containing elems with leadingSpace free slots before them and endSpace
// free slots after them, a span is created if leadingSpace is not zero. This constructor exists to
// exercise the operations on every possible layout.
func (a *Allocator) NewWithLayout(elems []Elem, leadingSpace, endSpace int) (*List, error) {
	if leadingSpace < 0 || endSpace < 0 {
		return nil, fmt.Errorf("%w: negative free space", ErrInvalidLayout)
	}
	if len(elems) == 0 && endSpace == 0 && leadingSpace != 0 {
		return nil, fmt.Errorf("%w: the first used slot of an empty store should be followed by a free slot", ErrInvalidLayout)
	}
	if leadingSpace > a.config.MaxLength-len(elems) || endSpace > a.config.MaxLength-len(elems)-leadingSpace {
		return nil, a.limitError(a.config.MaxLength)
	}
	capacity := len(elems) + leadingSpace + endSpace
	if capacity == 0 {
		return a.NewEmpty(0)
	}

	r, err := a.newRep(capacity, nil, 0)
	if err != nil {
		return nil, err
	}

	store := r.store
	copyIn(store.slots[leadingSpace:], elems)
	store.firstUsed = leadingSpace
	store.numUsed = len(elems)
	if leadingSpace != 0 {
		r.span = a.newSpan(store, leadingSpace, len(elems))
	}
	return a.newListFromRep(r), nil
}

// NewAbstract creates a list whose elements are provided by a lazy representation, the list takes
// ownership of the reference held by the caller on abs.
func (a *Allocator) NewAbstract(abs Abstract) *List {
	return &List{allocator: a, abstract: abs}
}

func (a *Allocator) newListFromRep(r rep) *List {
	r.acquire()
	list := &List{allocator: a, rep: r}
	list.check()
	return list
}

func (l *List) Allocator() *Allocator {
	return l.allocator
}

// Abstract returns the lazy representation of the list or nil if the list has been materialized.
func (l *List) Abstract() Abstract {
	return l.abstract
}

// Store returns the store of the list, nil if the list is abstract or released.
func (l *List) Store() *Store {
	if l.abstract != nil || l.released {
		return nil
	}
	return l.rep.store
}

// Span returns the span of the list, nil if the list has no span.
func (l *List) Span() *Span {
	if l.abstract != nil || l.released {
		return nil
	}
	return l.rep.span
}

func (l *List) Released() bool {
	return l.released
}

// Len returns the number of elements, 0 for a released list.
func (l *List) Len() int {
	switch {
	case l.released:
		return 0
	case l.abstract != nil:
		return l.abstract.Len()
	default:
		return l.rep.length()
	}
}

// Index returns the element at index i, ok is false if i is out of range. The caller does not own a reference
// on the element: it should call IncrRef if it keeps the element after the next mutation of the list.
func (l *List) Index(i int) (e Elem, ok bool) {
	switch {
	case l.released:
		return nil, false
	case l.abstract != nil:
		return l.abstract.Index(i)
	}

	if i < 0 || i >= l.rep.length() {
		return nil, false
	}
	return l.rep.store.slots[l.rep.start()+i], true
}

// Elements returns a read-only view of the elements, abstract lists are materialized.
// The view should not be used after a mutation of any list sharing the store.
func (l *List) Elements() (View, error) {
	if err := l.materialize(); err != nil {
		return View{}, err
	}
	return newView(l.rep, l.allocator.config.CheckViews), nil
}

// Dup returns a new handle sharing the representation of the list.
func (l *List) Dup() *List {
	if l.released {
		panic(&InvariantViolation{Condition: "!released", Detail: "duplication of a released list"})
	}

	dup := &List{allocator: l.allocator, str: l.str}
	if l.abstract != nil {
		dup.abstract = l.abstract.Dup()
		return dup
	}

	dup.rep = l.rep
	dup.rep.acquire()
	return dup
}

// Release drops the references held by the list, the store is freed if no other list references it.
// Calling Release more than once has no effect.
func (l *List) Release() {
	if l.released {
		return
	}
	l.released = true
	l.str = nil

	if l.abstract != nil {
		l.abstract.Release()
		l.abstract = nil
		return
	}

	l.rep.release(l.allocator)
	l.rep = rep{}
}

// replaceRep installs r as the representation of the list and invalidates the string form.
// The references on r are taken before the references on the previous representation are dropped.
func (l *List) replaceRep(r rep) {
	r.acquire()
	prev := l.rep
	l.rep = r
	if prev.store != nil {
		prev.release(l.allocator)
	}
	l.invalidateString()
}

// materialize converts an abstract list to a list with a store.
func (l *List) materialize() error {
	if l.released {
		return ErrReleasedList
	}
	if l.abstract == nil {
		return nil
	}

	abs := l.abstract
	if n := abs.Len(); n > l.allocator.config.MaxLength {
		return l.allocator.limitError(n)
	}

	elems, err := abs.Elements()
	if err != nil {
		return err
	}

	r, err := l.allocator.newRep(len(elems), elems, 0)
	if err != nil {
		return err
	}

	l.allocator.logger.Debug().Uint64("store", r.store.id).Int("length", len(elems)).Msg("abstract list materialized")

	r.acquire()
	l.rep = r
	l.abstract = nil
	abs.Release()
	l.check()
	return nil
}

// check validates the list if invariant checking is enabled.
func (l *List) check() {
	if l.allocator.config.CheckInvariants {
		l.Validate()
	}
}
