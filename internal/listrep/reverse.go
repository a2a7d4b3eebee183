package listrep

import (
	"fmt"

	"github.com/inoxlang/listrep/internal/utils"
)

// Reverse returns a new list with the elements of the list in reverse order, the list is not modified.
// Long lists are not copied: the result is a reversed view of the list.
func (l *List) Reverse() (*List, error) {
	if l.released {
		return nil, ErrReleasedList
	}
	a := l.allocator

	if l.abstract != nil {
		if reversed, ok := l.abstract.(*reversedList); ok {
			return reversed.src.Dup(), nil
		}

		if _, ok := l.abstract.(Reverser); ok {
			dup := l.abstract.Dup()
			abs, err := dup.(Reverser).Reverse()
			if err == nil {
				return a.NewAbstract(abs), nil
			}
			dup.Release()
			a.logger.Debug().Err(err).Msg("abstract list not reversible, falling back to a reversed view")
		}
	}

	length := l.Len()
	if length < 2 {
		return l.Dup(), nil
	}

	if length >= REVERSE_LENGTH_THRESHOLD || l.abstract != nil {
		return a.NewAbstract(newReversedList(l.Dup())), nil
	}

	r, err := a.newRep(length, nil, 0)
	if err != nil {
		return nil, err
	}

	dst := r.store.slots[r.store.firstUsed:]
	for i, e := range l.rep.elements() {
		e.IncrRef()
		dst[length-1-i] = e
	}
	r.store.numUsed = length

	return a.newListFromRep(r), nil
}

// Repeat returns a new list made of count copies of the elements of the list.
func (l *List) Repeat(count int) (*List, error) {
	view, err := l.Elements()
	if err != nil {
		return nil, err
	}
	return l.allocator.NewRepeated(count, view.Slice())
}

// NewRepeated creates a list made of count copies of elems. Long results are not stored: the list is an
// abstract list computing its elements from elems.
func (a *Allocator) NewRepeated(count int, elems []Elem) (*List, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrNegativeRepeatCount, count)
	}
	if count == 0 || len(elems) == 0 {
		return a.NewEmpty(0)
	}

	if len(elems) > a.config.MaxLength/count {
		return nil, a.limitError(utils.SaturatingMul(len(elems), count))
	}

	total := len(elems) * count
	if total >= REPEAT_LENGTH_THRESHOLD {
		return a.NewAbstract(newRepeatedList(elems, count)), nil
	}

	r, err := a.newRep(total, nil, 0)
	if err != nil {
		return nil, err
	}

	dst := r.store.slots[r.store.firstUsed:]
	for i := 0; i < total; i++ {
		e := elems[i%len(elems)]
		e.IncrRef()
		dst[i] = e
	}
	r.store.numUsed = total

	return a.newListFromRep(r), nil
}
