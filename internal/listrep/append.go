package listrep

import (
	"slices"
)

// AppendElements appends elems to the list. When the store is not shared it is grown in place,
// otherwise the elements are copied to a new store with room left at the back.
func (l *List) AppendElements(elems []Elem) error {
	if err := l.materialize(); err != nil {
		return err
	}
	//elems may be a view of the store being modified.
	return l.appendElements(slices.Clone(elems))
}

func (l *List) AppendElement(e Elem) error {
	if err := l.materialize(); err != nil {
		return err
	}
	return l.appendElements([]Elem{e})
}

// AppendList appends the elements of other, other can be the list itself.
func (l *List) AppendList(other *List) error {
	view, err := other.Elements()
	if err != nil {
		return err
	}
	return l.AppendElements(view.Slice())
}

// AppendIfAbsent appends e if no element of the list is e or is equal to it according to equal,
// equal can be nil. It returns true if the element has been appended.
func (l *List) AppendIfAbsent(e Elem, equal func(a, b Elem) bool) (bool, error) {
	view, err := l.Elements()
	if err != nil {
		return false, err
	}

	for _, existing := range view.Slice() {
		if existing == e {
			return false, nil
		}
	}
	if equal != nil {
		for _, existing := range view.Slice() {
			if equal(existing, e) {
				return false, nil
			}
		}
	}

	if err := l.appendElements([]Elem{e}); err != nil {
		return false, err
	}
	return true, nil
}

func (l *List) appendElements(elems []Elem) error {
	a := l.allocator
	elemCount := len(elems)

	if elemCount == 0 {
		//appending nothing still makes the string form canonical.
		if !l.IsCanonical() {
			l.invalidateString()
		}
		return nil
	}

	toLen := l.rep.length()
	if elemCount > a.config.MaxLength || toLen > a.config.MaxLength-elemCount {
		return a.limitError(toLen + elemCount)
	}

	finalLen := toLen + elemCount

	if !l.rep.isShared() {
		store := l.rep.store
		if finalLen > store.Capacity() {
			if err := a.Reallocate(store, finalLen); err != nil {
				return err
			}
		}

		//collected after the reallocation so that the list is unchanged if it fails.
		l.rep.freeUnreferenced(a)

		if numTailFree := l.rep.numFreeTail(); numTailFree < elemCount {
			//not enough room at the back: move the elements to the front and
			//divide the remaining space between the front and the back.
			shiftCount := elemCount - numTailFree
			shiftCount += (store.Capacity() - finalLen) / 2
			if shiftCount != 0 {
				l.rep.shiftDown(shiftCount)
			}
		}

		copyIn(store.slots[store.firstUsed+store.numUsed:], elems)
		store.numUsed = finalLen
		if l.rep.span != nil {
			l.rep.span.length = finalLen
		}
		store.contentChanged()
		l.invalidateString()
		l.check()
		return nil
	}

	//the store is shared: if the list had no span all the elements were at the front,
	//so no room is left at the front of the new store since prepending is unlikely.
	flags := SPACE_ONLY_BACK
	if l.rep.span != nil {
		flags = SPACE_FAVOR_BACK
	}

	r, err := a.newRep(finalLen, nil, flags)
	if err != nil {
		return err
	}

	dst := r.store.slots[r.store.firstUsed:]
	copyIn(dst, l.rep.elements())
	copyIn(dst[toLen:], elems)
	r.store.numUsed = finalLen
	if r.span != nil {
		r.span.length = finalLen
	}

	l.replaceRep(r)
	l.check()
	return nil
}
