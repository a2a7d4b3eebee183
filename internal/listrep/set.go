package listrep

// SetElement replaces the element at index by e. If the store is shared the elements of the list are first
// copied to a new store. An *IndexError is returned if index is not in [0, length).
func (l *List) SetElement(index int, e Elem) error {
	if err := l.materialize(); err != nil {
		return err
	}

	a := l.allocator
	elemCount := l.rep.length()
	if index < 0 || index >= elemCount {
		return &IndexError{Index: index, Length: elemCount}
	}

	//collecting is done after the index check so that the list is unchanged on error.
	l.rep.freeUnreferenced(a)

	if l.rep.store.refCount > 1 {
		r, err := a.newRep(elemCount, l.rep.elements(), 0)
		if err != nil {
			return err
		}
		l.replaceRep(r)
	}

	elems := l.rep.elements()

	//take the reference on the new element before releasing the old one, they can be the same.
	e.IncrRef()
	elems[index].DecrRef()
	elems[index] = e

	l.rep.store.contentChanged()
	l.invalidateString()
	l.check()
	return nil
}
