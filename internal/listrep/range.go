package listrep

// Range returns a new list containing the elements [first, last] of the list, the list is not modified.
// Indexes are clamped to the bounds of the list, the result is empty if first > last.
func (l *List) Range(first, last int) (*List, error) {
	if l.released {
		return nil, ErrReleasedList
	}

	if l.abstract != nil {
		if _, ok := l.abstract.(Ranger); ok {
			dup := l.abstract.Dup()
			abs, err := dup.(Ranger).Range(first, last)
			if err != nil {
				dup.Release()
				return nil, err
			}
			return l.allocator.NewAbstract(abs), nil
		}
		if err := l.materialize(); err != nil {
			return nil, err
		}
	}

	r, err := l.allocator.rangeRep(l.rep, first, last, true)
	if err != nil {
		return nil, err
	}

	result := l.allocator.newListFromRep(r)
	l.check()
	return result, nil
}

// Trim keeps only the elements [first, last] of the list, indexes are clamped to the bounds of the list.
// The store is modified in place when it is not shared.
func (l *List) Trim(first, last int) error {
	if l.released {
		return ErrReleasedList
	}

	if l.abstract != nil {
		if ranger, ok := l.abstract.(Ranger); ok {
			abs, err := ranger.Range(first, last)
			if err != nil {
				return err
			}
			l.abstract = abs
			l.invalidateString()
			return nil
		}
		if err := l.materialize(); err != nil {
			return err
		}
	}

	return l.trimRep(first, last)
}

func (l *List) trimRep(first, last int) error {
	r, err := l.allocator.rangeRep(l.rep, first, last, false)
	if err != nil {
		return err
	}
	l.replaceRep(r)
	l.check()
	return nil
}
