package listrep

// StringRep returns the cached string form of the list.
func (l *List) StringRep() (string, bool) {
	if l.str == nil {
		return "", false
	}
	return *l.str, true
}

// SetStringRep sets the cached string form of the list, the string is not checked against the elements.
func (l *List) SetStringRep(s string) {
	l.str = &s
}

func (l *List) invalidateString() {
	l.str = nil
}

// Render returns the string form of the list, computing it with format if it is not cached. The store is
// marked canonical when the string has been derived from all its used slots.
func (l *List) Render(format func(elems []Elem) string) (string, error) {
	if l.released {
		return "", ErrReleasedList
	}
	if l.str != nil {
		return *l.str, nil
	}

	var s string
	if l.abstract != nil {
		elems, err := l.abstract.Elements()
		if err != nil {
			return "", err
		}
		s = format(elems)
	} else {
		s = format(l.rep.elements())
		if !l.rep.isShared() && l.rep.span == nil {
			l.rep.store.canonical = true
		}
	}

	l.str = &s
	return s, nil
}

// IsCanonical returns true if the string form of the list, when present, is known to have been derived
// from the elements. A list with a span is always considered canonical since the string form of a range
// is never kept.
func (l *List) IsCanonical() bool {
	if l.str == nil {
		return true
	}
	if l.abstract != nil || l.released {
		return false
	}
	return l.rep.store.canonical || l.rep.span != nil
}
