package listrep

// rep is the representation of a list: a store and an optional span. Without a span the list
// is made of all the used slots of the store.
type rep struct {
	store *Store
	span  *Span //can be nil
}

func (r rep) start() int {
	if r.span != nil {
		return r.span.start
	}
	return r.store.firstUsed
}

func (r rep) length() int {
	if r.span != nil {
		return r.span.length
	}
	return r.store.numUsed
}

func (r rep) elements() []Elem {
	start := r.start()
	return r.store.slots[start : start+r.length()]
}

// isShared returns true if the store is referenced by more than one list.
func (r rep) isShared() bool {
	return r.store.refCount > 1
}

func (r rep) numFreeHead() int {
	return r.store.firstUsed
}

func (r rep) numFreeTail() int {
	return r.store.Capacity() - (r.store.firstUsed + r.store.numUsed)
}

// acquire takes a reference on the store and on the span.
func (r rep) acquire() {
	r.store.refCount++
	if r.span != nil {
		r.span.refCount++
	}
}

// release drops the references taken by acquire, the store is freed if it is no longer referenced.
func (r rep) release(a *Allocator) {
	if r.span != nil {
		r.span.refCount--
		if r.span.refCount <= 0 {
			a.stats.SpansFreed++
		}
	}

	r.store.refCount--
	if r.store.refCount <= 0 {
		a.freeStore(r.store)
	}
}

// freeUnreferenced releases the elements of an unshared store that are outside the span,
// the used range of the store then matches the span.
func (r rep) freeUnreferenced(a *Allocator) {
	if r.isShared() || r.span == nil {
		return
	}

	store := r.store
	span := r.span
	freed := 0

	//garbage at the front
	if count := span.start - store.firstUsed; count > 0 {
		releaseAll(store.slots[store.firstUsed:span.start])
		store.firstUsed = span.start
		store.numUsed -= count
		freed += count
	}

	//garbage at the back
	spanEnd := span.start + span.length
	if count := (store.firstUsed + store.numUsed) - spanEnd; count > 0 {
		releaseAll(store.slots[spanEnd : spanEnd+count])
		store.numUsed -= count
		freed += count
	}

	if freed > 0 {
		store.touch()
		a.logger.Debug().Uint64("store", store.id).Int("freed", freed).Msg("unreferenced slots collected")
	}
}

// numUnreferenced returns the number of slots freeUnreferenced would release.
func (r rep) numUnreferenced() int {
	if r.isShared() || r.span == nil {
		return 0
	}
	return r.store.numUsed - r.span.length
}

// shiftDown moves the used slots of an unshared store shift slots towards the front.
func (r rep) shiftDown(shift int) {
	store := r.store
	prevStart, prevEnd := store.firstUsed, store.firstUsed+store.numUsed

	copy(store.slots[store.firstUsed-shift:], store.used())
	store.firstUsed -= shift
	if r.span != nil {
		r.span.start = store.firstUsed
	}
	store.clearVacated(prevStart, prevEnd)
	store.touch()
}

// newRep creates the representation of a list with room for count elements, initialized with elems if not nil.
// The references on the store and the span are not taken.
func (a *Allocator) newRep(count int, elems []Elem, flags AllocFlags) (rep, error) {
	store, err := a.NewStore(count, elems, flags)
	if err != nil {
		return rep{}, err
	}

	r := rep{store: store}
	if store.firstUsed != 0 {
		r.span = a.newSpan(store, store.firstUsed, store.numUsed)
	}
	return r, nil
}

// rangeRep returns the representation of the elements [rangeStart, rangeEnd] of src, the references on the
// returned store and span are not taken. If preserve is false src may be modified in place, this is only
// allowed if src is the representation of a single list that is going to be replaced by the range.
//
// The unreferenced slots of src are only collected by the branches that cannot fail.
func (a *Allocator) rangeRep(src rep, rangeStart, rangeEnd int, preserve bool) (rep, error) {
	numSrcElems := src.length()
	rangeStart = max(rangeStart, 0)
	rangeEnd = min(rangeEnd, numSrcElems-1)

	if rangeStart > rangeEnd {
		return a.newRep(1, nil, 0)
	}

	rangeLen := rangeEnd - rangeStart + 1
	store := src.store

	//number of used slots once the unreferenced slots are collected
	usedCount := store.numUsed
	if !preserve {
		usedCount -= src.numUnreferenced()
	}

	switch {
	case rangeStart == 0 && rangeEnd == numSrcElems-1:
		//entire list
		if !preserve {
			src.freeUnreferenced(a)
		}
		return src, nil
	case rangeStart == 0 && !preserve && !src.isShared() && src.span == nil:
		//unshared list without span: release the elements after the range in place.
		releaseAll(store.slots[store.firstUsed+rangeLen : store.firstUsed+numSrcElems])
		store.numUsed = rangeLen
		store.contentChanged()
		return rep{store: store}, nil
	case a.spanMerited(rangeLen, usedCount, store.Capacity()):
		spanStart := src.start() + rangeStart

		var r rep
		if !preserve && src.span != nil && src.span.refCount <= 1 {
			src.span.start = spanStart
			src.span.length = rangeLen
			r = src
		} else {
			r = rep{store: store, span: a.newSpan(store, spanStart, rangeLen)}
		}

		if !preserve {
			r.freeUnreferenced(a)
		}
		return r, nil
	case preserve || src.isShared():
		//copy into a new store
		elems := src.elements()
		return a.newRep(rangeLen, elems[rangeStart:rangeStart+rangeLen], 0)
	default:
		//unshared: release the elements outside the range and move the range to the front of the store
		//since an unshared store without span must start at slot 0.
		src.freeUnreferenced(a)
		elems := src.elements()
		prevStart, prevEnd := store.firstUsed, store.firstUsed+store.numUsed

		releaseAll(elems[:rangeStart])
		releaseAll(elems[rangeStart+rangeLen:])
		copy(store.slots, elems[rangeStart:rangeStart+rangeLen])
		store.firstUsed = 0
		store.numUsed = rangeLen
		store.clearVacated(prevStart, prevEnd)
		store.contentChanged()

		if src.span != nil {
			src.span.start = store.firstUsed
			src.span.length = store.numUsed
		}
		return rep{store: store}, nil
	}
}
