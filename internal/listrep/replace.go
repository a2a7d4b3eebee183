package listrep

import (
	"slices"
)

// Replace deletes numToDelete elements starting at first and inserts elems in their place. first is clamped
// to [0, length] and numToDelete to the number of elements after first. The elements are moved in place when
// the store is not shared and has enough free slots, otherwise the list is copied to a new store. On error the
// list is left unchanged.
func (l *List) Replace(first, numToDelete int, elems []Elem) error {
	if err := l.materialize(); err != nil {
		return err
	}

	a := l.allocator
	numToInsert := len(elems)
	origListLen := l.rep.length()

	first = max(first, 0)
	first = min(first, origListLen)
	if numToDelete < 0 {
		numToDelete = 0
	} else if numToDelete > origListLen-first {
		numToDelete = origListLen - first
	}

	if numToInsert > a.config.MaxLength-(origListLen-numToDelete) {
		return a.limitError(origListLen - numToDelete + numToInsert)
	}

	var favor AllocFlags
	switch {
	case first+numToDelete >= origListLen:
		favor = SPACE_FAVOR_BACK
	case first == 0:
		favor = SPACE_FAVOR_FRONT
	default:
		favor = SPACE_FAVOR_NONE
	}

	//pure deletions at the front or at the back are ranges.
	if numToInsert == 0 {
		if numToDelete == 0 {
			l.invalidateString()
			return nil
		}
		if first == 0 {
			return l.trimRep(numToDelete, origListLen-1)
		}
		if first+numToDelete >= origListLen {
			return l.trimRep(0, first-1)
		}
	}

	//elems may be a view of the store being modified.
	elems = slices.Clone(elems)

	//the unreferenced slots are collected by the branches that cannot fail anymore, the list is unchanged on error.
	numUnreferenced := l.rep.numUnreferenced()

	if numToDelete == 0 {
		if first == origListLen {
			return l.appendElements(elems)
		}

		//insertion at the front of a list starting at the first used slot (once collected): the elements are written
		//in the free slots before it. This is allowed even if the store is shared since other lists do not see these slots.
		store := l.rep.store
		startsAtFirstUsed := l.rep.start() == store.firstUsed || numUnreferenced > 0
		if first == 0 && startsAtFirstUsed && numToInsert <= l.rep.start() {
			l.rep.freeUnreferenced(a)
			store.firstUsed -= numToInsert
			copyIn(store.slots[store.firstUsed:], elems)
			store.numUsed += numToInsert
			store.contentChanged()

			newLen := origListLen + numToInsert
			if span := l.rep.span; span != nil && span.refCount <= 1 {
				span.start = store.firstUsed
				span.length = newLen
				l.invalidateString()
			} else {
				var newSpan *Span
				if store.firstUsed != 0 {
					newSpan = a.newSpan(store, store.firstUsed, newLen)
				}
				l.replaceRep(rep{store: store, span: newSpan})
			}
			l.check()
			return nil
		}
	}

	lenChange := numToInsert - numToDelete
	leadSegmentLen := first
	tailSegmentLen := origListLen - (first + numToDelete)
	store := l.rep.store
	numFreeSlots := store.Capacity() - (store.numUsed - numUnreferenced)

	//reallocating an unshared store avoids copying the elements to a new store below.
	if numFreeSlots < lenChange && !l.rep.isShared() {
		if err := a.Reallocate(store, origListLen+lenChange); err != nil {
			return err
		}
		numFreeSlots = store.Capacity() - (store.numUsed - numUnreferenced)
	}

	newLen := origListLen + lenChange

	if l.rep.isShared() || numFreeSlots < lenChange || newLen < store.Capacity()/a.config.ShrinkDivisor {
		r, err := a.newRep(newLen, nil, favor)
		if err != nil {
			return err
		}

		listElems := l.rep.elements()
		dst := r.store.slots[r.store.firstUsed:]
		copyIn(dst, listElems[:leadSegmentLen])
		copyIn(dst[leadSegmentLen:], elems)
		copyIn(dst[leadSegmentLen+numToInsert:], listElems[leadSegmentLen+numToDelete:])

		r.store.numUsed = newLen
		if r.span != nil {
			r.span.length = newLen
		}
		l.replaceRep(r)
		l.check()
		return nil
	}

	//unshared store with enough free slots: delete, shift and insert in place.
	//After freeUnreferenced the list starts at the first used slot and covers all used slots.
	l.rep.freeUnreferenced(a)

	base := store.firstUsed
	prevStart, prevEnd := store.firstUsed, store.firstUsed+store.numUsed

	//the references on the inserted elements are taken before the deleted elements are released
	//since the same element can be in both.
	incrRefs(elems)
	releaseAll(store.slots[base+first : base+first+numToDelete])

	leadShift, tailShift := computeShifts(lenChange, leadSegmentLen, tailSegmentLen, l.rep.numFreeHead(), l.rep.numFreeTail())

	tailStart := base + leadSegmentLen + numToDelete
	moveTail := func() {
		if tailShift != 0 && tailSegmentLen != 0 {
			copy(store.slots[tailStart+tailShift:], store.slots[tailStart:tailStart+tailSegmentLen])
		}
	}
	moveLead := func() {
		if leadShift != 0 && leadSegmentLen != 0 {
			copy(store.slots[base+leadShift:], store.slots[base:base+leadSegmentLen])
		}
	}

	//the order of the moves matters: a segment must not overwrite the other segment before it is moved.
	if leadShift > 0 {
		moveTail()
		moveLead()
	} else {
		moveLead()
		moveTail()
	}

	copy(store.slots[base+leadSegmentLen+leadShift:], elems)

	store.firstUsed += leadShift
	store.numUsed = newLen
	store.clearVacated(prevStart, prevEnd)
	store.contentChanged()

	if span := l.rep.span; span != nil && span.refCount <= 1 {
		span.start = store.firstUsed
		span.length = store.numUsed
		l.invalidateString()
	} else {
		var newSpan *Span
		if store.firstUsed != 0 {
			newSpan = a.newSpan(store, store.firstUsed, store.numUsed)
		}
		l.replaceRep(rep{store: store, span: newSpan})
	}

	l.check()
	return nil
}

// computeShifts returns the number of slots by which the lead segment and the tail segment of an in-place
// replacement have to be moved, a negative shift is a move towards the front. The free slots at the front
// and at the back of the store are leadSpace and tailSpace, their sum is at least lenChange.
func computeShifts(lenChange, leadSegmentLen, tailSegmentLen, leadSpace, tailSpace int) (leadShift, tailShift int) {
	switch {
	case lenChange == 0:
		return 0, 0
	case lenChange < 0:
		//the gap left by the deletions is larger than the insertions: move the smaller segment.
		if leadSegmentLen > tailSegmentLen {
			return 0, lenChange
		}
		return -lenChange, 0
	}

	finalFreeSpace := leadSpace + tailSpace - lenChange

	if leadSpace >= lenChange && (leadSegmentLen < tailSegmentLen || tailSpace < lenChange) {
		//move only the lead segment towards the front
		leadShift = -lenChange
		tailShift = 0

		//if there is no room left at the back or the whole list is the lead segment, the remaining
		//free slots are divided between the front and the back.
		if finalFreeSpace > 1 && (tailSpace == 0 || tailSegmentLen == 0) {
			postShiftLeadSpace := leadSpace - lenChange
			if postShiftLeadSpace > finalFreeSpace/2 {
				extraShift := postShiftLeadSpace - finalFreeSpace/2
				leadShift -= extraShift
				tailShift = -extraShift
			}
		}
		return leadShift, tailShift
	}

	if tailSpace >= lenChange {
		//move only the tail segment towards the back
		leadShift = 0
		tailShift = lenChange

		if finalFreeSpace > 1 && (leadSpace == 0 || leadSegmentLen == 0) {
			postShiftTailSpace := tailSpace - lenChange
			if postShiftTailSpace > finalFreeSpace/2 {
				extraShift := postShiftTailSpace - finalFreeSpace/2
				tailShift += extraShift
				leadShift = extraShift
			}
		}
		return leadShift, tailShift
	}

	//both segments have to be moved, the remaining free slots are divided between the front and the back.
	leadShift = leadSpace - finalFreeSpace/2
	tailShift = lenChange - leadShift
	if tailShift > tailSpace {
		leadShift++
		tailShift--
	}
	return -leadShift, tailShift
}
