package listrep

import (
	"fmt"
)

// Validate checks the consistency of the store and of the span of the list and panics with an
// *InvariantViolation if a condition does not hold. Abstract and released lists are not checked.
func (l *List) Validate() {
	if l.released || l.abstract != nil {
		return
	}

	store := l.rep.store
	span := l.rep.span
	maxLength := l.allocator.config.MaxLength

	violated := func(condition string, format string, args ...any) {
		panic(&InvariantViolation{Condition: condition, Detail: fmt.Sprintf(format, args...)})
	}

	if store == nil {
		violated("store != nil", "list without store")
	}
	if store.freed {
		violated("!store.freed", "store %d has been freed", store.id)
	}

	capacity := store.Capacity()
	switch {
	case capacity > maxLength:
		violated("capacity <= maxLength", "capacity %d, max length %d", capacity, maxLength)
	case store.firstUsed < 0:
		violated("firstUsed >= 0", "firstUsed %d", store.firstUsed)
	case store.firstUsed >= capacity:
		violated("firstUsed < capacity", "firstUsed %d, capacity %d", store.firstUsed, capacity)
	case store.numUsed < 0 || store.numUsed > capacity:
		violated("numUsed <= capacity", "numUsed %d, capacity %d", store.numUsed, capacity)
	case store.firstUsed > capacity-store.numUsed:
		violated("firstUsed <= capacity - numUsed", "firstUsed %d, numUsed %d, capacity %d", store.firstUsed, store.numUsed, capacity)
	case store.refCount < 1:
		violated("refCount >= 1", "refCount %d", store.refCount)
	}

	if span == nil {
		if store.refCount == 1 && store.firstUsed != 0 {
			violated("isShared || firstUsed == 0", "unshared store %d without span starts at %d", store.id, store.firstUsed)
		}
	} else {
		switch {
		case span.start < store.firstUsed:
			violated("span.start >= firstUsed", "span start %d, firstUsed %d", span.start, store.firstUsed)
		case span.length < 0 || span.length > store.numUsed:
			violated("span.length <= numUsed", "span length %d, numUsed %d", span.length, store.numUsed)
		case span.start > store.firstUsed+store.numUsed-span.length:
			violated("span.start <= firstUsed + numUsed - span.length", "span start %d, span length %d, firstUsed %d, numUsed %d",
				span.start, span.length, store.firstUsed, store.numUsed)
		case span.refCount < 1:
			violated("span.refCount >= 1", "span refCount %d", span.refCount)
		}
	}

	for i, e := range store.used() {
		if e == nil {
			violated("used slots are not nil", "nil element in slot %d of store %d", store.firstUsed+i, store.id)
		}
	}
}
