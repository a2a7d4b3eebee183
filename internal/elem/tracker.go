package elem

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrNegativeRefCount = errors.New("reference count of value would become negative")
	ErrUseAfterFree     = errors.New("reference taken on a freed value")
	ErrLeakedReferences = errors.New("values still referenced")
)

// A Tracker records every reference count change of the values created by the factories using it,
// it is used to check that list operations neither leak nor prematurely release references.
type Tracker struct {
	lock       sync.Mutex
	created    int64
	increments int64
	decrements int64
	frees      int64
	live       map[*Value]struct{} //values with a positive reference count
}

func NewTracker() *Tracker {
	return &Tracker{
		live: map[*Value]struct{}{},
	}
}

func (t *Tracker) onCreate(v *Value) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.created++
}

func (t *Tracker) onIncr(v *Value) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.increments++
	t.live[v] = struct{}{}
}

func (t *Tracker) onDecr(v *Value) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.decrements++
	if v.refCount == 0 {
		t.frees++
		delete(t.live, v)
	}
}

type TrackerStats struct {
	Created        int64 `json:"created"`
	Increments     int64 `json:"increments"`
	Decrements     int64 `json:"decrements"`
	Frees          int64 `json:"frees"`
	LiveValues     int   `json:"liveValues"`
	LiveReferences int64 `json:"liveReferences"`
}

func (t *Tracker) Stats() TrackerStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	var refs int64
	for v := range t.live {
		refs += v.refCount
	}

	return TrackerStats{
		Created:        t.created,
		Increments:     t.increments,
		Decrements:     t.decrements,
		Frees:          t.frees,
		LiveValues:     len(t.live),
		LiveReferences: refs,
	}
}

// LiveReferences returns the sum of the reference counts of all tracked values.
func (t *Tracker) LiveReferences() int64 {
	return t.Stats().LiveReferences
}

// Outstanding returns the values that still have a positive reference count, sorted by creation order.
func (t *Tracker) Outstanding() []*Value {
	t.lock.Lock()
	defer t.lock.Unlock()

	values := make([]*Value, 0, len(t.live))
	for v := range t.live {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Value) int {
		return cmp.Compare(a.id, b.id)
	})
	return values
}

// CheckNoLeak returns an error listing the first outstanding values if any value is still referenced.
func (t *Tracker) CheckNoLeak() error {
	outstanding := t.Outstanding()
	if len(outstanding) == 0 {
		return nil
	}

	const MAX_LISTED = 5
	listed := outstanding[:min(len(outstanding), MAX_LISTED)]
	descriptions := make([]string, 0, len(listed))
	for _, v := range listed {
		descriptions = append(descriptions, fmt.Sprintf("%s refcount=%d", v.describe(), v.refCount))
	}

	return fmt.Errorf("%w: %d value(s), first ones: %v", ErrLeakedReferences, len(outstanding), descriptions)
}
