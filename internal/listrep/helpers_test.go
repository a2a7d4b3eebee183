package listrep

import (
	"fmt"
	"testing"

	"github.com/inoxlang/listrep/internal/elem"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t       *testing.T
	alloc   *Allocator
	factory *elem.Factory
	tracker *elem.Tracker
	held    []*elem.Value //values the test holds a reference on
}

// newTestEnv returns an allocator checking invariants and views after each operation, and a factory whose
// values are tracked.
func newTestEnv(t *testing.T, config ...Config) *testEnv {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.CheckInvariants = true
	cfg.CheckViews = true

	alloc, err := NewAllocator(cfg, zerolog.Nop())
	require.NoError(t, err)

	tracker := elem.NewTracker()
	return &testEnv{
		t:       t,
		alloc:   alloc,
		factory: elem.NewFactory(tracker),
		tracker: tracker,
	}
}

func (e *testEnv) hold(values []*elem.Value) []Elem {
	for _, v := range values {
		v.IncrRef()
	}
	e.held = append(e.held, values...)
	return elem.Elems(values)
}

func (e *testEnv) strings(s ...string) []Elem {
	return e.hold(e.factory.Strings(s...))
}

func (e *testEnv) ints(start int64, count int) []Elem {
	return e.hold(e.factory.Ints(start, count))
}

func (e *testEnv) list(elems []Elem) *List {
	l, err := e.alloc.NewList(elems)
	require.NoError(e.t, err)
	return l
}

func (e *testEnv) layout(elems []Elem, leadingSpace, endSpace int) *List {
	l, err := e.alloc.NewWithLayout(elems, leadingSpace, endSpace)
	require.NoError(e.t, err)
	return l
}

// checkNoLeak drops the references held by the test and checks that no value is still referenced
// and that all stores have been freed. All lists should have been released.
func (e *testEnv) checkNoLeak() {
	for _, v := range e.held {
		v.DecrRef()
	}
	e.held = nil

	assert.NoError(e.t, e.tracker.CheckNoLeak())
	assert.Zero(e.t, e.alloc.Stats().LiveStores)
}

func contents(l *List) []string {
	result := make([]string, l.Len())
	for i := range result {
		e, ok := l.Index(i)
		if !ok {
			panic(fmt.Errorf("missing element at index %d", i))
		}
		result[i] = fmt.Sprint(e)
	}
	return result
}

func names(elems []Elem) []string {
	result := make([]string, len(elems))
	for i, e := range elems {
		result[i] = fmt.Sprint(e)
	}
	return result
}

func refCount(e Elem) int64 {
	return e.(*elem.Value).RefCount()
}
