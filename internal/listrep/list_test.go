package listrep

import (
	"strings"
	"testing"

	"github.com/inoxlang/listrep/internal/testconfig"
	"github.com/inoxlang/listrep/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinNames(elems []Elem) string {
	return strings.Join(names(elems), " ")
}

func TestNewList(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("elements are referenced by the store", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")

		l := env.list(elems)
		assert.Equal(t, 3, l.Len())
		assert.Equal(t, []string{"A", "B", "C"}, contents(l))
		assert.EqualValues(t, 2, refCount(elems[1]))
		assert.Equal(t, 3, l.Store().Capacity())
		assert.Equal(t, 1, l.Store().RefCount())
		assert.Nil(t, l.Span())

		l.Release()
		assert.EqualValues(t, 1, refCount(elems[1]))
		env.checkNoLeak()
	})

	t.Run("empty list with reserved capacity", func(t *testing.T) {
		env := newTestEnv(t)

		l, err := env.alloc.NewEmpty(10)
		require.NoError(t, err)
		assert.Zero(t, l.Len())
		assert.Equal(t, 10, l.Store().Capacity())

		l.Release()
		env.checkNoLeak()
	})

	t.Run("length one past the maximum", func(t *testing.T) {
		env := newTestEnv(t, Config{MaxLength: 10})
		elems := env.ints(0, 11)

		l, err := env.alloc.NewList(elems)
		assert.Nil(t, l)

		var limitErr *LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 11, limitErr.Requested)
		assert.Equal(t, 10, limitErr.Max)

		assert.Zero(t, env.alloc.Stats().Allocations)
		assert.Zero(t, env.alloc.Stats().BytesInUse)
		assert.EqualValues(t, 1, refCount(elems[0]))
		env.checkNoLeak()
	})

	t.Run("explicit layout", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")

		l := env.layout(elems, 2, 3)
		assert.Equal(t, []string{"A", "B", "C"}, contents(l))
		assert.Equal(t, 8, l.Store().Capacity())
		assert.Equal(t, 2, l.Store().FirstUsed())
		require.NotNil(t, l.Span())
		assert.Equal(t, 2, l.Span().Start())
		assert.Equal(t, 3, l.Span().Length())

		without := env.layout(elems, 0, 3)
		assert.Nil(t, without.Span())

		_, err := env.alloc.NewWithLayout(elems, -1, 0)
		assert.ErrorIs(t, err, ErrInvalidLayout)

		_, err = env.alloc.NewWithLayout(nil, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidLayout)

		l.Release()
		without.Release()
		env.checkNoLeak()
	})
}

func TestIndex(t *testing.T) {
	testconfig.AllowParallelization(t)

	env := newTestEnv(t)
	l := env.layout(env.strings("A", "B", "C"), 1, 1)

	e, ok := l.Index(1)
	assert.True(t, ok)
	assert.Equal(t, "B", e.(interface{ String() string }).String())

	for _, index := range []int{-1, 3, 100} {
		e, ok := l.Index(index)
		assert.False(t, ok)
		assert.Nil(t, e)
	}

	l.Release()
	_, ok = l.Index(0)
	assert.False(t, ok)
	assert.Zero(t, l.Len())

	env.checkNoLeak()
}

func TestDupAndRelease(t *testing.T) {
	testconfig.AllowParallelization(t)

	env := newTestEnv(t)
	elems := env.strings("A", "B")
	l := env.layout(elems, 1, 0)

	dup := l.Dup()
	assert.Same(t, l.Store(), dup.Store())
	assert.Same(t, l.Span(), dup.Span())
	assert.Equal(t, 2, l.Store().RefCount())
	assert.Equal(t, 2, l.Span().RefCount())

	l.Release()
	l.Release()
	assert.True(t, l.Released())
	assert.Equal(t, 1, dup.Store().RefCount())
	assert.Equal(t, []string{"A", "B"}, contents(dup))

	err := utils.Catch(func() { l.Dup() })
	var violation *InvariantViolation
	assert.ErrorAs(t, err, &violation)

	assert.ErrorIs(t, l.AppendElement(elems[0]), ErrReleasedList)
	_, err = l.Range(0, 1)
	assert.ErrorIs(t, err, ErrReleasedList)

	dup.Release()
	assert.EqualValues(t, 1, env.alloc.Stats().Frees)
	env.checkNoLeak()
}

func TestElementsView(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("view of a list", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.layout(env.strings("A", "B", "C"), 2, 2)

		view, err := l.Elements()
		require.NoError(t, err)
		assert.Equal(t, 3, view.Len())
		assert.Equal(t, "A B C", joinNames(view.Slice()))
		assert.Equal(t, "C", names([]Elem{view.At(2)})[0])
		assert.True(t, view.Valid())

		l.Release()
		env.checkNoLeak()
	})

	t.Run("using a view after a mutation panics", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")
		l := env.list(elems)

		view, err := l.Elements()
		require.NoError(t, err)

		require.NoError(t, l.AppendElement(elems[0]))
		assert.False(t, view.Valid())

		err = utils.Catch(func() { view.Slice() })
		assert.ErrorIs(t, err, ErrStaleView)

		l.Release()
		env.checkNoLeak()
	})

	t.Run("a mutation of another list does not invalidate the view when the store is shared", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")
		l := env.list(elems)
		other := l.Dup()

		view, err := l.Elements()
		require.NoError(t, err)

		//copy-on-write: other gets a new store.
		require.NoError(t, other.SetElement(0, elems[2]))
		assert.True(t, view.Valid())
		assert.Equal(t, "A B C", joinNames(view.Slice()))

		l.Release()
		other.Release()
		env.checkNoLeak()
	})

	t.Run("unchecked views", func(t *testing.T) {
		a := NewDefaultAllocator()
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")

		l, err := a.NewList(elems)
		require.NoError(t, err)
		view, err := l.Elements()
		require.NoError(t, err)

		require.NoError(t, l.AppendElement(elems[0]))
		assert.False(t, view.Valid())
		assert.NotPanics(t, func() { view.Slice() })

		l.Release()
		env.checkNoLeak()
	})
}

func TestStringRep(t *testing.T) {
	testconfig.AllowParallelization(t)

	format := func(elems []Elem) string {
		return "{" + joinNames(elems) + "}"
	}

	t.Run("render caches the string form and marks the store canonical", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.list(env.strings("A", "B"))

		_, ok := l.StringRep()
		assert.False(t, ok)
		assert.True(t, l.IsCanonical())

		s, err := l.Render(format)
		require.NoError(t, err)
		assert.Equal(t, "{A B}", s)
		assert.True(t, l.Store().IsCanonical())
		assert.True(t, l.IsCanonical())

		s, ok = l.StringRep()
		assert.True(t, ok)
		assert.Equal(t, "{A B}", s)

		l.Release()
		env.checkNoLeak()
	})

	t.Run("a string set by the caller is not canonical", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.list(env.strings("A", "B"))

		l.SetStringRep("A   B")
		assert.False(t, l.IsCanonical())

		//appending nothing regenerates the string form.
		require.NoError(t, l.AppendElements(nil))
		_, ok := l.StringRep()
		assert.False(t, ok)
		assert.True(t, l.IsCanonical())

		l.Release()
		env.checkNoLeak()
	})

	t.Run("mutations invalidate the string form", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")
		l := env.list(elems)

		_, err := l.Render(format)
		require.NoError(t, err)

		require.NoError(t, l.Replace(1, 1, elems[:1]))
		_, ok := l.StringRep()
		assert.False(t, ok)
		assert.False(t, l.Store().IsCanonical())

		s, err := l.Render(format)
		require.NoError(t, err)
		assert.Equal(t, "{A A C}", s)

		l.Release()
		env.checkNoLeak()
	})

	t.Run("duplicates share the string form", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.list(env.strings("A"))
		l.SetStringRep("A")

		dup := l.Dup()
		s, ok := dup.StringRep()
		assert.True(t, ok)
		assert.Equal(t, "A", s)

		l.Release()
		dup.Release()
		env.checkNoLeak()
	})
}

func TestValidate(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("valid layouts", func(t *testing.T) {
		env := newTestEnv(t)
		elems := env.strings("A", "B", "C")

		for lead := 0; lead < 3; lead++ {
			for end := 0; end < 3; end++ {
				l := env.layout(elems, lead, end)
				assert.NotPanics(t, l.Validate)
				l.Release()
			}
		}
		env.checkNoLeak()
	})

	t.Run("unshared store without span not starting at zero", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.layout(env.strings("A", "B"), 0, 2)

		store := l.Store()
		copy(store.slots[1:], store.used())
		store.slots[0] = nil
		store.firstUsed = 1

		err := utils.Catch(l.Validate)
		var violation *InvariantViolation
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "isShared || firstUsed == 0", violation.Condition)

		//a shared store can start anywhere.
		dup := l.Dup()
		assert.NotPanics(t, l.Validate)
		dup.Release()

		l.Release()
		env.checkNoLeak()
	})

	t.Run("span outside of the used slots", func(t *testing.T) {
		env := newTestEnv(t)
		l := env.layout(env.strings("A", "B"), 1, 1)

		l.Span().start = 2
		err := utils.Catch(l.Validate)
		var violation *InvariantViolation
		require.ErrorAs(t, err, &violation)
		assert.Contains(t, violation.Condition, "span.start")

		l.Span().start = 1
		l.Release()
		env.checkNoLeak()
	})
}
