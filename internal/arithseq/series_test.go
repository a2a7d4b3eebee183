package arithseq

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/inoxlang/listrep/internal/elem"
	"github.com/inoxlang/listrep/internal/listrep"
	"github.com/inoxlang/listrep/internal/testconfig"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(t *testing.T, config ...listrep.Config) (*listrep.Allocator, *elem.Factory, *elem.Tracker) {
	var cfg listrep.Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.CheckInvariants = true
	cfg.CheckViews = true

	alloc, err := listrep.NewAllocator(cfg, zerolog.Nop())
	require.NoError(t, err)

	tracker := elem.NewTracker()
	return alloc, elem.NewFactory(tracker), tracker
}

func contents(l *listrep.List) []string {
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

func intPtr(i int64) *int64 {
	return &i
}

func num(s string) *Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return &n
}

func TestNewInt(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("start, step and length", func(t *testing.T) {
		alloc, factory, tracker := newTestAllocator(t)

		l, err := NewInt(alloc, factory, 10, 2, 5)
		require.NoError(t, err)

		require.NotNil(t, l.Abstract())
		assert.Equal(t, 5, l.Len())
		assert.Equal(t, []string{"10", "12", "14", "16", "18"}, contents(l))

		_, ok := l.Index(5)
		assert.False(t, ok)

		l.Release()
		assert.NoError(t, tracker.CheckNoLeak())
	})

	t.Run("start and end", func(t *testing.T) {
		alloc, factory, tracker := newTestAllocator(t)

		l, err := New(alloc, factory, Params{Start: num("0"), End: num("9")})
		require.NoError(t, err)

		assert.Equal(t, 10, l.Len())
		e, ok := l.Index(5)
		require.True(t, ok)
		assert.Equal(t, "5", fmt.Sprint(e))

		l.Release()
		assert.NoError(t, tracker.CheckNoLeak())
	})

	t.Run("length above the maximum", func(t *testing.T) {
		alloc, factory, _ := newTestAllocator(t, listrep.Config{MaxLength: 10})

		_, err := NewInt(alloc, factory, 0, 1, 11)

		var limitErr *listrep.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 11, limitErr.Requested)
		assert.Equal(t, 10, limitErr.Max)
	})
}

func TestNewSeries(t *testing.T) {
	testconfig.AllowParallelization(t)

	factory := elem.NewFactory(nil)

	testCases := []struct {
		name     string
		params   Params
		expected string
		isFloat  bool
	}{
		{
			name:     "default step",
			params:   Params{Start: num("1"), End: num("4")},
			expected: "1 2 3 4",
		},
		{
			name:     "default step when start is greater than end",
			params:   Params{Start: num("5"), End: num("1")},
			expected: "5 4 3 2 1",
		},
		{
			name:     "unreachable end",
			params:   Params{Start: num("5"), End: num("1"), Step: num("1")},
			expected: "",
		},
		{
			name:     "end not on the progression",
			params:   Params{Start: num("0"), End: num("10"), Step: num("3")},
			expected: "0 3 6 9",
		},
		{
			name:     "negative step",
			params:   Params{Start: num("10"), End: num("1"), Step: num("-3")},
			expected: "10 7 4 1",
		},
		{
			name:     "length wins over end",
			params:   Params{Start: num("0"), End: num("100"), Step: num("2"), Length: intPtr(3)},
			expected: "0 2 4",
		},
		{
			name:     "negative length",
			params:   Params{Start: num("0"), Step: num("2"), Length: intPtr(-4)},
			expected: "",
		},
		{
			name:     "zero step with equal start and end",
			params:   Params{Start: num("3"), End: num("3"), Step: num("0")},
			expected: "3",
		},
		{
			name:     "zero step and length",
			params:   Params{Start: num("7"), Step: num("0"), Length: intPtr(3)},
			expected: "7 7 7",
		},
		{
			name:     "exact derived step",
			params:   Params{Start: num("0"), End: num("10"), Length: intPtr(6)},
			expected: "0 2 4 6 8 10",
		},
		{
			name:     "derived float step",
			params:   Params{Start: num("0"), End: num("1"), Length: intPtr(3)},
			expected: "0.0 0.5 1.0",
			isFloat:  true,
		},
		{
			name:     "floats",
			params:   Params{Start: num("0"), End: num("1"), Step: num("0.25")},
			expected: "0.0 0.25 0.5 0.75 1.0",
			isFloat:  true,
		},
		{
			name:     "floats are rounded to the precision of the parameters",
			params:   Params{Start: num("0.1"), End: num("0.5"), Step: num("0.1")},
			expected: "0.1 0.2 0.3 0.4 0.5",
			isFloat:  true,
		},
		{
			name:     "float length and step",
			params:   Params{Start: num("1.5"), Step: num("-0.5"), Length: intPtr(4)},
			expected: "1.5 1.0 0.5 0.0",
			isFloat:  true,
		},
		{
			name:     "integers used as floats",
			params:   Params{Start: num("1"), End: num("3"), UseFloats: true},
			expected: "1.0 2.0 3.0",
			isFloat:  true,
		},
		{
			name:     "largest step",
			params:   Params{Start: num("0"), Step: &Number{kind: intNumber, i: math.MinInt64}, Length: intPtr(2)},
			expected: "0 -9223372036854775808",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			series, err := NewSeries(factory, testCase.params, listrep.MAX_LENGTH)
			require.NoError(t, err)

			assert.Equal(t, testCase.expected, series.String())
			assert.Equal(t, testCase.isFloat, series.IsFloat())
			assert.Equal(t, 1, series.RefCount())
			series.Release()
		})
	}
}

func TestNewSeriesErrors(t *testing.T) {
	testconfig.AllowParallelization(t)

	factory := elem.NewFactory(nil)
	inf, nan := Float(math.Inf(1)), Float(math.NaN())
	minusInf := Float(math.Inf(-1))

	t.Run("missing end and length", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: num("1"), Step: num("1")}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrMissingBound)
	})

	t.Run("zero step with distinct start and end", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: num("1"), End: num("2"), Step: num("0")}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrInvalidSeries)

		_, err = NewSeries(factory, Params{Start: num("1"), End: num("2"), Step: num("0.0")}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrInvalidSeries)
	})

	t.Run("integer overflow", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: &Number{i: math.MaxInt64 - 1}, Step: num("1"), Length: intPtr(3)}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrInvalidSeries)

		_, err = NewSeries(factory, Params{Start: &Number{i: math.MinInt64 + 1}, Step: num("-1"), Length: intPtr(3)}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrInvalidSeries)

		_, err = NewSeries(factory, Params{Start: num("0"), Step: num("4611686018427387904"), Length: intPtr(3)}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrInvalidSeries)

		series, err := NewSeries(factory, Params{Start: &Number{i: math.MaxInt64 - 1}, Step: num("1"), Length: intPtr(2)}, listrep.MAX_LENGTH)
		require.NoError(t, err)
		assert.Equal(t, "9223372036854775807", series.End().String())
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: &nan, End: num("1")}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrNotANumber)

		_, err = NewSeries(factory, Params{Start: num("1"), End: &nan}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrNotANumber)

		_, err = NewSeries(factory, Params{Start: num("1"), Step: &nan, Length: intPtr(2)}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrNotANumber)
	})

	t.Run("infinite bound", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: num("0"), End: &inf}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, listrep.ErrMaxLengthExceeded)
	})

	t.Run("undefined last value", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: &inf, Step: &minusInf, Length: intPtr(3)}, listrep.MAX_LENGTH)
		assert.ErrorIs(t, err, ErrDomain)
	})

	t.Run("length above the maximum", func(t *testing.T) {
		_, err := NewSeries(factory, Params{Start: num("0"), End: num("1000")}, 100)

		var limitErr *listrep.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, 1001, limitErr.Requested)
	})
}

func TestSeriesIndex(t *testing.T) {
	testconfig.AllowParallelization(t)

	tracker := elem.NewTracker()
	factory := elem.NewFactory(tracker)

	series, err := NewSeries(factory, Params{Start: num("10"), Step: num("2"), Length: intPtr(1000)}, listrep.MAX_LENGTH)
	require.NoError(t, err)

	e1, ok := series.Index(500)
	require.True(t, ok)
	e2, ok := series.Index(500)
	require.True(t, ok)

	assert.Same(t, e1, e2)
	assert.Equal(t, "1010", fmt.Sprint(e1))
	assert.EqualValues(t, 1, e1.(*elem.Value).RefCount())
	assert.Len(t, series.cache, 501)

	_, ok = series.Index(1000)
	assert.False(t, ok)
	_, ok = series.Index(-1)
	assert.False(t, ok)

	elems, err := series.Elements()
	require.NoError(t, err)
	assert.Len(t, elems, 1000)
	assert.Same(t, e1, elems[500])
	assert.Equal(t, "10", fmt.Sprint(elems[0]))

	series.Release()
	assert.True(t, e1.(*elem.Value).Freed())
	assert.NoError(t, tracker.CheckNoLeak())
}

func TestSeriesRange(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("unshared series is modified in place", func(t *testing.T) {
		tracker := elem.NewTracker()
		series, err := NewSeries(elem.NewFactory(tracker), Params{Start: num("10"), Step: num("2"), Length: intPtr(5)}, listrep.MAX_LENGTH)
		require.NoError(t, err)
		series.Index(0)

		result, err := series.Range(1, 3)
		require.NoError(t, err)

		assert.Same(t, series, result)
		assert.Equal(t, "12 14 16", series.String())
		assert.Equal(t, 1, series.RefCount())
		assert.NoError(t, tracker.CheckNoLeak())

		result.Release()
	})

	t.Run("shared series is not modified", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("10"), Step: num("2"), Length: intPtr(5)}, listrep.MAX_LENGTH)
		require.NoError(t, err)

		result, err := series.Dup().(*Series).Range(-5, 1)
		require.NoError(t, err)

		assert.NotSame(t, series, result)
		assert.Equal(t, "10 12", result.(*Series).String())
		assert.Equal(t, "10 12 14 16 18", series.String())
		assert.Equal(t, 1, series.RefCount())
	})

	t.Run("empty range", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("0.5"), Step: num("1"), Length: intPtr(5)}, listrep.MAX_LENGTH)
		require.NoError(t, err)

		result, err := series.Range(3, 1)
		require.NoError(t, err)

		assert.Zero(t, result.Len())
		assert.True(t, result.(*Series).IsFloat())
		assert.Zero(t, series.RefCount())
	})

	t.Run("float series", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("0"), End: num("1"), Step: num("0.1")}, listrep.MAX_LENGTH)
		require.NoError(t, err)
		require.Equal(t, 11, series.Len())

		result, err := series.Range(7, 100)
		require.NoError(t, err)
		assert.Equal(t, "0.7 0.8 0.9 1.0", result.(*Series).String())
	})
}

func TestSeriesReverse(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("integers", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("10"), Step: num("2"), Length: intPtr(5)}, listrep.MAX_LENGTH)
		require.NoError(t, err)

		result, err := series.Reverse()
		require.NoError(t, err)

		assert.Same(t, series, result)
		assert.Equal(t, "18 16 14 12 10", series.String())
		assert.Equal(t, "-2", series.Step().String())
	})

	t.Run("shared float series", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("0"), End: num("1"), Step: num("0.25")}, listrep.MAX_LENGTH)
		require.NoError(t, err)

		result, err := series.Dup().(*Series).Reverse()
		require.NoError(t, err)

		assert.NotSame(t, series, result)
		assert.Equal(t, "1.0 0.75 0.5 0.25 0.0", result.(*Series).String())
		assert.Equal(t, "0.0 0.25 0.5 0.75 1.0", series.String())
	})

	t.Run("empty series", func(t *testing.T) {
		series, err := NewSeries(elem.NewFactory(nil), Params{Start: num("3"), Length: intPtr(0)}, listrep.MAX_LENGTH)
		require.NoError(t, err)

		result, err := series.Reverse()
		require.NoError(t, err)
		assert.Zero(t, result.Len())
	})
}

func TestSeriesContains(t *testing.T) {
	testconfig.AllowParallelization(t)

	factory := elem.NewFactory(nil)

	ints, err := NewSeries(factory, Params{Start: num("10"), Step: num("2"), Length: intPtr(5)}, listrep.MAX_LENGTH)
	require.NoError(t, err)

	floats, err := NewSeries(factory, Params{Start: num("0"), End: num("1"), Step: num("0.25")}, listrep.MAX_LENGTH)
	require.NoError(t, err)

	constant, err := NewSeries(factory, Params{Start: num("4"), Step: num("0"), Length: intPtr(3)}, listrep.MAX_LENGTH)
	require.NoError(t, err)

	//math.MinInt64, -2^62, 0, 2^62
	extreme := newIntSeries(factory, math.MinInt64, 1<<62, 4)

	//2^62, 0, -2^62, math.MinInt64
	reversedExtreme := newIntSeries(factory, 1<<62, -(1 << 62), 4)

	testCases := []struct {
		series   *Series
		value    *elem.Value
		expected bool
	}{
		{ints, factory.Int(14), true},
		{ints, factory.Int(10), true},
		{ints, factory.Int(18), true},
		{ints, factory.Int(15), false},
		{ints, factory.Int(8), false},
		{ints, factory.Int(20), false},
		{ints, factory.String("16"), true},
		{ints, factory.String("abc"), false},
		{ints, factory.Float(14), false},
		{floats, factory.Float(0.5), true},
		{floats, factory.Float(1), true},
		{floats, factory.Float(0.3), false},
		{floats, factory.Float(-0.25), false},
		{floats, factory.String("0.75"), true},
		{constant, factory.Int(4), true},
		{constant, factory.Int(5), false},
		{extreme, factory.Int(1 << 62), true},
		{extreme, factory.Int(0), true},
		{extreme, factory.Int(-(1 << 62)), true},
		{extreme, factory.Int(math.MinInt64), true},
		{extreme, factory.Int(1), false},
		{extreme, factory.Int(math.MaxInt64), false},
		{reversedExtreme, factory.Int(math.MinInt64), true},
		{reversedExtreme, factory.Int(1 << 62), true},
		{reversedExtreme, factory.Int(math.MaxInt64), false},
		{reversedExtreme, factory.Int(math.MinInt64 + 1), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.series.String()+" contains "+testCase.value.String(), func(t *testing.T) {
			found, err := testCase.series.Contains(testCase.value)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, found)
		})
	}
}

func TestNewLogsFailures(t *testing.T) {
	testconfig.AllowParallelization(t)

	var buf bytes.Buffer
	alloc, err := listrep.NewAllocator(listrep.Config{}, zerolog.New(&buf).Level(zerolog.DebugLevel))
	require.NoError(t, err)
	factory := elem.NewFactory(nil)

	l, err := New(alloc, factory, Params{})
	require.ErrorIs(t, err, ErrMissingBound)
	assert.Nil(t, l)

	assert.Contains(t, buf.String(), `"msg":"arithmetic series creation failed"`)
	assert.Contains(t, buf.String(), `"src":"allocator"`)
}

func TestSeriesList(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("range and reverse of the list", func(t *testing.T) {
		alloc, factory, tracker := newTestAllocator(t)

		l, err := NewInt(alloc, factory, 0, 1, 1000)
		require.NoError(t, err)

		r, err := l.Range(10, 14)
		require.NoError(t, err)
		require.IsType(t, &Series{}, r.Abstract())
		assert.Equal(t, []string{"10", "11", "12", "13", "14"}, contents(r))

		reversed, err := r.Reverse()
		require.NoError(t, err)
		require.IsType(t, &Series{}, reversed.Abstract())
		assert.Equal(t, []string{"14", "13", "12", "11", "10"}, contents(reversed))
		assert.Equal(t, []string{"10", "11", "12", "13", "14"}, contents(r))

		require.NoError(t, l.Trim(998, 2000))
		assert.Equal(t, []string{"998", "999"}, contents(l))

		l.Release()
		r.Release()
		reversed.Release()
		assert.NoError(t, tracker.CheckNoLeak())
	})

	t.Run("mutation materializes the series", func(t *testing.T) {
		alloc, factory, tracker := newTestAllocator(t)

		l, err := NewInt(alloc, factory, 10, 2, 5)
		require.NoError(t, err)
		dup := l.Dup()

		extra := factory.String("x")
		require.NoError(t, l.AppendElement(extra))

		assert.Nil(t, l.Abstract())
		assert.Equal(t, []string{"10", "12", "14", "16", "18", "x"}, contents(l))
		assert.Equal(t, []string{"10", "12", "14", "16", "18"}, contents(dup))
		assert.NotPanics(t, l.Validate)

		l.Release()
		dup.Release()
		assert.NoError(t, tracker.CheckNoLeak())
		assert.Zero(t, alloc.Stats().LiveStores)
	})
}
