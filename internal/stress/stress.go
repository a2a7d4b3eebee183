// Package stress runs random sequences of list operations and checks every result against a model made of plain
// slices. It also checks that the structure of the lists stays valid and that no reference is leaked.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/inoxlang/listrep/internal/arithseq"
	"github.com/inoxlang/listrep/internal/elem"
	"github.com/inoxlang/listrep/internal/listrep"
	"github.com/inoxlang/listrep/internal/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

const (
	DEFAULT_OPERATION_COUNT = 1000
	DEFAULT_MAX_LENGTH      = 200
	VALUE_POOL_SIZE         = 64
	MAX_INSERTED            = 8
	MAX_KEPT_LISTS          = 16
	RUN_ID_LOG_FIELD_NAME   = "run"
)

var (
	ErrInvalidStressConfig = errors.New("invalid stress configuration")
)

type Operation string

const (
	REPLACE Operation = "replace"
	APPEND  Operation = "append"
	SET     Operation = "set"
	TRIM    Operation = "trim"
	RANGE   Operation = "range"
	DUP     Operation = "dup"
	RELEASE Operation = "release"
	REVERSE Operation = "reverse"
	REPEAT  Operation = "repeat"
	SERIES  Operation = "series"
)

var (
	OPERATION_KINDS = []Operation{REPLACE, APPEND, SET, TRIM, RANGE, DUP, RELEASE, REVERSE, REPEAT, SERIES}

	// distribution of the random operations, replacements are twice as frequent.
	OPERATIONS = append([]Operation{REPLACE}, OPERATION_KINDS...)
)

type Config struct {
	Seed int64

	// Operations is the number of operations, DEFAULT_OPERATION_COUNT if zero.
	Operations int

	// MaxLength is the length above which operations that would grow the list are skipped, DEFAULT_MAX_LENGTH if zero.
	MaxLength int

	// Allocator is the configuration of the allocator, invariants are always checked.
	Allocator listrep.Config

	Logger zerolog.Logger
}

type Report struct {
	RunId      string            `json:"runId"`
	Seed       int64             `json:"seed"`
	Operations int               `json:"operations"`
	Counts     map[Operation]int `json:"counts"`
	Failures   []Failure         `json:"failures,omitempty"`

	LengthMean   float64 `json:"lengthMean"`
	LengthStdDev float64 `json:"lengthStdDev"`

	// durations are in microseconds
	OperationDurationMean   float64 `json:"operationDurationMean"`
	OperationDurationStdDev float64 `json:"operationDurationStdDev"`

	Duration   time.Duration     `json:"duration"`
	Allocator  listrep.Stats     `json:"allocator"`
	References elem.TrackerStats `json:"references"`
}

func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

type Failure struct {
	Operation     int       `json:"operation"` //index of the operation, -1 for the final checks
	OperationKind Operation `json:"operationKind,omitempty"`
	Message       string    `json:"message"`
}

// checkedList is a list and the slice of elements it should contain.
type checkedList struct {
	list  *listrep.List
	model []listrep.Elem
}

type run struct {
	config  Config
	random  *rand.Rand
	alloc   *listrep.Allocator
	factory *elem.Factory
	pool    []listrep.Elem
	logger  zerolog.Logger

	main checkedList
	kept []checkedList
}

// Run executes the operations and returns a report, the error is only about the configuration or the cancellation
// of ctx. The failures of the checks are listed in the report, the run stops at the first failure.
func Run(ctx context.Context, config Config) (*Report, error) {
	if config.Operations == 0 {
		config.Operations = DEFAULT_OPERATION_COUNT
	}
	if config.MaxLength == 0 {
		config.MaxLength = DEFAULT_MAX_LENGTH
	}
	if config.Operations < 0 || config.MaxLength < 0 {
		return nil, fmt.Errorf("%w: the number of operations and the max length should be positive", ErrInvalidStressConfig)
	}

	allocConfig := config.Allocator
	allocConfig.CheckInvariants = true

	runId := ulid.Make().String()
	logger := config.Logger.With().Str(RUN_ID_LOG_FIELD_NAME, runId).Logger()

	alloc, err := listrep.NewAllocator(allocConfig, logger)
	if err != nil {
		return nil, err
	}

	tracker := elem.NewTracker()
	r := &run{
		config:  config,
		random:  rand.New(rand.NewSource(config.Seed)),
		alloc:   alloc,
		factory: elem.NewFactory(tracker),
		logger:  logger,
	}

	report := &Report{
		RunId:      runId,
		Seed:       config.Seed,
		Operations: config.Operations,
		Counts:     map[Operation]int{},
	}

	logger.Info().Int64("seed", config.Seed).Int("operations", config.Operations).Msg("stress run started")
	start := time.Now()

	values := r.factory.Ints(0, VALUE_POOL_SIZE/2)
	values = append(values, r.factory.Strings("a", "b", "c", "d")...)
	for _, v := range values {
		v.IncrRef()
	}
	r.pool = elem.Elems(values)

	lengths := make([]float64, 0, config.Operations)
	durations := make([]float64, 0, config.Operations)

	initial := r.randomElems(MAX_INSERTED * 2)
	r.main.list, err = alloc.NewWithLayout(initial, r.random.Intn(10), r.random.Intn(10)+1)
	if err != nil {
		report.Failures = append(report.Failures, Failure{Operation: -1, Message: err.Error()})
	}
	r.main.model = initial

	for i := 0; i < config.Operations && report.OK() && r.main.list != nil; i++ {
		if err := ctx.Err(); err != nil {
			r.releaseAll()
			return nil, err
		}

		operation := OPERATIONS[r.random.Intn(len(OPERATIONS))]
		report.Counts[operation]++

		opStart := time.Now()
		var err error
		if panicErr := utils.Catch(func() { err = r.apply(operation) }); panicErr != nil {
			err = panicErr
		}
		durations = append(durations, float64(time.Since(opStart).Microseconds()))

		if err == nil {
			err = r.check(&r.main)
		}

		if err != nil {
			logger.Error().Err(err).Int("operation", i).Str("kind", string(operation)).Msg("check failed")
			report.Failures = append(report.Failures, Failure{Operation: i, OperationKind: operation, Message: err.Error()})
			break
		}
		lengths = append(lengths, float64(r.main.list.Len()))
	}

	for i := range r.kept {
		if !report.OK() {
			break
		}
		if err := r.check(&r.kept[i]); err != nil {
			report.Failures = append(report.Failures, Failure{Operation: -1, Message: "kept list: " + err.Error()})
		}
	}

	r.releaseAll()

	if report.OK() {
		if err := tracker.CheckNoLeak(); err != nil {
			report.Failures = append(report.Failures, Failure{Operation: -1, Message: err.Error()})
		}
		if live := alloc.Stats().LiveStores; live != 0 {
			report.Failures = append(report.Failures, Failure{Operation: -1, Message: fmt.Sprintf("%d store(s) not freed", live)})
		}
	}

	report.LengthMean, report.LengthStdDev = meanStdDev(lengths)
	report.OperationDurationMean, report.OperationDurationStdDev = meanStdDev(durations)
	report.Duration = time.Since(start)
	report.Allocator = alloc.Stats()
	report.References = tracker.Stats()

	logger.Info().Bool("ok", report.OK()).Dur("duration", report.Duration).Msg("stress run finished")
	return report, nil
}

func (r *run) apply(operation Operation) error {
	l := r.main.list
	model := r.main.model
	length := len(model)

	r.logger.Trace().Str("kind", string(operation)).Int("length", length).Msg("operation")

	switch operation {
	case REPLACE:
		first := r.random.Intn(length+3) - 1
		numToDelete := r.random.Intn(5) - 1
		inserted := r.randomElemsIfRoom(length)
		if err := l.Replace(first, numToDelete, inserted); err != nil {
			return err
		}
		r.main.model = utils.ReplaceInSlice(model, first, numToDelete, inserted)
	case APPEND:
		inserted := r.randomElemsIfRoom(length)
		if err := l.AppendElements(inserted); err != nil {
			return err
		}
		r.main.model = append(model[:length:length], inserted...)
	case SET:
		if length == 0 {
			return nil
		}
		index := r.random.Intn(length)
		e := r.pool[r.random.Intn(len(r.pool))]
		if err := l.SetElement(index, e); err != nil {
			return err
		}
		r.main.model = utils.ReplaceInSlice(model, index, 1, []listrep.Elem{e})
	case TRIM:
		first := r.random.Intn(length + 1)
		last := first + r.random.Intn(length+1-first) - 1
		if err := l.Trim(first, last); err != nil {
			return err
		}
		r.main.model = model[first : last+1 : last+1]
	case RANGE:
		first := r.random.Intn(length + 1)
		last := first + r.random.Intn(length+1-first) - 1
		result, err := l.Range(first, last)
		if err != nil {
			return err
		}
		r.keep(checkedList{list: result, model: model[first : last+1 : last+1]})
	case DUP:
		r.keep(checkedList{list: l.Dup(), model: model})
	case RELEASE:
		if len(r.kept) == 0 {
			return nil
		}
		index := r.random.Intn(len(r.kept))
		if err := r.check(&r.kept[index]); err != nil {
			return fmt.Errorf("kept list: %w", err)
		}
		r.kept[index].list.Release()
		r.kept = slices.Delete(r.kept, index, index+1)
	case REVERSE:
		result, err := l.Reverse()
		if err != nil {
			return err
		}
		r.keep(checkedList{list: result, model: utils.ReversedSlice(model)})
	case REPEAT:
		count := 0
		if length > 0 {
			count = r.random.Intn(min(4, r.config.MaxLength/length+1))
		}
		result, err := l.Repeat(count)
		if err != nil {
			return err
		}
		r.keep(checkedList{list: result, model: utils.RepeatSlice(model, count)})
	case SERIES:
		if length >= r.config.MaxLength {
			return nil
		}
		count := int64(r.random.Intn(min(MAX_INSERTED, r.config.MaxLength-length) + 1))
		series, err := arithseq.NewInt(r.alloc, r.factory, int64(r.random.Intn(100)-50), int64(r.random.Intn(7)-3), count)
		if err != nil {
			return err
		}
		defer series.Release()

		if err := l.AppendList(series); err != nil {
			return err
		}
		view, err := series.Elements()
		if err != nil {
			return err
		}
		r.main.model = append(model[:length:length], view.Slice()...)
	default:
		return fmt.Errorf("unknown operation %q", operation)
	}
	return nil
}

// keep adds a list to the kept lists, the oldest kept list is checked and released if there are too many.
func (r *run) keep(c checkedList) {
	if len(r.kept) >= MAX_KEPT_LISTS {
		oldest := r.kept[0]
		if err := r.check(&oldest); err != nil {
			c.list.Release()
			panic(fmt.Errorf("kept list: %w", err))
		}
		oldest.list.Release()
		r.kept = r.kept[1:]
	}
	r.kept = append(r.kept, c)
}

// check compares the list with its model and validates its structure.
func (r *run) check(c *checkedList) error {
	if c.list.Len() != len(c.model) {
		return fmt.Errorf("length is %d instead of %d", c.list.Len(), len(c.model))
	}
	for i, expected := range c.model {
		e, ok := c.list.Index(i)
		if !ok {
			return fmt.Errorf("missing element at index %d", i)
		}
		if fmt.Sprint(e) != fmt.Sprint(expected) {
			return fmt.Errorf("element at index %d is %v instead of %v", i, e, expected)
		}
	}
	return utils.Catch(c.list.Validate)
}

func (r *run) randomElems(maxLen int) []listrep.Elem {
	elems := make([]listrep.Elem, r.random.Intn(maxLen+1))
	for i := range elems {
		elems[i] = r.pool[r.random.Intn(len(r.pool))]
	}
	return elems
}

// randomElemsIfRoom returns random elements, no more than what can be added to a list of the given length.
func (r *run) randomElemsIfRoom(length int) []listrep.Elem {
	room := r.config.MaxLength - length
	if room <= 0 {
		return nil
	}
	return r.randomElems(min(MAX_INSERTED, room))
}

func (r *run) releaseAll() {
	for _, c := range r.kept {
		c.list.Release()
	}
	r.kept = nil

	if r.main.list != nil {
		r.main.list.Release()
	}

	for _, e := range r.pool {
		e.DecrRef()
	}
	r.pool = nil
}

// meanStdDev returns a standard deviation of zero if there are less than two samples.
func meanStdDev(samples []float64) (mean, stdDev float64) {
	switch len(samples) {
	case 0:
		return 0, 0
	case 1:
		return samples[0], 0
	}
	return stat.MeanStdDev(samples, nil)
}
