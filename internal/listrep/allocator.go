package listrep

import (
	"github.com/rs/zerolog"
)

// AllocFlags control the behavior of store allocation: failure handling and placement of the extra space.
type AllocFlags uint8

const (
	// PANIC_ON_FAIL makes allocation failures panic with the *LimitError or *AllocError instead of returning it.
	PANIC_ON_FAIL AllocFlags = 1 << iota

	// The SPACE_* flags request extra capacity and tell where to put it, the store is sized exactly without them.
	SPACE_FAVOR_FRONT
	SPACE_FAVOR_BACK
	SPACE_ONLY_BACK

	SPACE_FAVOR_NONE = SPACE_FAVOR_FRONT | SPACE_FAVOR_BACK
	SPACE_FLAGS      = SPACE_FAVOR_FRONT | SPACE_FAVOR_BACK | SPACE_ONLY_BACK
)

func (f AllocFlags) spaceFlags() AllocFlags {
	return f & SPACE_FLAGS
}

func (f AllocFlags) String() string {
	switch f.spaceFlags() {
	case SPACE_FAVOR_FRONT:
		return "front"
	case SPACE_FAVOR_BACK:
		return "back"
	case SPACE_ONLY_BACK:
		return "only-back"
	case SPACE_FAVOR_NONE:
		return "none"
	}
	return "exact"
}

// An Allocator creates and grows the stores of lists, it also keeps track of the simulated memory in use.
// All lists sharing a store must have been created by the same allocator. An Allocator is not safe for
// concurrent use, lists created by an allocator should be used by a single goroutine at a time.
type Allocator struct {
	config      Config
	logger      zerolog.Logger
	nextStoreId uint64
	stats       Stats
}

type Stats struct {
	Allocations     int64 `json:"allocations"`
	Reallocations   int64 `json:"reallocations"`
	RefusedAttempts int64 `json:"refusedAttempts"`
	Frees           int64 `json:"frees"`
	LiveStores      int64 `json:"liveStores"`
	SpansCreated    int64 `json:"spansCreated"`
	SpansFreed      int64 `json:"spansFreed"`
	BytesInUse      int64 `json:"bytesInUse"`
	PeakBytesInUse  int64 `json:"peakBytesInUse"`
}

func NewAllocator(config Config, logger zerolog.Logger) (*Allocator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Allocator{
		config: config.WithDefaults(),
		logger: ChildLoggerForSource(logger, ALLOCATOR_LOG_SOURCE),
	}, nil
}

// NewDefaultAllocator returns an allocator with the default configuration and no logging.
func NewDefaultAllocator() *Allocator {
	return &Allocator{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

func (a *Allocator) Config() Config {
	return a.config
}

func (a *Allocator) Logger() zerolog.Logger {
	return a.logger
}

func (a *Allocator) Stats() Stats {
	return a.stats
}

// MaxLength returns the maximum length of the lists created by the allocator.
func (a *Allocator) MaxLength() int {
	return a.config.MaxLength
}

func storeSize(capacity int) int64 {
	return STORE_HEADER_SIZE + int64(capacity)*SLOT_SIZE
}

func (a *Allocator) limitError(requested int) *LimitError {
	a.logger.Warn().Int("requested", requested).Int("max", a.config.MaxLength).Msg("max list length exceeded")
	return &LimitError{Requested: requested, Max: a.config.MaxLength}
}

func (a *Allocator) allocError(capacity int) *AllocError {
	err := &AllocError{Bytes: storeSize(capacity)}
	a.logger.Warn().Int64("bytes", err.Bytes).Int64("in-use", a.stats.BytesInUse).Msg("list allocation failed")
	return err
}

// reserve accounts for a store going from previousCapacity (0 for a new store) to capacity,
// it returns false if the memory limit would be exceeded.
func (a *Allocator) reserve(capacity, previousCapacity int) bool {
	delta := storeSize(capacity)
	if previousCapacity > 0 {
		delta -= storeSize(previousCapacity)
	}

	if a.config.MemoryLimit > 0 && a.stats.BytesInUse+delta > a.config.MemoryLimit {
		a.stats.RefusedAttempts++
		a.logger.Debug().Int("capacity", capacity).Int64("in-use", a.stats.BytesInUse).Msg("allocation attempt refused")
		return false
	}

	a.stats.BytesInUse += delta
	a.stats.PeakBytesInUse = max(a.stats.PeakBytesInUse, a.stats.BytesInUse)
	return true
}

// upsize returns the first capacity to try when extra space is wanted.
func (a *Allocator) upsize(needed, limit int) int {
	extra := needed / a.config.GrowthDivisor
	if needed < limit-extra {
		return needed + extra
	}
	return limit
}

// upsizeRetry returns the next capacity to try after a failed attempt, halfway between needed and the last attempt.
func upsizeRetry(needed, lastAttempt int) int {
	if needed < lastAttempt-1 {
		return needed + (lastAttempt-needed)/2
	}
	return needed
}

// reserveCapacity tries decreasing up-sized capacities if extraSpace is true, the exact size is the last resort.
func (a *Allocator) reserveCapacity(needed, previousCapacity int, extraSpace bool) (int, bool) {
	if extraSpace {
		attempt := a.upsize(needed, a.config.MaxLength)
		for attempt > needed {
			if a.reserve(attempt, previousCapacity) {
				return attempt, true
			}
			attempt = upsizeRetry(needed, attempt)
		}
	}

	if a.reserve(needed, previousCapacity) {
		return needed, true
	}
	return 0, false
}

// NewStore allocates a store with room for at least count elements, if elems is not nil the store is initialized
// with them (count is then the number of elements) and their reference count is incremented. The returned store
// has a reference count of zero.
func (a *Allocator) NewStore(count int, elems []Elem, flags AllocFlags) (*Store, error) {
	if elems != nil {
		count = len(elems)
	}

	if count > a.config.MaxLength {
		err := a.limitError(count)
		if flags&PANIC_ON_FAIL != 0 {
			panic(err)
		}
		return nil, err
	}

	needed := max(count, 1)
	capacity, ok := a.reserveCapacity(needed, 0, flags.spaceFlags() != 0)
	if !ok {
		err := a.allocError(needed)
		if flags&PANIC_ON_FAIL != 0 {
			panic(err)
		}
		return nil, err
	}

	a.nextStoreId++
	store := &Store{
		id:    a.nextStoreId,
		slots: make([]Elem, capacity),
	}

	if extra := capacity - needed; extra > 0 {
		switch flags.spaceFlags() {
		case SPACE_ONLY_BACK:
			store.firstUsed = 0
		case SPACE_FAVOR_FRONT:
			store.firstUsed = extra - extra/4 //not the same as 3*extra/4
		case SPACE_FAVOR_BACK:
			store.firstUsed = extra / 4
		default:
			store.firstUsed = extra / 2
		}
	}

	if elems != nil {
		store.numUsed = count
		copyIn(store.slots[store.firstUsed:], elems)
	}

	a.stats.Allocations++
	a.stats.LiveStores++

	a.logger.Debug().
		Uint64("store", store.id).
		Int("requested", count).
		Int("capacity", capacity).
		Int("first-used", store.firstUsed).
		Stringer("favor", flags).
		Msg("store allocated")

	return store, nil
}

// Reallocate grows the capacity of the store to at least needed slots, an up-sized capacity is tried first.
// The first used slot and the number of used slots do not change. Views of the store are invalidated.
func (a *Allocator) Reallocate(store *Store, needed int) error {
	if needed > a.config.MaxLength {
		return a.limitError(needed)
	}
	if needed <= store.Capacity() {
		return nil
	}

	previousCapacity := store.Capacity()
	capacity, ok := a.reserveCapacity(needed, previousCapacity, true)
	if !ok {
		return a.allocError(needed)
	}

	slots := make([]Elem, capacity)
	copy(slots[store.firstUsed:], store.used())
	store.slots = slots
	store.touch()

	a.stats.Reallocations++

	a.logger.Debug().
		Uint64("store", store.id).
		Int("needed", needed).
		Int("previous-capacity", previousCapacity).
		Int("capacity", capacity).
		Msg("store reallocated")
	return nil
}

// freeStore releases the elements of a store whose reference count dropped to zero.
func (a *Allocator) freeStore(store *Store) {
	releaseAll(store.used())
	a.stats.BytesInUse -= storeSize(store.Capacity())
	a.stats.Frees++
	a.stats.LiveStores--

	store.slots = nil
	store.firstUsed = 0
	store.numUsed = 0
	store.freed = true
	store.touch()

	a.logger.Debug().Uint64("store", store.id).Msg("store freed")
}

func (a *Allocator) newSpan(store *Store, start, length int) *Span {
	a.stats.SpansCreated++
	a.logger.Debug().Uint64("store", store.id).Int("start", start).Int("length", length).Msg("span created")

	return &Span{start: start, length: length}
}

// spanMerited tells whether a range of the given length should share the store through a span rather than
// being copied: a span keeps the whole store alive so the range has to cover a large part of it.
func (a *Allocator) spanMerited(length, usedStorageLength, allocatedStorageLength int) bool {
	if length < a.config.SpanThreshold {
		return false
	}
	if length < allocatedStorageLength/8*a.config.SpanCapacityEighths {
		return false
	}
	if length < usedStorageLength/2 {
		return false
	}
	return true
}
