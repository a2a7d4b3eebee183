package listrep

import (
	"errors"
	"fmt"
	"math"

	"github.com/inoxlang/listrep/internal/utils"
)

const (
	// simulated size of a slot and of a store header, used to compute byte counts.
	SLOT_SIZE         = 16
	STORE_HEADER_SIZE = 64

	// MAX_LENGTH is the architectural ceiling of the length of a list,
	// it prevents the byte size of a store from overflowing.
	MAX_LENGTH = (math.MaxInt - STORE_HEADER_SIZE) / SLOT_SIZE

	DEFAULT_SPAN_THRESHOLD        = 101
	DEFAULT_SPAN_CAPACITY_EIGHTHS = 3
	DEFAULT_SHRINK_DIVISOR        = 4
	DEFAULT_GROWTH_DIVISOR        = 2

	REVERSE_LENGTH_THRESHOLD = 100
	REPEAT_LENGTH_THRESHOLD  = 100
)

var (
	ErrInvalidConfig = errors.New("invalid list configuration")
)

// Config holds the limits and the heuristic tunables of an Allocator, the zero value is valid and
// means "use the defaults". None of the tunables affects the content of lists, only their layout.
type Config struct {
	// MaxLength lowers the maximum length of lists, 0 means MAX_LENGTH.
	MaxLength int `yaml:"max-length" json:"maxLength" env:"MAX_LENGTH"`

	// MemoryLimit is the number of bytes the allocator can hand out, 0 means unlimited.
	MemoryLimit int64 `yaml:"memory-limit" json:"memoryLimit" env:"MEMORY_LIMIT"`

	// SpanThreshold is the minimum length of a range for it to be shared through a span.
	SpanThreshold int `yaml:"span-threshold" json:"spanThreshold" env:"SPAN_THRESHOLD"`

	// SpanCapacityEighths is the minimum fraction (in eighths) of the capacity of a store
	// that a range has to cover to be shared through a span.
	SpanCapacityEighths int `yaml:"span-capacity-eighths" json:"spanCapacityEighths" env:"SPAN_CAPACITY_EIGHTHS"`

	// A store is replaced by a fresh one when the new length of a list is smaller than capacity/ShrinkDivisor.
	ShrinkDivisor int `yaml:"shrink-divisor" json:"shrinkDivisor" env:"SHRINK_DIVISOR"`

	// Capacity is grown by needed/GrowthDivisor when extra space is requested.
	GrowthDivisor int `yaml:"growth-divisor" json:"growthDivisor" env:"GROWTH_DIVISOR"`

	// CheckInvariants makes every operation validate the list it returns or modifies.
	CheckInvariants bool `yaml:"check-invariants" json:"checkInvariants" env:"CHECK_INVARIANTS"`

	// CheckViews makes element views panic when used after a mutation of their store.
	CheckViews bool `yaml:"check-views" json:"checkViews" env:"CHECK_VIEWS"`
}

func DefaultConfig() Config {
	return Config{
		MaxLength:           MAX_LENGTH,
		SpanThreshold:       DEFAULT_SPAN_THRESHOLD,
		SpanCapacityEighths: DEFAULT_SPAN_CAPACITY_EIGHTHS,
		ShrinkDivisor:       DEFAULT_SHRINK_DIVISOR,
		GrowthDivisor:       DEFAULT_GROWTH_DIVISOR,
	}
}

// WithDefaults returns a copy of the configuration with the unset fields set to their default value.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.MaxLength == 0 {
		c.MaxLength = defaults.MaxLength
	}
	if c.SpanThreshold == 0 {
		c.SpanThreshold = defaults.SpanThreshold
	}
	if c.SpanCapacityEighths == 0 {
		c.SpanCapacityEighths = defaults.SpanCapacityEighths
	}
	if c.ShrinkDivisor == 0 {
		c.ShrinkDivisor = defaults.ShrinkDivisor
	}
	if c.GrowthDivisor == 0 {
		c.GrowthDivisor = defaults.GrowthDivisor
	}
	return c
}

func (c Config) Validate() error {
	var errs []error

	if c.MaxLength < 0 || c.MaxLength > MAX_LENGTH {
		errs = append(errs, fmt.Errorf("max length should be in range [1, %d] (or 0 for the default), got %d", MAX_LENGTH, c.MaxLength))
	}
	if c.MemoryLimit < 0 {
		errs = append(errs, fmt.Errorf("memory limit should be positive, got %d", c.MemoryLimit))
	}
	if c.SpanThreshold < 0 {
		errs = append(errs, fmt.Errorf("span threshold should be positive, got %d", c.SpanThreshold))
	}
	if c.SpanCapacityEighths < 0 || c.SpanCapacityEighths > 8 {
		errs = append(errs, fmt.Errorf("span capacity eighths should be in range [0, 8], got %d", c.SpanCapacityEighths))
	}
	if c.ShrinkDivisor < 0 {
		errs = append(errs, fmt.Errorf("shrink divisor should be positive, got %d", c.ShrinkDivisor))
	}
	if c.GrowthDivisor < 0 {
		errs = append(errs, fmt.Errorf("growth divisor should be positive, got %d", c.GrowthDivisor))
	}

	if err := utils.CombineErrors(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
