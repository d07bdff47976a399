// Package process implements the series processors and the fixed-order
// pipeline that chains them.
//
// Processors form a closed set of kinds. Each kind reads its parameters from
// the shared Config payload and is dispatched through Apply. A disabled
// processor is the identity.
package process

import (
	"context"
	"math"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

// Kind enumerates the processors.
type Kind int

const (
	KindInvalid Kind = iota
	KindRangeFilter
	KindMovingAverage
	KindDuplicateFilter
)

// Default parameters.
const (
	DefaultLower  = -999999.0
	DefaultUpper  = 999999.0
	DefaultWindow = 5
	MinWindow     = 2
)

func (k Kind) String() string {
	switch k {
	case KindRangeFilter:
		return "range_filter"
	case KindMovingAverage:
		return "moving_average"
	case KindDuplicateFilter:
		return "duplicate_filter"
	default:
		return "invalid"
	}
}

// Config is the mutable state of one processor. Lower and Upper apply to
// KindRangeFilter, Window to KindMovingAverage.
type Config struct {
	Kind    Kind
	Enabled bool
	Lower   float64
	Upper   float64
	Window  int
}

// DefaultConfig returns the disabled default configuration for k.
func DefaultConfig(k Kind) Config {
	c := Config{Kind: k}
	switch k {
	case KindRangeFilter:
		c.Lower, c.Upper = DefaultLower, DefaultUpper
	case KindMovingAverage:
		c.Window = DefaultWindow
	}
	return c
}

// Validate checks the parameters relevant to c.Kind.
func (c Config) Validate() error {
	switch c.Kind {
	case KindRangeFilter:
		if math.IsNaN(c.Lower) || math.IsNaN(c.Upper) {
			return errhandling.NewConfigurationError("range bounds must be numbers")
		}
		if c.Lower > c.Upper {
			return errhandling.NewConfigurationError("lower bound %g exceeds upper bound %g", c.Lower, c.Upper)
		}
	case KindMovingAverage:
		if c.Window < MinWindow {
			return errhandling.NewConfigurationError("window size %d is below %d", c.Window, MinWindow)
		}
	case KindDuplicateFilter:
	default:
		return errhandling.NewConfigurationError("unknown processor kind %d", int(c.Kind))
	}
	return nil
}

// Apply runs the processor described by cfg over s.
func Apply(ctx context.Context, cfg Config, s frame.Series) (frame.Series, error) {
	if err := ctx.Err(); err != nil {
		return frame.Series{}, err
	}
	if !cfg.Enabled {
		return s, nil
	}
	if err := cfg.Validate(); err != nil {
		return frame.Series{}, err
	}
	switch cfg.Kind {
	case KindRangeFilter:
		return rangeFilter(cfg.Lower, cfg.Upper, s), nil
	case KindMovingAverage:
		return movingAverage(cfg.Window, s)
	default:
		return dropConsecutiveDuplicates(s), nil
	}
}
