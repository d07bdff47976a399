package process

import (
	"context"
	"fmt"

	"github.com/wdm0006/seriesscope/pkg/frame"
)

// Order is the fixed processing order. Filtering before averaging gives
// different results than the reverse, so the order is part of the contract.
var Order = [...]Kind{KindRangeFilter, KindMovingAverage, KindDuplicateFilter}

// Change is emitted after a committed configuration edit.
type Change struct {
	Kind   Kind
	Config Config
}

// Pipeline holds one Config per processor in Order and notifies observers
// when any of them changes.
type Pipeline struct {
	steps     [len(Order)]Config
	observers map[int]func(Change)
	nextID    int
}

func NewPipeline() *Pipeline {
	p := &Pipeline{observers: make(map[int]func(Change))}
	for i, k := range Order {
		p.steps[i] = DefaultConfig(k)
	}
	return p
}

// Observe registers fn for change events and returns a function removing it.
func (p *Pipeline) Observe(fn func(Change)) (cancel func()) {
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	return func() { delete(p.observers, id) }
}

// Steps returns the configurations in processing order.
func (p *Pipeline) Steps() []Config {
	out := make([]Config, len(p.steps))
	copy(out, p.steps[:])
	return out
}

// Config returns the configuration of k.
func (p *Pipeline) Config(k Kind) Config {
	if i := indexOf(k); i >= 0 {
		return p.steps[i]
	}
	return Config{}
}

// Set validates and commits cfg, replacing the configuration of cfg.Kind.
// Observers are notified only when the configuration actually changed.
func (p *Pipeline) Set(cfg Config) error {
	i := indexOf(cfg.Kind)
	if i < 0 {
		return cfg.Validate()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if p.steps[i] == cfg {
		return nil
	}
	p.steps[i] = cfg
	for _, fn := range p.observers {
		fn(Change{Kind: cfg.Kind, Config: cfg})
	}
	return nil
}

// SetEnabled toggles processor k.
func (p *Pipeline) SetEnabled(k Kind, enabled bool) error {
	c := p.Config(k)
	c.Kind = k
	c.Enabled = enabled
	return p.Set(c)
}

// SetBounds commits new range filter bounds without touching its toggle.
func (p *Pipeline) SetBounds(lower, upper float64) error {
	c := p.Config(KindRangeFilter)
	c.Lower, c.Upper = lower, upper
	return p.Set(c)
}

// ResetBounds replaces the range filter bounds and disables it.
func (p *Pipeline) ResetBounds(lower, upper float64) error {
	return p.Set(Config{Kind: KindRangeFilter, Lower: lower, Upper: upper})
}

// SetWindow commits a new moving average window.
func (p *Pipeline) SetWindow(w int) error {
	c := p.Config(KindMovingAverage)
	c.Window = w
	return p.Set(c)
}

// Run applies every step in order, threading each output into the next.
func (p *Pipeline) Run(ctx context.Context, s frame.Series) (frame.Series, error) {
	var err error
	cur := s
	for _, cfg := range p.steps {
		cur, err = Apply(ctx, cfg, cur)
		if err != nil {
			return frame.Series{}, fmt.Errorf("%s: %w", cfg.Kind, err)
		}
	}
	return cur, nil
}

// Recompute reads column from table and runs it through p.
func Recompute(ctx context.Context, table *frame.Frame, column string, p *Pipeline) (raw, processed frame.Series, err error) {
	raw, err = table.Series(column)
	if err != nil {
		return frame.Series{}, frame.Series{}, err
	}
	processed, err = p.Run(ctx, raw)
	if err != nil {
		return raw, frame.Series{}, err
	}
	return raw, processed, nil
}

func indexOf(k Kind) int {
	for i, o := range Order {
		if o == k {
			return i
		}
	}
	return -1
}
