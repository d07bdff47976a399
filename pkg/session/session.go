// Package session holds the interactive state: the loaded table, the
// selected column and the processor pipeline. Every load, column change and
// committed configuration change recomputes the output and publishes it to
// subscribers.
//
// A Session is not safe for concurrent use; it is owned by the UI loop.
package session

import (
	"context"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/logger"
	"github.com/wdm0006/seriesscope/pkg/process"
)

// Update is published after every recomputation. When Err is set, Raw and
// Processed are empty and the previous good output stays in Last.
type Update struct {
	Column    string
	Raw       frame.Series
	Processed frame.Series
	Err       error
}

type Session struct {
	ctx      context.Context
	table    *frame.Frame
	column   string
	pipeline *process.Pipeline
	subs     map[int]func(Update)
	nextID   int
	last     Update
	loading  bool
	batching bool
	stale    bool // configuration changed during a load
}

func New(ctx context.Context) *Session {
	s := &Session{ctx: ctx, pipeline: process.NewPipeline(), subs: make(map[int]func(Update))}
	s.pipeline.Observe(func(c process.Change) {
		if s.batching {
			return
		}
		if s.loading {
			s.stale = true
			return
		}
		logger.WithProcessor(c.Kind.String()).Debug("configuration changed",
			"enabled", c.Config.Enabled, "lower", c.Config.Lower, "upper", c.Config.Upper, "window", c.Config.Window)
		s.recompute()
	})
	return s
}

// Pipeline exposes the processor configuration getters and setters.
func (s *Session) Pipeline() *process.Pipeline { return s.pipeline }

func (s *Session) Table() *frame.Frame { return s.table }
func (s *Session) Column() string      { return s.column }

// Last returns the most recent successful update.
func (s *Session) Last() Update { return s.last }

// Loading reports whether a load is in progress.
func (s *Session) Loading() bool { return s.loading }

// Columns lists the selectable columns of the loaded table.
func (s *Session) Columns() []string {
	if s.table == nil {
		return nil
	}
	return s.table.Selectable()
}

// Subscribe registers fn for updates and returns a function removing it.
func (s *Session) Subscribe(fn func(Update)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// BeginLoad marks a load as pending. Loads and column changes are rejected
// until EndLoad. Configuration edits are accepted but not applied to the
// current table until EndLoad.
func (s *Session) BeginLoad() error {
	if s.loading {
		return errhandling.NewBusyError("load")
	}
	s.loading = true
	return nil
}

// EndLoad finishes a pending load. On loadErr the previous table is kept and
// recomputed if the configuration changed meanwhile.
func (s *Session) EndLoad(t *frame.Frame, loadErr error) error {
	s.loading = false
	stale := s.stale
	s.stale = false
	err := loadErr
	if err == nil {
		if err = s.Load(t); err == nil {
			return nil
		}
	}
	logger.Warn("load failed", "error", err)
	if stale {
		s.recompute()
	}
	return err
}

// LoadFile reads path and loads it synchronously. Front ends that must stay
// responsive call BeginLoad, read the file elsewhere, then EndLoad.
func (s *Session) LoadFile(path string, opt tableio.LoadOptions) error {
	if err := s.BeginLoad(); err != nil {
		return err
	}
	t, err := tableio.Load(path, opt)
	return s.EndLoad(t, err)
}

// Load replaces the table. The previous column stays selected when the new
// table offers it; otherwise the first selectable column is chosen.
func (s *Session) Load(t *frame.Frame) error {
	if s.loading {
		return errhandling.NewBusyError("load")
	}
	if t == nil || len(t.Selectable()) == 0 {
		return errhandling.NewInputError(nil, "table has no numeric columns besides the timestamp")
	}
	s.table = t
	next := t.Selectable()[0]
	for _, name := range t.Selectable() {
		if name == s.column {
			next = name
			break
		}
	}
	logger.Info("table loaded", "rows", t.Rows(), "columns", t.Cols(), "timestamp", t.TimestampColumn())
	s.column = ""
	return s.selectColumn(next)
}

// SelectColumn switches to column, resets the range filter to the column's
// bounds with the filter disabled, and recomputes.
func (s *Session) SelectColumn(column string) error {
	if s.loading {
		return errhandling.NewBusyError("column change")
	}
	if s.table == nil {
		return errhandling.NewColumnNotFoundError(column)
	}
	return s.selectColumn(column)
}

func (s *Session) selectColumn(column string) error {
	raw, err := s.table.Series(column)
	if err != nil {
		return err
	}
	s.column = column

	lower, upper, err := process.SuggestBounds(raw)
	if err != nil {
		logger.WithColumn(column).Warn("cannot suggest bounds", "error", err)
		lower, upper = process.DefaultLower, process.DefaultUpper
	}
	s.batching = true
	err = s.pipeline.ResetBounds(lower, upper)
	s.batching = false
	if err != nil {
		return err
	}
	s.recompute()
	return nil
}

// Recompute reruns the pipeline on the current column and publishes the
// result. It returns the error also carried by the published update.
func (s *Session) Recompute() error {
	return s.recompute()
}

func (s *Session) recompute() error {
	if s.table == nil {
		return nil
	}
	raw, processed, err := process.Recompute(s.ctx, s.table, s.column, s.pipeline)
	u := Update{Column: s.column, Raw: raw, Processed: processed, Err: err}
	if err != nil {
		logger.WithColumn(s.column).Warn("recompute failed", "error", err)
		u.Raw, u.Processed = frame.Series{}, frame.Series{}
	} else {
		logger.WithColumn(s.column).Debug("recomputed", "raw", raw.Len(), "processed", processed.Len())
		s.last = u
	}
	for _, fn := range s.subs {
		fn(u)
	}
	return err
}
