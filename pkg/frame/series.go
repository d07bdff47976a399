package frame

import "math"

// Series is an immutable ordered sequence of nullable float64 values read
// from one table column. Transformations return new Series.
type Series struct {
	name   string
	values []float64
	valid  []bool
}

// NewSeries copies values and validity flags into a Series. A nil valid
// slice marks every non-NaN value as present.
func NewSeries(name string, values []float64, valid []bool) Series {
	s := Series{name: name, values: make([]float64, len(values)), valid: make([]bool, len(values))}
	copy(s.values, values)
	for i, v := range values {
		ok := !math.IsNaN(v)
		if valid != nil {
			ok = ok && valid[i]
		}
		s.valid[i] = ok
		if !ok {
			s.values[i] = 0
		}
	}
	return s
}

// FromFloats builds a Series treating NaN as null.
func FromFloats(name string, values ...float64) Series {
	return NewSeries(name, values, nil)
}

func (s Series) Name() string { return s.name }
func (s Series) Len() int     { return len(s.values) }

// At returns the value at i and whether it is non-null.
func (s Series) At(i int) (float64, bool) { return s.values[i], s.valid[i] }

// IsNull reports whether position i is null.
func (s Series) IsNull(i int) bool { return !s.valid[i] }

// Floats returns a copy of the values with NaN in null positions.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		if !s.valid[i] {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Present returns the non-null values in order.
func (s Series) Present() []float64 {
	out := make([]float64, 0, len(s.values))
	for i, v := range s.values {
		if s.valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether both series hold the same values and nulls.
func (s Series) Equal(o Series) bool {
	if len(s.values) != len(o.values) {
		return false
	}
	for i := range s.values {
		if s.valid[i] != o.valid[i] {
			return false
		}
		if s.valid[i] && s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// Builder accumulates values for a new Series.
type Builder struct {
	name   string
	values []float64
	valid  []bool
}

func NewBuilder(name string, capacity int) *Builder {
	return &Builder{name: name, values: make([]float64, 0, capacity), valid: make([]bool, 0, capacity)}
}

func (b *Builder) Append(v float64) { b.values = append(b.values, v); b.valid = append(b.valid, true) }
func (b *Builder) AppendNull()      { b.values = append(b.values, 0); b.valid = append(b.valid, false) }

// Series hands the accumulated slices to a Series; the builder must not be
// reused afterwards.
func (b *Builder) Series() Series {
	s := Series{name: b.name, values: b.values, valid: b.valid}
	b.values, b.valid = nil, nil
	return s
}
