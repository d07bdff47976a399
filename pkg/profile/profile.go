// Package profile computes numeric summaries of series and tables.
package profile

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Summarize profiles the non-null values of s. Min, Max and Mean are zero
// when Count is zero; use Bounds when that case must be an error.
func Summarize(s frame.Series) NumStats {
	present := s.Present()
	st := NumStats{Count: len(present), Nulls: s.Len() - len(present)}
	if len(present) == 0 {
		return st
	}
	st.Min = floats.Min(present)
	st.Max = floats.Max(present)
	st.Mean = stat.Mean(present, nil)
	return st
}

// Bounds returns the minimum and maximum non-null values of s.
func Bounds(s frame.Series) (lo, hi float64, err error) {
	present := s.Present()
	if len(present) == 0 {
		return 0, 0, errhandling.NewEmptyInputError("column %q has no values", s.Name())
	}
	return floats.Min(present), floats.Max(present), nil
}

type ColumnProfile struct {
	Name string     `json:"name"`
	Kind frame.Kind `json:"kind"`
	Num  NumStats   `json:"num"`
}

// Table profiles every selectable column of f in file order.
func Table(f *frame.Frame) []ColumnProfile {
	names := f.Selectable()
	out := make([]ColumnProfile, 0, len(names))
	for _, name := range names {
		s, err := f.Series(name)
		if err != nil {
			continue
		}
		col, _ := f.ColumnByName(name)
		out = append(out, ColumnProfile{Name: name, Kind: col.Kind(), Num: Summarize(s)})
	}
	return out
}
