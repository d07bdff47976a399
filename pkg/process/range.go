package process

import (
	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/profile"
)

// rangeFilter keeps values inside [lo, hi] in their original order. Nulls
// never satisfy the bounds and are dropped.
func rangeFilter(lo, hi float64, s frame.Series) frame.Series {
	b := frame.NewBuilder(s.Name(), s.Len())
	for i := 0; i < s.Len(); i++ {
		v, ok := s.At(i)
		if ok && v >= lo && v <= hi {
			b.Append(v)
		}
	}
	return b.Series()
}

// SuggestBounds returns the minimum and maximum of s for pre-populating the
// range filter. It never enables the filter.
func SuggestBounds(s frame.Series) (lower, upper float64, err error) {
	return profile.Bounds(s)
}
