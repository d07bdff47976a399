package process

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

// movingAverage computes a centered rolling mean. The window for position i
// spans [i-w/2, i-w/2+w-1], so even windows reach one further back than
// forward. Positions whose window leaves the series or covers a null are
// filled forward, then backward.
func movingAverage(w int, s frame.Series) (frame.Series, error) {
	n := s.Len()
	if n == 0 {
		return s, nil
	}
	present := s.Present()
	if len(present) == 0 {
		return frame.Series{}, errhandling.NewEmptyInputError("column %q has no values to average", s.Name())
	}

	out := make([]float64, n)
	valid := make([]bool, n)
	window := make([]float64, w)
	defined := 0
	for i := 0; i < n; i++ {
		lo := i - w/2
		if lo < 0 || lo+w > n {
			continue
		}
		full := true
		for j := 0; j < w; j++ {
			v, ok := s.At(lo + j)
			if !ok {
				full = false
				break
			}
			window[j] = v
		}
		if !full {
			continue
		}
		out[i] = stat.Mean(window, nil)
		valid[i] = true
		defined++
	}

	if defined == 0 {
		// window larger than any null-free run: collapse to the overall mean
		mean := stat.Mean(present, nil)
		for i := range out {
			out[i] = mean
		}
		return frame.NewSeries(s.Name(), out, nil), nil
	}
	fillForward(out, valid)
	fillBackward(out, valid)
	return frame.NewSeries(s.Name(), out, valid), nil
}
