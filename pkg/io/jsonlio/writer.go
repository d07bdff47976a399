package jsonlio

import (
	"encoding/json"

	"github.com/wdm0006/seriesscope/pkg/frame"
	iox "github.com/wdm0006/seriesscope/pkg/io/ioutils"
)

type row struct {
	Index     int      `json:"index"`
	Raw       *float64 `json:"raw"`
	Processed *float64 `json:"processed"`
}

// WriteSeries writes one JSON object per position with raw and processed
// values; missing and null values are written as null.
func WriteSeries(path string, raw, processed frame.Series) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	n := raw.Len()
	if processed.Len() > n {
		n = processed.Len()
	}
	for i := 0; i < n; i++ {
		if err := enc.Encode(row{Index: i, Raw: ptr(raw, i), Processed: ptr(processed, i)}); err != nil {
			_ = out.Close()
			return err
		}
	}
	return out.Close()
}

func ptr(s frame.Series, i int) *float64 {
	if i >= s.Len() {
		return nil
	}
	v, ok := s.At(i)
	if !ok {
		return nil
	}
	return &v
}
