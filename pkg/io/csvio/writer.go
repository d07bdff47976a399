package csvio

import (
	"encoding/csv"
	"strconv"

	"github.com/wdm0006/seriesscope/pkg/frame"
	iox "github.com/wdm0006/seriesscope/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteSeries writes one row per position with the raw and processed values
// side by side. The processed series may be shorter than raw; missing and
// null cells are written empty.
func WriteSeries(path string, raw, processed frame.Series, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	if err := w.Write([]string{"index", "raw", "processed"}); err != nil {
		_ = out.Close()
		return err
	}
	n := raw.Len()
	if processed.Len() > n {
		n = processed.Len()
	}
	for i := 0; i < n; i++ {
		row := []string{strconv.Itoa(i), cell(raw, i), cell(processed, i)}
		if err := w.Write(row); err != nil {
			_ = out.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func cell(s frame.Series, i int) string {
	if i >= s.Len() {
		return ""
	}
	v, ok := s.At(i)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
