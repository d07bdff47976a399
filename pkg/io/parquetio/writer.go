package parquetio

import (
	"encoding/json"
	"fmt"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/seriesscope/pkg/frame"
)

// seriesSchema is the JSON schema consumed by the parquet-go JSONWriter.
const seriesSchema = `{
  "Tag": "name=schema, repetitiontype=REQUIRED",
  "Fields": [
    {"Tag": "name=index, type=INT64, repetitiontype=REQUIRED"},
    {"Tag": "name=raw, type=DOUBLE, repetitiontype=OPTIONAL"},
    {"Tag": "name=processed, type=DOUBLE, repetitiontype=OPTIONAL"}
  ]
}`

// WriteSeries writes index, raw and processed columns. Positions past the
// end of the shorter series, and nulls, are written as Parquet nulls.
func WriteSeries(path string, raw, processed frame.Series) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(seriesSchema, fw, 1)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}

	n := raw.Len()
	if processed.Len() > n {
		n = processed.Len()
	}
	for i := 0; i < n; i++ {
		rec := map[string]any{"index": i}
		if v, ok := value(raw, i); ok {
			rec["raw"] = v
		}
		if v, ok := value(processed, i); ok {
			rec["processed"] = v
		}
		b, err := json.Marshal(rec)
		if err != nil {
			_ = fw.Close()
			return err
		}
		if err := writer.Write(string(b)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("parquet write row %d: %w", i, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet finish: %w", err)
	}
	return fw.Close()
}

func value(s frame.Series, i int) (float64, bool) {
	if i >= s.Len() {
		return 0, false
	}
	return s.At(i)
}
