// Package tableio loads tables and exports series, choosing the codec from
// the file extension.
package tableio

import (
	"fmt"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	csvio "github.com/wdm0006/seriesscope/pkg/io/csvio"
	iox "github.com/wdm0006/seriesscope/pkg/io/ioutils"
	jsonlio "github.com/wdm0006/seriesscope/pkg/io/jsonlio"
	parquetio "github.com/wdm0006/seriesscope/pkg/io/parquetio"
	"github.com/wdm0006/seriesscope/pkg/logger"
)

type LoadOptions struct {
	// TimestampColumn overrides the default (first) timestamp column.
	TimestampColumn string
	// Delimiter forces a CSV delimiter; 0 sniffs it.
	Delimiter  rune
	SampleRows int
	// Strict fails the load on malformed records and unparseable cells
	// instead of reading them as null.
	Strict bool
}

// Load reads path into a Frame. The result always has at least one
// selectable column.
func Load(path string, opt LoadOptions) (*frame.Frame, error) {
	var (
		f   *frame.Frame
		err error
	)
	switch iox.FormatOf(path) {
	case iox.FormatCSV, iox.FormatTSV:
		f, err = loadCSV(path, opt)
	case iox.FormatJSONL:
		f, err = loadJSONL(path, opt)
	case iox.FormatParquet:
		f, err = parquetio.ReadTable(path)
	default:
		return nil, errhandling.NewInputError(nil, "unsupported file type %q", path)
	}
	if err != nil {
		return nil, err
	}
	if opt.TimestampColumn != "" {
		if err := f.SetTimestampColumn(opt.TimestampColumn); err != nil {
			return nil, err
		}
	}
	if len(f.Selectable()) == 0 {
		return nil, errhandling.NewInputError(nil, "%s has no numeric columns besides the timestamp %q", path, f.TimestampColumn())
	}
	logger.Debug("table read", "path", path, "rows", f.Rows(), "columns", f.Cols())
	return f, nil
}

func loadCSV(path string, opt LoadOptions) (*frame.Frame, error) {
	delim := opt.Delimiter
	if delim == 0 && iox.FormatOf(path) == iox.FormatTSV {
		delim = '\t'
	}
	rdr, file, err := csvio.Open(path, csvio.ReaderOptions{HasHeader: true, Delimiter: delim, SampleRows: opt.SampleRows, Strict: opt.Strict})
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	schema, _, err := rdr.InferSchema()
	if err != nil {
		return nil, err
	}
	f, err := rdr.ReadAll(schema)
	if err != nil {
		return nil, err
	}
	if w := rdr.Warnings(); w != "" {
		logger.Warn("csv repaired", "path", path, "detail", w)
	}
	return f, nil
}

func loadJSONL(path string, opt LoadOptions) (*frame.Frame, error) {
	rdr, file, err := jsonlio.Open(path, jsonlio.ReaderOptions{SampleRows: opt.SampleRows, Strict: opt.Strict})
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	schema, err := rdr.InferSchema()
	if err != nil {
		return nil, err
	}
	f, err := rdr.ReadAll(schema)
	if err != nil {
		return nil, err
	}
	if w := rdr.Warnings(); w != "" {
		logger.Warn("jsonl values dropped", "path", path, "detail", w)
	}
	return f, nil
}

// Export writes raw and processed side by side in the format implied by path.
func Export(path string, raw, processed frame.Series) error {
	var err error
	switch iox.FormatOf(path) {
	case iox.FormatCSV:
		err = csvio.WriteSeries(path, raw, processed, csvio.WriterOptions{})
	case iox.FormatTSV:
		err = csvio.WriteSeries(path, raw, processed, csvio.WriterOptions{Delimiter: '\t'})
	case iox.FormatJSONL:
		err = jsonlio.WriteSeries(path, raw, processed)
	case iox.FormatParquet:
		err = parquetio.WriteSeries(path, raw, processed)
	default:
		return errhandling.NewInputError(nil, "unsupported export type %q", path)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logger.Info("series exported", "path", path, "raw", raw.Len(), "processed", processed.Len())
	return nil
}
