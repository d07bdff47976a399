package parquetio

import (
	"errors"
	"io"
	"os"
	"time"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

// ReadTable loads a flat Parquet file. Columns keep the file's field order,
// so the first field becomes the timestamp column.
func ReadTable(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errhandling.NewInputError(err, "open %s", path)
	}
	defer func() { _ = file.Close() }()
	st, err := file.Stat()
	if err != nil {
		return nil, errhandling.NewInputError(err, "stat %s", path)
	}
	pf, err := parquet.OpenFile(file, st.Size())
	if err != nil {
		return nil, errhandling.NewInputError(err, "parse parquet %s", path)
	}

	fields := pf.Schema().Fields()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(fields))}
	for i, fd := range fields {
		if !fd.Leaf() {
			return nil, errhandling.NewInputError(nil, "parquet field %q is nested", fd.Name())
		}
		schema.Columns[i] = frame.ColumnSchema{Name: fd.Name(), Type: kindOf(fd)}
	}
	f, err := frame.NewFrame(schema)
	if err != nil {
		return nil, err
	}

	r := parquet.NewReader(pf)
	defer func() { _ = r.Close() }()
	rows := make([]parquet.Row, 256)
	for {
		n, err := r.ReadRows(rows)
		for _, row := range rows[:n] {
			setRow(f, fields, row)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errhandling.NewInputError(err, "read parquet rows")
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

func kindOf(fd parquet.Field) frame.Kind {
	t := fd.Type()
	if lt := t.LogicalType(); lt != nil && lt.Timestamp != nil {
		return frame.KindTime
	}
	switch t.Kind() {
	case parquet.Boolean, parquet.Int32, parquet.Int64:
		return frame.KindInt
	case parquet.Float, parquet.Double:
		return frame.KindFloat
	default:
		return frame.KindString
	}
}

func setRow(f *frame.Frame, fields []parquet.Field, row parquet.Row) {
	f.AppendNullRow()
	r := f.Rows() - 1
	for _, v := range row {
		c := v.Column()
		if c < 0 || c >= len(fields) || v.IsNull() {
			continue
		}
		fd := fields[c]
		name := fd.Name()
		if lt := fd.Type().LogicalType(); lt != nil && lt.Timestamp != nil {
			_ = f.SetCell(r, name, timestamp(v.Int64(), lt.Timestamp.Unit.Millis != nil, lt.Timestamp.Unit.Micros != nil))
			continue
		}
		switch v.Kind() {
		case parquet.Boolean:
			if v.Boolean() {
				_ = f.SetCell(r, name, int64(1))
			} else {
				_ = f.SetCell(r, name, int64(0))
			}
		case parquet.Int32:
			_ = f.SetCell(r, name, int64(v.Int32()))
		case parquet.Int64:
			_ = f.SetCell(r, name, v.Int64())
		case parquet.Float:
			_ = f.SetCell(r, name, float64(v.Float()))
		case parquet.Double:
			_ = f.SetCell(r, name, v.Double())
		default:
			_ = f.SetCell(r, name, string(v.ByteArray()))
		}
	}
}

func timestamp(x int64, millis, micros bool) time.Time {
	switch {
	case millis:
		return time.UnixMilli(x).UTC()
	case micros:
		return time.UnixMicro(x).UTC()
	default:
		return time.Unix(0, x).UTC()
	}
}
