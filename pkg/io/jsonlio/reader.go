package jsonlio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	iox "github.com/wdm0006/seriesscope/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int
	Strict     bool // if true, error on values that do not fit the column kind
}

// record is one decoded line with its keys in document order.
type record struct {
	line int
	keys []string
	vals map[string]any
}

type Reader struct {
	sc       *bufio.Scanner
	opt      ReaderOptions
	buf      []record
	keys     []string
	line     int
	badCells int
	firstBad string
}

// Open opens a JSON Lines file, transparently decompressing gzip input.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, errhandling.NewInputError(err, "open %s", path)
	}
	return NewReaderFrom(rc, opt), rc, nil
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{sc: sc, opt: opt}
}

// next decodes the next non-blank line, returning io.EOF at the end.
func (r *Reader) next() (record, error) {
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := decodeObject(line)
		if err != nil {
			return record{}, errhandling.NewInputError(err, "line %d", r.line)
		}
		rec.line = r.line
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return record{}, errhandling.NewInputError(err, "read line %d", r.line+1)
	}
	return record{}, io.EOF
}

func decodeObject(line []byte) (record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return record{}, fmt.Errorf("expected a JSON object")
	}
	rec := record{vals: map[string]any{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return record{}, err
		}
		key, _ := kt.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return record{}, err
		}
		if _, seen := rec.vals[key]; !seen {
			rec.keys = append(rec.keys, key)
		}
		rec.vals[key] = v
	}
	return rec, nil
}

// InferSchema samples rows to determine column names (first-seen order) and kinds.
func (r *Reader) InferSchema() (frame.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	seen := map[string]struct{}{}
	for len(r.buf) < max {
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, err
		}
		r.buf = append(r.buf, rec)
		for _, k := range rec.keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				r.keys = append(r.keys, k)
			}
		}
	}
	if len(r.buf) == 0 {
		return frame.Schema{}, errhandling.NewInputError(nil, "file has no records")
	}
	kinds := inferKinds(r.buf, r.keys)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kinds[i]}
	}
	return schema, nil
}

func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f, err := frame.NewFrame(schema)
	if err != nil {
		return nil, err
	}
	for _, rec := range r.buf {
		if err := r.setRow(f, rec); err != nil {
			return nil, err
		}
	}
	r.buf = nil
	for {
		rec, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.setRow(f, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// setRow appends rec as a new row. An int column that meets a fractional
// number is widened to float. Other values that do not fit the column kind
// fail the read in strict mode and stay null otherwise.
func (r *Reader) setRow(f *frame.Frame, rec record) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for _, cs := range f.Schema().Columns {
		v, ok := rec.vals[cs.Name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && cs.Type != frame.KindString && iox.IsNullToken(strings.TrimSpace(s)) {
			continue
		}
		switch cs.Type {
		case frame.KindFloat:
			var x float64
			if x, ok = number(v); ok {
				_ = f.SetCell(row, cs.Name, x)
			}
		case frame.KindInt:
			var x int64
			if x, ok = integer(v); ok {
				_ = f.SetCell(row, cs.Name, x)
			} else if y, isNum := number(v); isNum {
				if err := f.WidenToFloat(cs.Name); err != nil {
					return err
				}
				_ = f.SetCell(row, cs.Name, y)
				ok = true
			}
		case frame.KindTime:
			ok = false
			if s, isStr := v.(string); isStr {
				var ts time.Time
				if ts, ok = iox.ParseTime(strings.TrimSpace(s), ""); ok {
					_ = f.SetCell(row, cs.Name, ts)
				}
			}
		default:
			switch t := v.(type) {
			case string:
				_ = f.SetCell(row, cs.Name, t)
			default:
				b, _ := json.Marshal(t)
				_ = f.SetCell(row, cs.Name, string(b))
			}
		}
		if ok {
			continue
		}
		if r.opt.Strict {
			return errhandling.NewInputError(nil, "line %d key %q: cannot parse %v as %s", rec.line, cs.Name, v, cs.Type)
		}
		if r.badCells == 0 {
			r.firstBad = fmt.Sprintf("line %d key %q", rec.line, cs.Name)
		}
		r.badCells++
	}
	return nil
}

// Warnings summarises values that were read as null because they did not
// fit their column kind.
func (r *Reader) Warnings() string {
	if r.badCells == 0 {
		return ""
	}
	return fmt.Sprintf("bad_cells=%d (first at %s)", r.badCells, r.firstBad)
}

// integer accepts whole JSON numbers, integer strings and booleans.
func integer(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		x, err := t.Int64()
		return x, err == nil
	case string:
		x, err := json.Number(strings.TrimSpace(t)).Int64()
		return x, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// number accepts JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		x, err := t.Float64()
		return x, err == nil
	case string:
		if iox.IsNullToken(t) {
			return 0, false
		}
		x, err := json.Number(strings.TrimSpace(t)).Float64()
		return x, err == nil
	}
	return 0, false
}

func inferKinds(sample []record, keys []string) []frame.Kind {
	kinds := make([]frame.Kind, len(keys))
	for i, k := range keys {
		nNum, nInt, nBool, nTime, nStr := 0, 0, 0, 0, 0
		for _, rec := range sample {
			v, ok := rec.vals[k]
			if !ok || v == nil {
				continue
			}
			switch t := v.(type) {
			case json.Number:
				nNum++
				if !strings.ContainsAny(t.String(), ".eE") {
					nInt++
				}
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if iox.IsNullToken(s) {
					continue
				}
				if _, ok := number(s); ok {
					nNum++
				} else if iox.DetectTimeLayout(s) != "" {
					nTime++
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case nTime > 0 && nTime >= nNum && nTime > nStr:
			kinds[i] = frame.KindTime
		case nBool > nNum && nBool >= nStr:
			kinds[i] = frame.KindInt
		case nNum > nStr:
			if nInt == nNum {
				kinds[i] = frame.KindInt
			} else {
				kinds[i] = frame.KindFloat
			}
		default:
			kinds[i] = frame.KindString
		}
	}
	return kinds
}
