package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	iox "github.com/wdm0006/seriesscope/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records and unparseable cells
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	// per-column time layout detected during inference
	layouts []string
	// repair/warning counters
	shortRecords int
	longRecords  int
	badCells     int
	firstBad     string
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// Open opens a CSV file, transparently decompressing gzip input. The
// returned Closer releases the file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, errhandling.NewInputError(err, "open %s", path)
	}
	rr := csv.NewReader(rc)
	if opt.Delimiter == 0 && path != "-" {
		if d, lazy, err := sniffDelimiterAndQuotes(path); err == nil && d != 0 {
			rr.Comma = d
			rr.LazyQuotes = lazy
		}
	} else if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}, rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (frame.Schema, []string, error) {
	var names []string
	rec, err := r.r.Read()
	if errors.Is(err, io.EOF) {
		return frame.Schema{}, nil, errhandling.NewInputError(nil, "file is empty")
	}
	if err != nil {
		return frame.Schema{}, nil, errhandling.NewInputError(err, "read header")
	}
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if errors.Is(err, io.EOF) {
			return frame.Schema{}, nil, errhandling.NewInputError(nil, "file has a header but no rows")
		}
		if err != nil {
			return frame.Schema{}, nil, errhandling.NewInputError(err, "read first row")
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{rec}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for i := 1; i < max; i++ {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, nil, errhandling.NewInputError(err, "read sample row %d", i+1)
		}
		sample = append(sample, rr)
	}

	kinds, layouts := inferKinds(sample, len(names))
	r.layouts = layouts
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = frame.ColumnSchema{Name: names[i], Type: kinds[i]}
	}
	// retain sampled rows for subsequent ReadAll
	r.buf = append(r.buf, sample...)
	return schema, names, nil
}

// ReadAll loads the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f, err := frame.NewFrame(schema)
	if err != nil {
		return nil, err
	}
	for _, rec := range r.buf {
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	r.buf = nil
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errhandling.NewInputError(err, "read row %d", f.Rows()+1)
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// appendRecord appends a null row then sets the non-empty values. An int
// column that meets a float is widened. Other cells that do not parse as
// the column kind fail the read in strict mode and stay null otherwise.
func (r *Reader) appendRecord(f *frame.Frame, schema frame.Schema, rec []string) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return errhandling.NewInputError(nil, "csv long record at row %d: need %d fields, got %d", row+1, len(schema.Columns), len(rec))
		}
	}
	for i, cs := range f.Schema().Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return errhandling.NewInputError(nil, "csv short record at row %d: need %d fields, got %d", row+1, len(schema.Columns), len(rec))
			}
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if iox.IsNullToken(val) {
			continue
		}
		var ok bool
		switch cs.Type {
		case frame.KindFloat:
			var x float64
			if x, ok = parseFloat(val); ok {
				_ = f.SetCell(row, cs.Name, x)
			}
		case frame.KindInt:
			if x, err := strconv.ParseInt(val, 10, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
				ok = true
			} else if y, isFloat := parseFloat(val); isFloat {
				if err := f.WidenToFloat(cs.Name); err != nil {
					return err
				}
				_ = f.SetCell(row, cs.Name, y)
				ok = true
			}
		case frame.KindTime:
			var ts time.Time
			if ts, ok = iox.ParseTime(val, r.layout(i)); ok {
				_ = f.SetCell(row, cs.Name, ts)
			}
		default:
			_ = f.SetCell(row, cs.Name, val)
			ok = true
		}
		if ok {
			continue
		}
		if r.opt.Strict {
			return errhandling.NewInputError(nil, "row %d column %q: cannot parse %q as %s", row+1, cs.Name, val, cs.Type)
		}
		if r.badCells == 0 {
			r.firstBad = fmt.Sprintf("row %d column %q", row+1, cs.Name)
		}
		r.badCells++
	}
	return nil
}

func parseFloat(v string) (float64, bool) {
	x, err := strconv.ParseFloat(v, 64)
	return x, err == nil
}

func (r *Reader) layout(col int) string {
	if col < len(r.layouts) {
		return r.layouts[col]
	}
	return ""
}

func inferKinds(rows [][]string, ncol int) ([]frame.Kind, []string) {
	kinds := make([]frame.Kind, ncol)
	layouts := make([]string, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, ts, str := 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if iox.IsNullToken(v) {
				continue
			}
			if numre.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
				continue
			}
			if l := iox.DetectTimeLayout(v); l != "" {
				ts++
				if layouts[c] == "" {
					layouts[c] = l
				}
				continue
			}
			str++
		}
		switch {
		case ts > 0 && ts >= num && ts > str:
			kinds[c] = frame.KindTime
		case num > str:
			if integer == num {
				kinds[c] = frame.KindInt
			} else {
				kinds[c] = frame.KindFloat
			}
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds, layouts
}

func sniffDelimiterAndQuotes(path string) (rune, bool, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = rc.Close() }()
	br := bufio.NewReader(rc)
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ',', false, nil
	}
	// only the first line decides; data rows may contain decimal commas
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0, nil
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 && r.badCells == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badCells > 0 {
		parts = append(parts, fmt.Sprintf("bad_cells=%d (first at %s)", r.badCells, r.firstBad))
	}
	return strings.Join(parts, ", ")
}
