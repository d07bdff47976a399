package csvio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

func readFile(t *testing.T, p string, opt ReaderOptions) *frame.Frame {
	t.Helper()
	r, f, err := Open(p, opt)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	return fr
}

func TestInferAndRead(t *testing.T) {
	fr := readFile(t, filepath.FromSlash("testdata/temps.csv"), ReaderOptions{HasHeader: true})
	if fr.Rows() != 5 {
		t.Fatalf("expected 5 rows, got %d", fr.Rows())
	}
	kinds := []frame.Kind{}
	for _, cs := range fr.Schema().Columns {
		kinds = append(kinds, cs.Type)
	}
	want := []frame.Kind{frame.KindTime, frame.KindInt, frame.KindFloat, frame.KindString}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Temp", "Pressure"}, fr.Selectable()); diff != "" {
		t.Fatalf("selectable mismatch:\n%s", diff)
	}

	p, err := fr.Series("Pressure")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsNull(1) || !p.IsNull(3) {
		t.Fatalf("empty and NaN cells should be null: %v", p.Floats())
	}
}

func TestSniffSemicolon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semi.csv")
	if err := os.WriteFile(path, []byte("ts;a\n2024-01-01;1.5\n2024-01-02;2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fr := readFile(t, path, ReaderOptions{HasHeader: true})
	s, err := fr.Series("a")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1.5, 2.5}, s.Floats()); diff != "" {
		t.Fatalf("values mismatch:\n%s", diff)
	}
}

func TestEmptyFile(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(""), ReaderOptions{HasHeader: true})
	if _, _, err := r.InferSchema(); !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	r = NewReaderFrom(strings.NewReader("a,b\n"), ReaderOptions{HasHeader: true})
	if _, _, err := r.InferSchema(); !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error for header-only file, got %v", err)
	}
}

func TestStrictShortRecord(t *testing.T) {
	in := "ts,a,b\n1,2,3\n4,5\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true, Strict: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadAll(schema); !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error, got %v", err)
	}

	r = NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	schema, _, _ = r.InferSchema()
	if _, err := r.ReadAll(schema); err != nil {
		t.Fatal(err)
	}
	if r.Warnings() != "short_records=1" {
		t.Fatalf("unexpected warnings %q", r.Warnings())
	}
}

func TestWriteSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	raw := frame.FromFloats("Temp", 10, 10, 999)
	processed := frame.FromFloats("Temp", 10)
	if err := WriteSeries(path, raw, processed, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "index,raw,processed\n0,10,10\n1,10,\n2,999,\n"
	if string(b) != want {
		t.Fatalf("got %q want %q", b, want)
	}
}

// hourly builds n rows of integer readings. Rows listed in override get
// that cell text instead; row numbers start at 1.
func hourly(n int, override map[int]string) string {
	var b strings.Builder
	b.WriteString("DateTime,Temp\n")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		v := fmt.Sprint(i)
		if o, ok := override[i]; ok {
			v = o
		}
		fmt.Fprintf(&b, "%s,%s\n", base.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04:05"), v)
	}
	return b.String()
}

func TestTypeChangeAfterSample(t *testing.T) {
	in := hourly(150, map[int]string{120: "120.5", 130: "oops"})
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if schema.Columns[1].Type != frame.KindInt {
		t.Fatalf("sampled kind = %v, want int", schema.Columns[1].Type)
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if got := fr.Schema().Columns[1].Type; got != frame.KindFloat {
		t.Fatalf("kind after read = %v, want float", got)
	}
	s, err := fr.Series("Temp")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 150 {
		t.Fatalf("rows = %d", s.Len())
	}
	for _, tc := range []struct {
		row  int
		want float64
	}{{1, 1}, {119, 119}, {120, 120.5}, {150, 150}} {
		if v, ok := s.At(tc.row - 1); !ok || v != tc.want {
			t.Fatalf("row %d = %v,%v want %v", tc.row, v, ok, tc.want)
		}
	}
	if !s.IsNull(129) {
		t.Fatal("unparseable cell should be null")
	}
	w := r.Warnings()
	if !strings.Contains(w, "bad_cells=1") || !strings.Contains(w, `row 130 column "Temp"`) {
		t.Fatalf("warnings = %q", w)
	}
}

func TestStrictBadCell(t *testing.T) {
	in := hourly(150, map[int]string{120: "120.5", 130: "oops"})
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true, Strict: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.ReadAll(schema)
	if !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "row 130") || !strings.Contains(msg, `"Temp"`) || !strings.Contains(msg, "oops") {
		t.Fatalf("error does not locate the cell: %v", err)
	}
}
