package jsonlio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
)

const sample = `{"DateTime": "2024-01-01T00:00:00Z", "Temp": 10, "Flow": 1.5, "Site": "a"}
{"DateTime": "2024-01-01T01:00:00Z", "Temp": 12, "Flow": null, "Site": "b"}

{"DateTime": "2024-01-01T02:00:00Z", "Temp": 11, "Flow": "2.5", "Site": "a"}
`

func TestJSONLInferAndRead(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sample), ReaderOptions{SampleRows: 10})
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, cs := range schema.Columns {
		names = append(names, cs.Name)
	}
	if diff := cmp.Diff([]string{"DateTime", "Temp", "Flow", "Site"}, names); diff != "" {
		t.Fatalf("column order mismatch:\n%s", diff)
	}
	if schema.Columns[0].Type != frame.KindTime || schema.Columns[1].Type != frame.KindInt || schema.Columns[2].Type != frame.KindFloat {
		t.Fatalf("unexpected kinds %+v", schema.Columns)
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", fr.Rows())
	}
	flow, err := fr.Series("Flow")
	if err != nil {
		t.Fatal(err)
	}
	if !flow.Equal(frame.FromFloats("Flow", 1.5, math.NaN(), 2.5)) {
		t.Fatalf("flow mismatch: %v", flow.Floats())
	}
}

func TestJSONLRejectsGarbage(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("[1,2,3]\n"), ReaderOptions{})
	if _, err := r.InferSchema(); !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	r = NewReaderFrom(strings.NewReader("\n\n"), ReaderOptions{})
	if _, err := r.InferSchema(); !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error for empty input, got %v", err)
	}
}

func TestWriteSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := WriteSeries(path, frame.FromFloats("x", 1, 2), frame.FromFloats("x", 1.5)); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\"index\":0,\"raw\":1,\"processed\":1.5}\n{\"index\":1,\"raw\":2,\"processed\":null}\n"
	if string(b) != want {
		t.Fatalf("got %q want %q", b, want)
	}
}

// readings builds n records with integer Temp values. Lines listed in
// override get that raw JSON value instead.
func readings(n int, override map[int]string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		v := fmt.Sprint(i)
		if o, ok := override[i]; ok {
			v = o
		}
		fmt.Fprintf(&b, "{\"DateTime\": \"2024-01-01T00:%02d:%02dZ\", \"Temp\": %s}\n", i/60, i%60, v)
	}
	return b.String()
}

func TestJSONLTypeChangeAfterSample(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(readings(150, map[int]string{120: "120.5", 130: `"oops"`})), ReaderOptions{})
	schema, err := r.InferSchema()
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
	temp, err := fr.Series("Temp")
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := temp.At(119); !ok || v != 120.5 {
		t.Fatalf("line 120 = %v,%v", v, ok)
	}
	if v, ok := temp.At(0); !ok || v != 1 {
		t.Fatalf("line 1 = %v,%v", v, ok)
	}
	if !temp.IsNull(129) {
		t.Fatal("unparseable value should be null")
	}
	if w := r.Warnings(); !strings.Contains(w, "bad_cells=1") || !strings.Contains(w, `line 130 key "Temp"`) {
		t.Fatalf("warnings = %q", w)
	}
}

func TestJSONLStrictBadValue(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(readings(150, map[int]string{130: `"oops"`})), ReaderOptions{Strict: true})
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.ReadAll(schema)
	if !errhandling.Is(err, errhandling.CategoryInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "line 130") || !strings.Contains(msg, `"Temp"`) {
		t.Fatalf("error does not locate the value: %v", err)
	}
}
