package ioutils

import (
	"io"
	"path/filepath"
	"testing"
)

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"data.csv":        FormatCSV,
		"DATA.CSV.GZ":     FormatCSV,
		"x.tsv":           FormatTSV,
		"rows.jsonl":      FormatJSONL,
		"table.parquet":   FormatParquet,
		"notes.md":        "",
		"archive.tar.bz2": "",
	}
	for in, want := range cases {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	w, err := CreateMaybeCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "a,b\n1,2\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenMaybeCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "a,b\n1,2\n" {
		t.Fatalf("round trip got %q", b)
	}
}
