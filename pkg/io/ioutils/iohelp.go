// Package ioutils holds file helpers shared by the table readers and series
// writers.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a tabular file format, derived from a file extension.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatJSONL   Format = "jsonl"
	FormatParquet Format = "parquet"
)

// FormatOf derives the format of path from its extension, ignoring a
// trailing .gz. Unknown extensions return "".
func FormatOf(path string) Format {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	switch filepath.Ext(p) {
	case ".csv", ".txt":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL
	case ".parquet", ".pq":
		return FormatParquet
	}
	return ""
}

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return wrapGzip(bufio.NewReader(os.Stdin), func() error { return nil })
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrapGzip(bufio.NewReader(f), f.Close)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rc, nil
}

// wrapGzip sniffs the gzip magic bytes and decompresses when present.
func wrapGzip(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	b, err := br.Peek(2)
	if err == nil && len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. If the path ends in .gz, the writer is gzip compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		bw := bufio.NewWriter(os.Stdout)
		return writeCloser{Writer: bw, closeFn: bw.Flush}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	bw := bufio.NewWriter(f)
	return writeCloser{Writer: bw, closeFn: func() error {
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error { return w.closeFn() }
