package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/process"
)

var temps = filepath.FromSlash("../../pkg/io/csvio/testdata/temps.csv")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--settings="))
	err := root.Execute()
	return out.String(), err
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		spec   string
		lo, hi float64
		ok     bool
	}{
		{"0:100", 0, 100, true},
		{"-5.5:-1", -5.5, -1, true},
		{":50", -1, 50, true},
		{"3:", 3, 1, true},
		{"10", 0, 0, false},
		{"a:b", 0, 0, false},
	}
	for _, c := range cases {
		lo, hi, err := parseRange(c.spec, -1, 1)
		if !c.ok {
			if !errhandling.Is(err, errhandling.CategoryConfiguration) {
				t.Fatalf("%q: expected configuration error, got %v", c.spec, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", c.spec, err)
		}
		if lo != c.lo || hi != c.hi {
			t.Fatalf("%q: got %v:%v", c.spec, lo, hi)
		}
	}
}

func TestProcessFlagsConfigure(t *testing.T) {
	p := process.NewPipeline()
	pf := processFlags{rangeSpec: "0:10", window: 3, dedup: true}
	if err := pf.configure(p); err != nil {
		t.Fatal(err)
	}
	for _, cfg := range p.Steps() {
		if !cfg.Enabled {
			t.Fatalf("%s not enabled", cfg.Kind)
		}
	}
	if p.Config(process.KindMovingAverage).Window != 3 {
		t.Fatal("window not applied")
	}

	bad := processFlags{window: 1}
	if err := bad.configure(process.NewPipeline()); !errhandling.Is(err, errhandling.CategoryConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	inverted := processFlags{rangeSpec: "10:0"}
	if err := inverted.configure(process.NewPipeline()); !errhandling.Is(err, errhandling.CategoryConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRenderASCII(t *testing.T) {
	out := renderASCII(frame.FromFloats("x", 1, 2, 3, 2, 1), "raw x", plotOptions{Height: 4})
	if !strings.Contains(out, "raw x (5 values)") {
		t.Fatalf("caption missing:\n%s", out)
	}
	if got := renderASCII(frame.Series{}, "processed x", plotOptions{}); got != "processed x: no data" {
		t.Fatalf("empty plot = %q", got)
	}
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, "columns", temps)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Temp", "Pressure", "1011.9"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Site") {
		t.Fatalf("string column listed:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp.csv")
	if _, err := execute(t, "export", temps, path, "--column", "Temp", "--range", "0:100", "--dedup"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "index,raw,processed\n0,10,10\n1,10,20\n2,999,\n3,20,\n4,20,\n"
	if string(b) != want {
		t.Fatalf("got %q want %q", b, want)
	}
}

func TestPlotCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "temp.png")
	out, err := execute(t, "plot", temps, "--column", "Temp", "--window", "3", "--height", "5", "--png", png)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "raw Temp") || !strings.Contains(out, "processed Temp") {
		t.Fatalf("plots missing:\n%s", out)
	}
	b, err := os.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatal("not a PNG file")
	}
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "plot", temps, "--column", "Site")
	if exitCode(err) != ExitInputError {
		t.Fatalf("unknown column: exit code %d (%v)", exitCode(err), err)
	}
	_, err = execute(t, "plot", temps, "--window", "1")
	if exitCode(err) != ExitConfigError {
		t.Fatalf("bad window: exit code %d (%v)", exitCode(err), err)
	}

	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("t,v\n1,2\n2,oops\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "columns", bad); err != nil {
		t.Fatalf("lenient load failed: %v", err)
	}
	_, err = execute(t, "columns", bad, "--strict")
	if exitCode(err) != ExitInputError || !strings.Contains(err.Error(), "oops") {
		t.Fatalf("strict load: exit code %d (%v)", exitCode(err), err)
	}
}
