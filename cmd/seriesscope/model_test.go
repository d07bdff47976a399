package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/logger"
	"github.com/wdm0006/seriesscope/pkg/process"
	"github.com/wdm0006/seriesscope/pkg/session"
	"github.com/wdm0006/seriesscope/pkg/settings"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	store, err := settings.Open("")
	if err != nil {
		t.Fatal(err)
	}
	m := newModel(session.New(context.Background()), store, temps, tableio.LoadOptions{})
	t.Cleanup(m.close)
	return m
}

// deliver runs cmd and feeds any load result back into the model.
func deliver(m *model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			deliver(m, c)
		}
	case loadedMsg:
		m.Update(msg)
	}
}

func press(m *model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		deliver(m, cmd)
	}
}

func TestModelLoadsAndIgnoresKeysWhileBusy(t *testing.T) {
	m := newTestModel(t)
	cmd := m.Init()
	if !m.sess.Loading() {
		t.Fatal("expected a pending load")
	}
	press(m, "d")
	if m.sess.Pipeline().Config(process.KindDuplicateFilter).Enabled {
		t.Fatal("key handled while loading")
	}
	deliver(m, cmd)
	if m.sess.Loading() || m.sess.Column() != "Temp" {
		t.Fatalf("load not finished: loading=%v column=%q", m.sess.Loading(), m.sess.Column())
	}
	if m.current.Raw.Len() != 5 {
		t.Fatalf("raw series not shown, len %d", m.current.Raw.Len())
	}
	if m.store.String(settings.KeyLastFile, "") != temps {
		t.Fatal("last file not remembered")
	}
}

func TestModelEditsPipeline(t *testing.T) {
	m := newTestModel(t)
	deliver(m, m.Init())

	press(m, "[")
	m.input.SetValue("0")
	press(m, "enter", "]")
	m.input.SetValue("100")
	press(m, "enter", "r", "d")
	if diff := cmp.Diff([]float64{10, 20}, m.current.Processed.Floats()); diff != "" {
		t.Fatalf("processed mismatch:\n%s", diff)
	}

	press(m, "w")
	m.input.SetValue("1")
	press(m, "enter")
	if m.err == nil || m.sess.Pipeline().Config(process.KindMovingAverage).Window != process.DefaultWindow {
		t.Fatalf("invalid window accepted: err=%v", m.err)
	}

	press(m, "tab")
	if m.sess.Column() != "Pressure" {
		t.Fatalf("column = %q", m.sess.Column())
	}
	if m.sess.Pipeline().Config(process.KindRangeFilter).Enabled {
		t.Fatal("range filter should be disabled after a column change")
	}
	if m.store.String(settings.KeyLastColumn, "") != "Pressure" {
		t.Fatal("last column not remembered")
	}
}

func TestModelFailedOpenKeepsTable(t *testing.T) {
	m := newTestModel(t)
	deliver(m, m.Init())
	table := m.sess.Table()

	press(m, "o")
	m.input.SetValue("missing.csv")
	press(m, "enter")
	if m.err == nil || m.sess.Table() != table || m.sess.Loading() {
		t.Fatalf("failed open changed the session: err=%v", m.err)
	}
	if !strings.Contains(m.View(), "Temp") {
		t.Fatal("view lost the previous table")
	}
}

func TestModelViewWithoutFile(t *testing.T) {
	store, _ := settings.Open("")
	m := newModel(session.New(context.Background()), store, "", tableio.LoadOptions{})
	defer m.close()
	if m.Init() != nil {
		t.Fatal("nothing to load")
	}
	if !strings.Contains(m.View(), "no file loaded") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestModelSuggestsBoundsForSelectedColumn(t *testing.T) {
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "ts", Type: frame.KindInt},
		{Name: "a", Type: frame.KindFloat},
		{Name: "b", Type: frame.KindFloat},
	}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "ts", i)
		_ = f.SetCell(i, "a", float64(i*10))
	}
	m := newTestModel(t)
	if err := m.sess.Load(f); err != nil {
		t.Fatal(err)
	}
	p := m.sess.Pipeline()
	if err := p.SetEnabled(process.KindMovingAverage, true); err != nil {
		t.Fatal(err)
	}

	// averaging the empty column fails, so the last good output is still "a"
	press(m, "tab")
	if m.sess.Column() != "b" || m.current.Column != "a" {
		t.Fatalf("column=%q last good=%q", m.sess.Column(), m.current.Column)
	}
	m.err = nil
	press(m, "s")
	if !errhandling.Is(m.err, errhandling.CategoryEmptyInput) {
		t.Fatalf("expected empty input error, got %v", m.err)
	}
	rng := p.Config(process.KindRangeFilter)
	if rng.Lower != process.DefaultLower || rng.Upper != process.DefaultUpper {
		t.Fatalf("bounds taken from another column: %+v", rng)
	}

	press(m, "tab", "s")
	rng = p.Config(process.KindRangeFilter)
	if rng.Lower != 0 || rng.Upper != 20 {
		t.Fatalf("suggested bounds for a = [%v, %v]", rng.Lower, rng.Upper)
	}
}

func TestModelLogsFailedSaveOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := settings.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })

	m := newModel(session.New(context.Background()), store, "", tableio.LoadOptions{})
	t.Cleanup(m.close)
	m.remember(settings.KeyLastColumn, "Temp")
	if n := strings.Count(buf.String(), "not saved"); n != 1 {
		t.Fatalf("expected one warning, got %d:\n%s", n, buf.String())
	}
}
