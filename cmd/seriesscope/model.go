package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/logger"
	"github.com/wdm0006/seriesscope/pkg/process"
	"github.com/wdm0006/seriesscope/pkg/session"
	"github.com/wdm0006/seriesscope/pkg/settings"
)

type mode int

const (
	modeView mode = iota
	modeLower
	modeUpper
	modeWindow
	modeOpen
	modeExport
)

var prompts = map[mode]string{
	modeLower:  "Lower bound",
	modeUpper:  "Upper bound",
	modeWindow: "Window",
	modeOpen:   "Open file",
	modeExport: "Export to",
}

// loadedMsg carries the result of a background file read.
type loadedMsg struct {
	path  string
	table *frame.Frame
	err   error
}

type model struct {
	sess       *session.Session
	store      *settings.Store
	opt        tableio.LoadOptions
	path       string
	current    session.Update // last good output
	err        error
	notice     string
	mode       mode
	input      textinput.Model
	spinner    spinner.Model
	help       help.Model
	width      int
	plotHeight int
	cancel     func()
}

func newModel(sess *session.Session, store *settings.Store, path string, opt tableio.LoadOptions) *model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	m := &model{
		sess:       sess,
		store:      store,
		opt:        opt,
		path:       path,
		input:      ti,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		plotHeight: store.Int(settings.KeyPlotHeight, defaultPlotHeight),
	}
	m.cancel = sess.Subscribe(m.onUpdate)
	return m
}

func (m *model) close() { m.cancel() }

// onUpdate keeps the last good output; a failed recomputation only sets the
// error line.
func (m *model) onUpdate(u session.Update) {
	if u.Err != nil {
		m.err = u.Err
		return
	}
	m.current = u
	m.err = nil
}

func (m *model) Init() tea.Cmd {
	logger.Info("seriesscope: started", "path", m.path)
	if m.path == "" {
		return nil
	}
	return m.startLoad(m.path)
}

// startLoad marks the session busy and reads path off the event loop.
func (m *model) startLoad(path string) tea.Cmd {
	if err := m.sess.BeginLoad(); err != nil {
		m.err = err
		return nil
	}
	opt := m.opt
	m.notice = "loading " + path
	load := func() tea.Msg {
		t, err := tableio.Load(path, opt)
		return loadedMsg{path: path, table: t, err: err}
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m *model) finishLoad(msg loadedMsg) {
	if err := m.sess.EndLoad(msg.table, msg.err); err != nil {
		m.err = err
		m.notice = ""
		return
	}
	m.path = msg.path
	m.notice = "loaded " + msg.path
	m.remember(settings.KeyLastFile, msg.path)

	last := m.store.String(settings.KeyLastColumn, "")
	if last != "" && last != m.sess.Column() {
		for _, c := range m.sess.Columns() {
			if c == last {
				m.setErr(m.sess.SelectColumn(last))
				break
			}
		}
	}
}

func (m *model) remember(key string, value any) {
	if err := m.store.Set(key, value); err != nil {
		logger.Warn("setting not saved", "key", key, "error", err)
	}
}

func (m *model) setErr(err error) {
	if err != nil {
		m.err = err
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		m.finishLoad(msg)
		return m, nil
	case spinner.TickMsg:
		if !m.sess.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode != modeView {
		return m.handleInputKey(msg)
	}
	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, Keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	// everything else waits for the pending load
	if m.sess.Loading() {
		return m, nil
	}

	p := m.sess.Pipeline()
	switch {
	case key.Matches(msg, Keys.Open):
		m.beginInput(modeOpen, m.path)
	case key.Matches(msg, Keys.Reload):
		if m.path != "" {
			return m, m.startLoad(m.path)
		}
	case m.sess.Table() == nil:
		m.notice = "no file loaded, press o to open one"
	case key.Matches(msg, Keys.NextColumn):
		m.stepColumn(1)
	case key.Matches(msg, Keys.PrevColumn):
		m.stepColumn(-1)
	case key.Matches(msg, Keys.ToggleRange):
		m.toggle(p, process.KindRangeFilter)
	case key.Matches(msg, Keys.ToggleAverage):
		m.toggle(p, process.KindMovingAverage)
	case key.Matches(msg, Keys.ToggleDedup):
		m.toggle(p, process.KindDuplicateFilter)
	case key.Matches(msg, Keys.EditLower):
		m.beginInput(modeLower, formatValue(p.Config(process.KindRangeFilter).Lower))
	case key.Matches(msg, Keys.EditUpper):
		m.beginInput(modeUpper, formatValue(p.Config(process.KindRangeFilter).Upper))
	case key.Matches(msg, Keys.EditWindow):
		m.beginInput(modeWindow, strconv.Itoa(p.Config(process.KindMovingAverage).Window))
	case key.Matches(msg, Keys.SuggestBounds):
		raw, err := m.sess.Table().Series(m.sess.Column())
		if err != nil {
			m.err = err
			break
		}
		lo, hi, err := process.SuggestBounds(raw)
		if err != nil {
			m.err = err
			break
		}
		m.setErr(p.SetBounds(lo, hi))
	case key.Matches(msg, Keys.Export):
		m.beginInput(modeExport, exportName(m.path, m.sess.Column()))
	}
	return m, nil
}

func (m *model) toggle(p *process.Pipeline, k process.Kind) {
	m.setErr(p.SetEnabled(k, !p.Config(k).Enabled))
}

func (m *model) stepColumn(delta int) {
	cols := m.sess.Columns()
	if len(cols) < 2 {
		return
	}
	i := 0
	for j, c := range cols {
		if c == m.sess.Column() {
			i = j
			break
		}
	}
	next := cols[(i+delta+len(cols))%len(cols)]
	if err := m.sess.SelectColumn(next); err != nil {
		m.err = err
		return
	}
	m.remember(settings.KeyLastColumn, next)
}

func exportName(path, column string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "" || base == "." {
		base = "series"
	}
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s_%s.csv", base, column))
}

func (m *model) beginInput(md mode, value string) {
	m.mode = md
	m.input.Prompt = prompts[md] + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Cancel):
		m.mode = modeView
		m.input.Blur()
		return m, nil
	case key.Matches(msg, Keys.Commit):
		md := m.mode
		m.mode = modeView
		m.input.Blur()
		return m, m.commit(md, strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) commit(md mode, value string) tea.Cmd {
	p := m.sess.Pipeline()
	rng := p.Config(process.KindRangeFilter)
	switch md {
	case modeLower, modeUpper:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			m.err = errhandling.NewConfigurationError("%q is not a number", value)
			return nil
		}
		if md == modeLower {
			m.setErr(p.SetBounds(v, rng.Upper))
		} else {
			m.setErr(p.SetBounds(rng.Lower, v))
		}
	case modeWindow:
		w, err := strconv.Atoi(value)
		if err != nil {
			m.err = errhandling.NewConfigurationError("%q is not a whole number", value)
			return nil
		}
		m.setErr(p.SetWindow(w))
	case modeOpen:
		if value == "" || m.sess.Loading() {
			return nil
		}
		return m.startLoad(value)
	case modeExport:
		if value == "" {
			return nil
		}
		if err := tableio.Export(value, m.current.Raw, m.current.Processed); err != nil {
			m.err = err
			return nil
		}
		m.notice = "exported " + value
	}
	return nil
}

func (m *model) View() string {
	var b strings.Builder

	title := titleStyle.Render("seriesscope")
	if m.path != "" {
		title += " " + mutedStyle.Render(m.path)
	}
	if m.sess.Loading() {
		title += " " + m.spinner.View() + " loading"
	}
	b.WriteString(title + "\n\n")

	if m.sess.Table() == nil {
		b.WriteString(mutedStyle.Render("no file loaded, press o to open one") + "\n")
	} else {
		b.WriteString(m.columnsView() + "\n")
		width := 0
		if m.width > 30 {
			width = m.width - 24
		}
		plots := renderStacked(m.current.Raw, m.current.Processed, plotOptions{Height: m.plotHeight, Width: width})
		b.WriteString(plotStyle.Render(plots) + "\n")
		b.WriteString(m.processorsView() + "\n")
	}

	if m.mode != modeView {
		b.WriteString(inputStyle.Render(m.input.View()) + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(mutedStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(Keys))
	return appStyle.Render(b.String())
}

func (m *model) columnsView() string {
	var cells []string
	for _, c := range m.sess.Columns() {
		if c == m.sess.Column() {
			cells = append(cells, activeStyle.Render(c))
		} else {
			cells = append(cells, columnStyle.Render(c))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) processorsView() string {
	var parts []string
	for _, cfg := range m.sess.Pipeline().Steps() {
		label := cfg.Kind.String()
		switch cfg.Kind {
		case process.KindRangeFilter:
			label += fmt.Sprintf(" [%s, %s]", formatValue(cfg.Lower), formatValue(cfg.Upper))
		case process.KindMovingAverage:
			label += fmt.Sprintf(" w=%d", cfg.Window)
		}
		if cfg.Enabled {
			parts = append(parts, onStyle.Render("● "+label))
		} else {
			parts = append(parts, offStyle.Render("○ "+label))
		}
	}
	return strings.Join(parts, "   ")
}
