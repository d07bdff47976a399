package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/wdm0006/seriesscope/pkg/frame"
)

const defaultPlotHeight = 10

type plotOptions struct {
	Height int
	Width  int // 0 plots one column per value
}

// renderASCII plots the non-null values of s. Nulls are skipped, so the
// horizontal axis is the position among present values.
func renderASCII(s frame.Series, caption string, opt plotOptions) string {
	data := s.Present()
	if len(data) == 0 {
		return caption + ": no data"
	}
	if opt.Height <= 0 {
		opt.Height = defaultPlotHeight
	}
	opts := []asciigraph.Option{
		asciigraph.Height(opt.Height),
		asciigraph.Caption(fmt.Sprintf("%s (%d values)", caption, len(data))),
	}
	if opt.Width > 0 {
		opts = append(opts, asciigraph.Width(opt.Width))
	}
	return asciigraph.Plot(data, opts...)
}

// renderStacked draws raw above processed.
func renderStacked(raw, processed frame.Series, opt plotOptions) string {
	var b strings.Builder
	b.WriteString(renderASCII(raw, "raw "+raw.Name(), opt))
	b.WriteString("\n\n")
	b.WriteString(renderASCII(processed, "processed "+processed.Name(), opt))
	return b.String()
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// continuous builds a chart series over the present values of s. A single
// value is widened to two points so the x range is not empty.
func continuous(name string, s frame.Series, col drawing.Color) (chart.ContinuousSeries, bool) {
	ys := s.Present()
	if len(ys) == 0 {
		return chart.ContinuousSeries{}, false
	}
	if len(ys) == 1 {
		ys = []float64{ys[0], ys[0]}
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: lineStyle(col)}, true
}

// writePNG renders raw and processed into one chart.
func writePNG(w io.Writer, raw, processed frame.Series) error {
	var series []chart.Series
	if cs, ok := continuous("raw", raw, chart.ColorAlternateGray); ok {
		series = append(series, cs)
	}
	if cs, ok := continuous("processed", processed, chart.ColorBlue); ok {
		series = append(series, cs)
	}
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot for %q", raw.Name())
	}
	ch := chart.Chart{
		Title:      raw.Name(),
		Width:      1024,
		Height:     480,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "position"},
		YAxis:      chart.YAxis{Name: raw.Name()},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}
