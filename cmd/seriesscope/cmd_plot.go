package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/logger"
	"github.com/wdm0006/seriesscope/pkg/process"
	"github.com/wdm0006/seriesscope/pkg/session"
	"github.com/wdm0006/seriesscope/pkg/settings"
)

// processFlags enable processors from the command line. A processor whose
// flag is absent stays disabled.
type processFlags struct {
	column    string
	rangeSpec string
	window    int
	dedup     bool
}

func (f *processFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.column, "column", "c", "", "Column to process (default: first selectable)")
	cmd.Flags().StringVar(&f.rangeSpec, "range", "", "Enable the range filter with bounds lo:hi")
	cmd.Flags().IntVar(&f.window, "window", 0, "Enable the moving average with this window")
	cmd.Flags().BoolVar(&f.dedup, "dedup", false, "Enable the duplicate filter")
}

// parseRange parses "lo:hi". Either side may be empty to keep the current
// bound.
func parseRange(spec string, lower, upper float64) (float64, float64, error) {
	lo, hi, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, errhandling.NewConfigurationError("range %q: want lo:hi", spec)
	}
	var err error
	if lo = strings.TrimSpace(lo); lo != "" {
		if lower, err = strconv.ParseFloat(lo, 64); err != nil {
			return 0, 0, errhandling.NewConfigurationError("range lower bound %q is not a number", lo)
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if upper, err = strconv.ParseFloat(hi, 64); err != nil {
			return 0, 0, errhandling.NewConfigurationError("range upper bound %q is not a number", hi)
		}
	}
	return lower, upper, nil
}

func (f *processFlags) configure(p *process.Pipeline) error {
	if f.rangeSpec != "" {
		rng := p.Config(process.KindRangeFilter)
		lo, hi, err := parseRange(f.rangeSpec, rng.Lower, rng.Upper)
		if err != nil {
			return err
		}
		if err := p.Set(process.Config{Kind: process.KindRangeFilter, Enabled: true, Lower: lo, Upper: hi}); err != nil {
			return err
		}
	}
	if f.window != 0 {
		if err := p.Set(process.Config{Kind: process.KindMovingAverage, Enabled: true, Window: f.window}); err != nil {
			return err
		}
	}
	if f.dedup {
		if err := p.SetEnabled(process.KindDuplicateFilter, true); err != nil {
			return err
		}
	}
	return nil
}

// run loads path, selects the column, applies the flags and returns the
// final output.
func (f *processFlags) run(ctx context.Context, a *app, path string) (session.Update, error) {
	s := session.New(ctx)
	if err := s.LoadFile(path, a.loadOptions()); err != nil {
		return session.Update{}, err
	}
	if f.column != "" && f.column != s.Column() {
		if err := s.SelectColumn(f.column); err != nil {
			return session.Update{}, err
		}
	}
	if err := f.configure(s.Pipeline()); err != nil {
		return session.Update{}, err
	}
	if err := s.Recompute(); err != nil {
		return session.Update{}, err
	}
	return s.Last(), nil
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		pf     processFlags
		height int
		width  int
		png    string
	)
	cmd := &cobra.Command{
		Use:   "plot <file>",
		Short: "Plot a column before and after processing",
		Long: `Plot a column before and after processing as two stacked terminal plots.

Examples:
  seriesscope plot data.csv --column Temp
  seriesscope plot data.csv --column Temp --range 0:100 --window 5 --dedup
  seriesscope plot data.csv --column Temp --png temp.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := pf.run(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if height <= 0 {
				height = a.store.Int(settings.KeyPlotHeight, defaultPlotHeight)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStacked(u.Raw, u.Processed, plotOptions{Height: height, Width: width}))
			if png == "" {
				return nil
			}
			out, err := os.Create(png)
			if err != nil {
				return err
			}
			if err := writePNG(out, u.Raw, u.Processed); err != nil {
				_ = out.Close()
				return err
			}
			logger.Info("chart written", "path", png)
			return out.Close()
		},
	}
	pf.register(cmd)
	cmd.Flags().IntVar(&height, "height", 0, "Plot height in rows")
	cmd.Flags().IntVar(&width, "width", 0, "Plot width in columns (default: one per value)")
	cmd.Flags().StringVar(&png, "png", "", "Also render a PNG chart to this path")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var pf processFlags
	cmd := &cobra.Command{
		Use:   "export <file> <out>",
		Short: "Write index, raw and processed values of a column",
		Long: `Write index, raw and processed values of a column. The output format
follows the extension of <out>: .csv, .tsv, .jsonl or .parquet (.gz compresses
text formats).

Examples:
  seriesscope export data.csv temp.csv --column Temp --range 0:100 --dedup
  seriesscope export data.parquet temp.jsonl --window 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := pf.run(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := tableio.Export(args[1], u.Raw, u.Processed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d raw and %d processed values of %s to %s\n",
				u.Raw.Len(), u.Processed.Len(), u.Column, args[1])
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}
