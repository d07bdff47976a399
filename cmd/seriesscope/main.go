// Command seriesscope loads a time-series table and shows one column before
// and after range filtering, moving-average smoothing and duplicate removal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/logger"
	"github.com/wdm0006/seriesscope/pkg/settings"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitInputError   = 1
	ExitConfigError  = 2
	ExitRuntimeError = 3
)

var version = "0.1.0-dev"

// app carries the global flags and the state opened from them.
type app struct {
	verbose      bool
	logFile      string
	settingsPath string
	timestamp    string
	strict       bool

	store   *settings.Store
	cleanup func()
}

func (a *app) loadOptions() tableio.LoadOptions {
	return tableio.LoadOptions{TimestampColumn: a.timestamp, Strict: a.strict}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errhandling.CategoryOf(err) {
	case errhandling.CategoryInput, errhandling.CategoryColumnNotFound, errhandling.CategoryEmptyInput:
		return ExitInputError
	case errhandling.CategoryConfiguration:
		return ExitConfigError
	}
	return ExitRuntimeError
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "seriesscope", "settings.json")
}

func newRootCmd() *cobra.Command {
	a := &app{cleanup: func() {}}
	root := &cobra.Command{
		Use:   "seriesscope",
		Short: "Inspect a time-series column before and after processing",
		Long: `seriesscope loads a CSV, TSV, JSON Lines or Parquet table, picks one
numeric column and runs it through a fixed pipeline:

  range filter -> moving average -> duplicate filter

Examples:
  seriesscope tui data.csv
  seriesscope columns data.csv
  seriesscope plot data.csv --column Temp --range 0:100 --dedup
  seriesscope export data.csv out.parquet --column Temp --window 5`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose {
				logger.SetLevel(slog.LevelDebug)
			} else {
				logger.SetLevel(slog.LevelWarn)
			}
			// the TUI owns the terminal, so it always redirects
			if a.logFile != "" || cmd.Name() == "tui" {
				cleanup, err := logger.Setup(a.logFile)
				if err != nil {
					return fmt.Errorf("log file: %w", err)
				}
				a.cleanup = cleanup
			}
			store, err := settings.Open(a.settingsPath)
			if err != nil {
				logger.Warn("settings ignored", "path", a.settingsPath, "error", err)
				store, _ = settings.Open("")
			}
			a.store = store
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.cleanup()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Append logs to this file")
	root.PersistentFlags().StringVar(&a.settingsPath, "settings", defaultSettingsPath(), "Settings file (.json, .yaml or .toml)")
	root.PersistentFlags().StringVar(&a.timestamp, "timestamp", "", "Timestamp column (default: first column)")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "Fail on malformed rows and unparseable cells instead of reading them as null")

	root.AddCommand(newTUICmd(a), newColumnsCmd(a), newPlotCmd(a), newExportCmd(a))
	return root
}
