package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wdm0006/seriesscope/pkg/session"
	"github.com/wdm0006/seriesscope/pkg/settings"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [file]",
		Short: "Browse a table interactively",
		Long: `Browse a table interactively. Without a file argument the last opened
file is reopened. Logs go to --log-file, or nowhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.store.String(settings.KeyLastFile, "")
			if len(args) == 1 {
				path = args[0]
			}
			m := newModel(session.New(cmd.Context()), a.store, path, a.loadOptions())
			defer m.close()
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
