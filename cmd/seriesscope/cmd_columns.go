package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wdm0006/seriesscope/pkg/frame"
	"github.com/wdm0006/seriesscope/pkg/io/tableio"
	"github.com/wdm0006/seriesscope/pkg/profile"
)

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file>",
		Short: "List the selectable columns of a table with summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tableio.Load(args[0], a.loadOptions())
			if err != nil {
				return err
			}
			writeColumns(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func writeColumns(w io.Writer, t *frame.Frame) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Kind", "Count", "Nulls", "Min", "Max", "Mean"})
	table.SetAutoFormatHeaders(false)
	for _, cp := range profile.Table(t) {
		row := []string{cp.Name, cp.Kind.String(), strconv.Itoa(cp.Num.Count), strconv.Itoa(cp.Num.Nulls), "-", "-", "-"}
		if cp.Num.Count > 0 {
			row[4] = formatValue(cp.Num.Min)
			row[5] = formatValue(cp.Num.Max)
			row[6] = formatValue(cp.Num.Mean)
		}
		table.Append(row)
	}
	table.SetFooter([]string{"timestamp", t.TimestampColumn(), "", "", "", "", ""})
	table.Render()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
