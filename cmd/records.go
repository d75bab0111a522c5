package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var (
	flagRecordsLimit   int
	flagRecordsColumns string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the filtered records",
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVarP(&flagRecordsLimit, "limit", "n", 20, "Rows to show (0 for all)")
	recordsCmd.Flags().StringVar(&flagRecordsColumns, "columns",
		strings.Join([]string{model.FieldBuyer, model.FieldProvider, model.FieldType, model.FieldAmount, model.FieldDate}, ","),
		"Comma-separated columns to show; absent ones are ignored")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, _ *model.Report, t *model.Table) error {
		fmt.Println()
		fmt.Println(title("RECORDS", f))
		fmt.Println()

		cols := pickColumns(t, flagRecordsColumns)
		if len(cols) == 0 {
			cols = t.Columns
		}

		rows := t.Rows
		if flagRecordsLimit > 0 && len(rows) > flagRecordsLimit {
			rows = rows[:flagRecordsLimit]
		}
		out := make([][]string, len(rows))
		for i, row := range rows {
			cells := make([]string, len(cols))
			for j, c := range cols {
				cells[j] = truncate(row.Cells[c], 40)
			}
			out[i] = cells
		}

		fmt.Print(cli.RenderTable(cli.Table{Headers: cols, Rows: out}))
		if len(rows) < t.Len() {
			fmt.Printf("  %s of %s records shown\n",
				cli.FormatNumber(int64(len(rows))), cli.FormatNumber(int64(t.Len())))
		}
		return nil
	})
}

// pickColumns returns the requested columns that the table has, in order.
func pickColumns(t *model.Table, list string) []string {
	var cols []string
	for _, c := range strings.Split(list, ",") {
		c = strings.TrimSpace(c)
		if c != "" && t.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
