package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Records per month, overall and by process type",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("MONTHLY", f))
		fmt.Println()

		if len(r.Monthly) == 0 {
			printSkips(r, model.ViewMonthly)
			return nil
		}

		// Per-type counts laid out as one column per process type.
		var types []string
		byType := make(map[time.Time]map[string]int)
		seen := make(map[string]bool)
		for _, mt := range r.MonthType {
			if !seen[mt.Type] {
				seen[mt.Type] = true
				types = append(types, mt.Type)
			}
			if byType[mt.Month] == nil {
				byType[mt.Month] = make(map[string]int)
			}
			byType[mt.Month][mt.Type] = mt.Count
		}

		headers := append([]string{"Month", "Records"}, types...)
		rows := make([][]string, 0, len(r.Monthly))
		values := make([]float64, 0, len(r.Monthly))
		for _, m := range r.Monthly {
			row := []string{cli.FormatMonth(m.Month), cli.FormatNumber(int64(m.Count))}
			for _, typ := range types {
				row = append(row, cli.FormatNumber(int64(byType[m.Month][typ])))
			}
			rows = append(rows, row)
			values = append(values, float64(m.Count))
		}

		fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
		fmt.Println()
		fmt.Printf("  Trend  %s\n", cli.RenderSparkline(values))
		printSkips(r, model.ViewMonthType)
		return nil
	})
}
