package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var yearlyCmd = &cobra.Command{
	Use:   "yearly",
	Short: "Records and totals per calendar year",
	RunE:  runYearly,
}

func init() {
	rootCmd.AddCommand(yearlyCmd)
}

func runYearly(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("YEARLY", f))
		fmt.Println()

		if len(r.Yearly) == 0 {
			printSkips(r, model.ViewYearly)
			return nil
		}

		headers := []string{"Year", "Records"}
		if r.HasTotal {
			headers = append(headers, "Total")
		}
		rows := make([][]string, 0, len(r.Yearly))
		for _, y := range r.Yearly {
			row := []string{fmt.Sprint(y.Year), cli.FormatNumber(int64(y.Count))}
			if r.HasTotal {
				row = append(row, cli.FormatMoney(y.Total))
			}
			rows = append(rows, row)
		}
		fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
		if !r.HasTotal {
			fmt.Println(cli.RenderNotice(fmt.Sprintf("no %q column, totals omitted", model.FieldTotal)))
		}
		return nil
	})
}
