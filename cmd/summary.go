package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Key figures, amount statistics and conclusions",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("COMPRAS", f))
		fmt.Println()

		rows := [][]string{
			{"Records", cli.FormatNumber(int64(r.Records))},
			{"Fetched", cli.FormatNumber(int64(r.Fetched))},
			{"Dated", cli.FormatNumber(int64(r.Dated))},
		}
		if r.HasAmount {
			a := r.Amount
			rows = append(rows,
				[]string{"---"},
				[]string{"Total amount", cli.FormatMoney(a.Sum)},
				[]string{"Mean per record", cli.FormatMoney(a.Mean)},
				[]string{"Max / Min", cli.FormatMoney(a.Max) + " / " + cli.FormatMoney(a.Min)},
			)
		}
		if len(r.Providers) > 0 {
			top := r.Providers[0]
			rows = append(rows,
				[]string{"---"},
				[]string{"Top provider", fmt.Sprintf("%s (%s)", top.Provider, cli.FormatNumber(int64(top.Count)))},
			)
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		if r.HasAmount {
			fmt.Println()
			fmt.Print(renderDescribe(r.Amount))
		}

		fmt.Println()
		fmt.Print(renderConclusions(f, r))
		printSkips(r)
		return nil
	})
}

// renderDescribe prints the descriptive statistics of the amount column.
func renderDescribe(a model.AmountStats) string {
	return cli.RenderTable(cli.Table{
		Title:   "Amount statistics",
		Headers: []string{"Stat", "Value"},
		Rows: [][]string{
			{"count", cli.FormatNumber(int64(a.Count))},
			{"mean", cli.FormatMoney(a.Mean)},
			{"std", cli.FormatMoney(a.Std)},
			{"min", cli.FormatMoney(a.Min)},
			{"25%", cli.FormatMoney(a.P25)},
			{"50%", cli.FormatMoney(a.Median)},
			{"75%", cli.FormatMoney(a.P75)},
			{"max", cli.FormatMoney(a.Max)},
		},
	})
}

func renderConclusions(f model.Filter, r *model.Report) string {
	lines := []struct{ label, value string }{
		{"Region", f.Region},
		{"Year", fmt.Sprint(f.Year)},
		{"Process type", f.Type},
		{"Records found", cli.FormatNumber(int64(r.Records))},
	}
	if f.SinceYear > 0 {
		lines = append(lines, struct{ label, value string }{"Dated from", fmt.Sprint(f.SinceYear)})
	}

	out := cli.RenderHeading("Conclusions") + "\n"
	for _, l := range lines {
		out += cli.RenderKV(l.label, l.value, 14) + "\n"
	}
	return out
}
