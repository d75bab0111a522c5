package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Top providers by number of records",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("PROVIDERS", f))
		fmt.Println()

		if len(r.Providers) == 0 {
			printSkips(r, model.ViewProviders)
			return nil
		}

		rows := make([][]string, 0, len(r.Providers))
		bars := make([]cli.Bar, 0, len(r.Providers))
		for i, p := range r.Providers {
			share := 0.0
			if r.Records > 0 {
				share = float64(p.Count) / float64(r.Records)
			}
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				p.Provider,
				cli.FormatNumber(int64(p.Count)),
				cli.FormatPercent(share),
			})
			bars = append(bars, cli.Bar{Label: p.Provider, Value: float64(p.Count)})
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"#", "Provider", "Records", "Share"},
			Rows:    rows,
		}))
		fmt.Println()
		fmt.Print(cli.RenderBarChart(fmt.Sprintf("Top %d providers", len(bars)), bars, 40))
		return nil
	})
}
