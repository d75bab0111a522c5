package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Share of records by process type",
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("PROCESS TYPES", f))
		fmt.Println()

		if len(r.Types) == 0 {
			printSkips(r, model.ViewTypes)
			return nil
		}

		total := 0
		for _, tc := range r.Types {
			total += tc.Count
		}
		rows := make([][]string, 0, len(r.Types))
		for _, tc := range r.Types {
			rows = append(rows, []string{
				tc.Type,
				cli.FormatNumber(int64(tc.Count)),
				cli.FormatPercent(float64(tc.Count) / float64(total)),
				cli.RenderShareBar(tc.Count, total, 30),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Type", "Records", "Share", ""},
			Rows:    rows,
		}))
		return nil
	})
}
