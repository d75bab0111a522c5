package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Record density by year and month",
	RunE:  runHeatmap,
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(cmd *cobra.Command, _ []string) error {
	return withReport(cmd, func(f model.Filter, r *model.Report, _ *model.Table) error {
		fmt.Println()
		fmt.Println(title("HEATMAP", f))
		fmt.Println()

		if r.Heatmap == nil {
			printSkips(r, model.ViewHeatmap)
			return nil
		}
		fmt.Print(cli.RenderHeatmap(r.Heatmap))
		return nil
	})
}
