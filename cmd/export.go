package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/export"
	"github.com/theirongolddev/compras/internal/model"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records or the report to a file",
	Long: "Write the filtered records as CSV or XLSX, or the summary report as PDF.\n" +
		"Use -o - to write to stdout.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "Output format: csv, xlsx or pdf")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output path (default depends on format)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(flagExportFormat)
	var name string
	switch format {
	case "csv":
		name = export.CSVFilename
	case "xlsx":
		name = export.XLSXFilename
	case "pdf":
		name = export.PDFFilename
	default:
		return fmt.Errorf("unknown export format %q (want csv, xlsx or pdf)", flagExportFormat)
	}
	if flagExportOutput != "" {
		name = flagExportOutput
	}

	return withReport(cmd, func(_ model.Filter, r *model.Report, t *model.Table) error {
		if name == "-" {
			return writeExport(os.Stdout, format, r, t)
		}

		f, err := os.Create(name) //nolint:gosec // user-chosen output path
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if err := writeExport(f, format, r, t); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", name, err)
		}
		progressf("  Wrote %s\n", name)
		return nil
	})
}

func writeExport(w io.Writer, format string, r *model.Report, t *model.Table) error {
	switch format {
	case "xlsx":
		return export.WriteXLSX(w, t, r)
	case "pdf":
		return export.WritePDF(w, r)
	default:
		return export.WriteCSV(w, t)
	}
}
