package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
)

// PDFFilename is the suggested name for PDF reports.
const PDFFilename = "compras_reporte.pdf"

var (
	headerColor       = [3]int{23, 37, 84}
	sectionTitleColor = [3]int{58, 169, 159}
	bodyTextColor     = [3]int{40, 40, 40}
	lineColor         = [3]int{200, 200, 200}
)

// WritePDF renders a one-document summary of r: filter, amount metrics,
// provider ranking and monthly counts.
func WritePDF(w io.Writer, r *model.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Compras públicas", true)
	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr("  Compras públicas"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	filter := fmt.Sprintf("  Año %d  ·  Región %q  ·  Tipo %s", r.Filter.Year, r.Filter.Region, r.Filter.Type)
	pdf.CellFormat(0, 8, tr(filter), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}
	row := func(label, value string) {
		pdf.CellFormat(80, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(value), "", 1, "R", false, 0, "")
	}

	section("Resumen")
	row("Registros", cli.FormatNumber(int64(r.Records)))
	if r.HasAmount {
		a := r.Amount
		row("Monto total", cli.FormatMoney(a.Sum))
		row("Monto promedio", cli.FormatMoney(a.Mean))
		row("Monto máximo", cli.FormatMoney(a.Max))
		row("Monto mínimo", cli.FormatMoney(a.Min))
		row("Mediana", cli.FormatMoney(a.Median))
	} else {
		row("Montos", "sin columna amount")
	}
	pdf.Ln(6)

	if len(r.Providers) > 0 {
		section("Principales proveedores")
		for i, p := range r.Providers {
			row(fmt.Sprintf("%2d. %s", i+1, p.Provider), strconv.Itoa(p.Count))
		}
		pdf.Ln(6)
	}

	if len(r.Monthly) > 0 {
		section("Registros por mes")
		for _, m := range r.Monthly {
			row(cli.FormatMonth(m.Month), strconv.Itoa(m.Count))
		}
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footer := "Fuente: datosabiertos.compraspublicas.gob.ec"
	if r.ID != "" {
		footer += "  ·  " + r.ID
	}
	pdf.CellFormat(0, 10, tr(footer), "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: writing pdf: %w", err)
	}
	return nil
}
