package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/compras/internal/model"
)

// XLSXFilename is the suggested name for workbook downloads.
const XLSXFilename = "compras_filtradas.xlsx"

// Workbook sheet names.
const (
	SheetData      = "Datos"
	SheetSummary   = "Resumen"
	SheetProviders = "Proveedores"
)

// WriteXLSX writes a workbook with the filtered rows, the amount summary and
// the provider ranking.
func WriteXLSX(w io.Writer, t *model.Table, r *model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetData); err != nil {
		return fmt.Errorf("export: naming sheet: %w", err)
	}
	if err := writeDataSheet(f, t); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("export: adding sheet: %w", err)
	}
	if err := writeRows(f, SheetSummary, summaryRows(r)); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetProviders); err != nil {
		return fmt.Errorf("export: adding sheet: %w", err)
	}
	rows := [][]any{{"Proveedor", "Registros"}}
	for _, p := range r.Providers {
		rows = append(rows, []any{p.Provider, p.Count})
	}
	if err := writeRows(f, SheetProviders, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: writing workbook: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, t *model.Table) error {
	rows := make([][]any, 0, t.Len()+1)
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	rows = append(rows, header)

	for _, row := range t.Rows {
		values := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			values[i] = cellValue(row, c)
		}
		rows = append(rows, values)
	}
	return writeRows(f, SheetData, rows)
}

// cellValue keeps numeric columns numeric in the workbook.
func cellValue(row model.Row, column string) any {
	switch column {
	case model.FieldAmount:
		if row.HasAmount {
			return row.Amount
		}
	case model.FieldTotal:
		if row.HasTotal {
			return row.Total
		}
	case model.FieldContracts:
		if row.HasContracts {
			return row.Contracts
		}
	case model.FieldMonth:
		if row.HasDate {
			return row.Month()
		}
	case model.FieldYear:
		if row.HasDate {
			return row.Year()
		}
	default:
		return row.Cells[column]
	}
	return nil
}

func summaryRows(r *model.Report) [][]any {
	rows := [][]any{
		{"Indicador", "Valor"},
		{"Año", r.Filter.Year},
		{"Región", r.Filter.Region},
		{"Tipo", r.Filter.Type},
		{"Registros", r.Records},
	}
	if r.HasAmount {
		a := r.Amount
		rows = append(rows,
			[]any{"Montos válidos", a.Count},
			[]any{"Monto total", a.Sum},
			[]any{"Monto promedio", a.Mean},
			[]any{"Monto máximo", a.Max},
			[]any{"Monto mínimo", a.Min},
			[]any{"Desviación estándar", a.Std},
			[]any{"Percentil 25", a.P25},
			[]any{"Mediana", a.Median},
			[]any{"Percentil 75", a.P75},
		)
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("export: writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
