// Package export writes the filtered table and its report as CSV, XLSX
// and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/theirongolddev/compras/internal/model"
)

// CSVFilename is the suggested name for CSV downloads.
const CSVFilename = "compras_filtradas.csv"

// emptyRecord is a single quoted empty field. csv.Writer renders a record
// with no non-empty field as a blank line, which readers skip.
const emptyRecord = "\"\"\n"

// WriteCSV writes t as UTF-8 CSV with a header row. Columns follow
// t.Columns and missing values are written as empty cells. A table with no
// columns is written as one unnamed column so every row keeps a line.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := writeRecord(w, cw, t.Columns); err != nil {
		return fmt.Errorf("export: writing csv header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			record[i] = row.Cells[c]
		}
		if err := writeRecord(w, cw, record); err != nil {
			return fmt.Errorf("export: writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flushing csv: %w", err)
	}
	return nil
}

// writeRecord writes record through cw, except records that would come out
// as a blank line, which are written to w as emptyRecord.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) > 1 || (len(record) == 1 && record[0] != "") {
		return cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, emptyRecord)
	return err
}
