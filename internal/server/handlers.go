package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/export"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/pipeline"
)

const maxRecordsLimit = 1000

type errorResponse struct {
	Error string `json:"error"`
}

// recordsResponse is a page of the filtered table.
type recordsResponse struct {
	Columns []string            `json:"columns"`
	Total   int                 `json:"total"`
	Offset  int                 `json:"offset"`
	Rows    []map[string]string `json:"rows"`
}

// parseFilter reads year, region, type and since_year from the query,
// falling back to defaults, and validates the result.
func parseFilter(r *http.Request, defaults model.Filter) (model.Filter, error) {
	f := defaults
	q := r.URL.Query()

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: year must be an integer", config.ErrInvalidFilter)
		}
		f.Year = year
	}
	if q.Has("region") {
		f.Region = strings.TrimSpace(q.Get("region"))
	}
	if v := q.Get("type"); v != "" {
		f.Type = v
	}
	if v := q.Get("since_year"); v != "" {
		since, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: since_year must be an integer", config.ErrInvalidFilter)
		}
		f.SinceYear = since
	}

	if err := config.ValidateFilter(f); err != nil {
		return f, err
	}
	return f, nil
}

// load parses the filter and builds the report, writing the error response
// itself when it returns false.
func (s *Service) load(w http.ResponseWriter, r *http.Request) (*model.Report, *model.Table, bool) {
	f, err := parseFilter(r, s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	report, table, err := s.report(r.Context(), f)
	switch {
	case errors.Is(err, pipeline.ErrNoData):
		s.writeError(w, r, http.StatusNotFound, "no data")
		return nil, nil, false
	case err != nil:
		s.log.Error("report failed", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
		return nil, nil, false
	}
	return report, table, true
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	report, _, ok := s.load(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

func (s *Service) handleRecords(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePage(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	_, table, ok := s.load(w, r)
	if !ok {
		return
	}

	resp := recordsResponse{
		Columns: table.Columns,
		Total:   table.Len(),
		Offset:  offset,
		Rows:    []map[string]string{},
	}
	for i := offset; i < table.Len() && i < offset+limit; i++ {
		resp.Rows = append(resp.Rows, table.Rows[i].Cells)
	}
	render.JSON(w, r, resp)
}

func parsePage(r *http.Request) (offset, limit int, err error) {
	q := r.URL.Query()
	limit = 100
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxRecordsLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxRecordsLimit)
		}
	}
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	return offset, limit, nil
}

func (s *Service) handleHistory(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.recentHistory())
}

func (s *Service) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	_, table, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", export.CSVFilename, buf.Bytes())
}

func (s *Service) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	report, table, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, table, report); err != nil {
		s.log.Error("xlsx export failed", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSXFilename, buf.Bytes())
}

func (s *Service) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	report, _, ok := s.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, report); err != nil {
		s.log.Error("pdf export failed", zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeAttachment(w, "application/pdf", export.PDFFilename, buf.Bytes())
}

// writeAttachment sends an already rendered document as a download.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
