package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iho/parklot/internal/export"
	"github.com/iho/parklot/internal/infrastructure/metrics"
	"github.com/iho/parklot/internal/usecase"
)

// ExportService defines the behavior needed by ExportHandler.
type ExportService interface {
	BuildExport(ctx context.Context, start, end time.Time) (*usecase.ExportData, error)
}

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	reportUC ExportService
	metrics  *metrics.Metrics
}

// NewExportHandler creates a new ExportHandler. m may be nil.
func NewExportHandler(reportUC ExportService, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{reportUC: reportUC, metrics: m}
}

// Filtered serves the export for the requested date filter.
func (h *ExportHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("date_filter")
	start, end := usecase.ResolveDateFilter(filter, time.Now())
	if filter == "" {
		// ResolveDateFilter falls back to the 7-day window; the
		// filename label has to say so.
		filter = usecase.Filter7Days
	}

	filename := fmt.Sprintf("parking_report_%s_%s.xlsx", filter, time.Now().Format("20060102"))
	h.serve(w, r, start, end, filename, filter)
}

// Daily serves the export for the current calendar day.
func (h *ExportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	h.serve(w, r, start, start.AddDate(0, 0, 1), export.DailyFilename(now), "daily")
}

// Weekly serves the export for the trailing seven days.
func (h *ExportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)
	h.serve(w, r, start, end, export.WeeklyFilename(now), "weekly")
}

// Monthly serves the export for the current calendar month.
func (h *ExportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	h.serve(w, r, start, start.AddDate(0, 1, 0), export.MonthlyFilename(now), "monthly")
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, start, end time.Time, filename, period string) {
	data, err := h.reportUC.BuildExport(r.Context(), start, end)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build export", err.Error())
		return
	}

	workbook, err := export.Workbook(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsServed.WithLabelValues(period).Inc()
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(workbook)
}
