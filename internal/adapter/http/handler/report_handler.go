package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/parklot/internal/adapter/http/dto"
	"github.com/iho/parklot/internal/chart"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/metrics"
	"github.com/iho/parklot/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error)
	GetDashboardStats(ctx context.Context) (*usecase.DashboardStats, error)
}

// ReportHandler handles report and dashboard requests.
type ReportHandler struct {
	reportUC ReportService
	renderer *chart.Renderer
	metrics  *metrics.Metrics
}

// NewReportHandler creates a new ReportHandler. metrics may be nil.
func NewReportHandler(reportUC ReportService, renderer *chart.Renderer, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		renderer: renderer,
		metrics:  m,
	}
}

// Get builds the report for the requested date filter.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("date_filter")
	start, end := usecase.ResolveDateFilter(filter, time.Now())
	if filter == "" {
		filter = usecase.Filter7Days
	}

	started := time.Now()
	report, err := h.reportUC.BuildReport(r.Context(), start, end)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsBuilt.WithLabelValues(filter).Inc()
		h.metrics.ReportDuration.Observe(time.Since(started).Seconds())
	}

	resp := dto.ReportFromDomain(report)
	resp.Charts = &dto.ChartSetResponse{
		DailyRevenue:      base64.StdEncoding.EncodeToString(h.renderer.DailyRevenue(report.DailyRevenue)),
		ClassDistribution: base64.StdEncoding.EncodeToString(h.renderer.ClassDistribution(report)),
		HourlyTrend:       base64.StdEncoding.EncodeToString(h.renderer.HourlyTrend(report.HourlyTrend)),
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stats returns the live dashboard snapshot.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportUC.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Chart renders one report chart as a PNG. The chart kind comes from the
// route; unknown kinds get a 404.
func (h *ReportHandler) Chart(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("date_filter")
	start, end := usecase.ResolveDateFilter(filter, time.Now())

	report, err := h.reportUC.BuildReport(r.Context(), start, end)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	var png []byte
	kind := chi.URLParam(r, "kind")
	switch kind {
	case "daily-revenue":
		png = h.renderer.DailyRevenue(report.DailyRevenue)
	case "class-distribution":
		png = h.renderer.ClassDistribution(report)
	case "hourly-trend":
		png = h.renderer.HourlyTrend(report.HourlyTrend)
	default:
		writeError(w, http.StatusNotFound, "unknown chart", "")
		return
	}

	if h.metrics != nil {
		h.metrics.ChartsRendered.WithLabelValues(kind).Inc()
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
