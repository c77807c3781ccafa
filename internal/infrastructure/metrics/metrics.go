package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated *prometheus.CounterVec
	ExitsProcessed *prometheus.CounterVec
	TokenRetries   prometheus.Counter
	TokenExhausted prometheus.Counter
	FeeCollected   *prometheus.CounterVec
	StayDuration   *prometheus.HistogramVec
	OpenEntries    *prometheus.GaugeVec

	// Report metrics
	ReportsBuilt   *prometheus.CounterVec
	ReportDuration prometheus.Histogram
	ExportsServed  *prometheus.CounterVec
	ChartsRendered *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Entry metrics
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_entries_created_total",
				Help: "Total number of parking entries created",
			},
			[]string{"vehicle_class"},
		),
		ExitsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_exits_processed_total",
				Help: "Total number of exits processed",
			},
			[]string{"vehicle_class"},
		),
		TokenRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parklot_token_retries_total",
			Help: "Total number of token generation retries after a collision",
		}),
		TokenExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parklot_token_exhausted_total",
			Help: "Total number of entries rejected after exhausting token attempts",
		}),
		FeeCollected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_fee_collected_total",
				Help: "Total fees collected at exit",
			},
			[]string{"vehicle_class"},
		),
		StayDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parklot_stay_duration_hours",
				Help:    "Billed parking duration in hours",
				Buckets: []float64{1, 2, 4, 8, 12, 24, 48, 72},
			},
			[]string{"vehicle_class"},
		),
		OpenEntries: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "parklot_open_entries",
				Help: "Currently parked vehicles",
			},
			[]string{"vehicle_class"},
		),

		// Report metrics
		ReportsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_reports_built_total",
				Help: "Total reports built by date filter",
			},
			[]string{"date_filter"},
		),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "parklot_report_duration_seconds",
			Help:    "Duration of report aggregation",
			Buckets: prometheus.DefBuckets,
		}),
		ExportsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_exports_served_total",
				Help: "Total spreadsheet exports served by period",
			},
			[]string{"period"},
		),
		ChartsRendered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parklot_charts_rendered_total",
				Help: "Total charts rendered by kind",
			},
			[]string{"kind"},
		),
	}
}
