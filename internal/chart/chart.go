// Package chart renders report visualizations as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iho/parklot/internal/domain"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// Renderer draws report charts. Rendering never fails from the caller's
// point of view: when a chart cannot be drawn (no data, renderer error)
// a labelled placeholder image is returned instead.
type Renderer struct{}

// NewRenderer creates a chart renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// DailyRevenue renders revenue per day as a line chart.
func (r *Renderer) DailyRevenue(points []domain.DailyRevenuePoint) []byte {
	if !hasRevenue(points) {
		return r.Placeholder("No revenue recorded for this period")
	}

	xs := make([]time.Time, 0, len(points))
	twoWheeler := make([]float64, 0, len(points))
	fourWheeler := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, p.Day)
		twoWheeler = append(twoWheeler, p.TwoWheelerRevenue.InexactFloat64())
		fourWheeler = append(fourWheeler, p.FourWheelerRevenue.InexactFloat64())
	}

	graph := chart.Chart{
		Title:  "Daily Revenue",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Revenue",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    domain.TwoWheeler.Label(),
				XValues: xs,
				YValues: twoWheeler,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(40),
				},
			},
			chart.TimeSeries{
				Name:    domain.FourWheeler.Label(),
				XValues: xs,
				YValues: fourWheeler,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					FillColor:   chart.ColorGreen.WithAlpha(40),
				},
			},
		},
	}

	return r.render(&graph, "Daily revenue chart unavailable")
}

// ClassDistribution renders the entry split between vehicle classes
// as a pie chart.
func (r *Renderer) ClassDistribution(report *domain.Report) []byte {
	if report.TotalEntries() == 0 {
		return r.Placeholder("No entries recorded for this period")
	}

	graph := chart.PieChart{
		Title:  "Vehicle Class Distribution",
		Width:  chartHeight,
		Height: chartHeight,
		Values: []chart.Value{
			{
				Value: float64(report.TwoWheeler.EntryCount),
				Label: fmt.Sprintf("%s (%d)", domain.TwoWheeler.Label(), report.TwoWheeler.EntryCount),
			},
			{
				Value: float64(report.FourWheeler.EntryCount),
				Label: fmt.Sprintf("%s (%d)", domain.FourWheeler.Label(), report.FourWheeler.EntryCount),
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return r.Placeholder("Class distribution chart unavailable")
	}
	return buf.Bytes()
}

// HourlyTrend renders the hour-of-day entry distribution as a bar chart.
func (r *Renderer) HourlyTrend(buckets [24]domain.HourlyBucket) []byte {
	total := 0
	for _, b := range buckets {
		total += b.TwoWheeler + b.FourWheeler
	}
	if total == 0 {
		return r.Placeholder("No entries recorded for this period")
	}

	bars := make([]chart.Value, 0, len(buckets))
	for _, b := range buckets {
		bars = append(bars, chart.Value{
			Value: float64(b.TwoWheeler + b.FourWheeler),
			Label: fmt.Sprintf("%02d", b.Hour),
		})
	}

	graph := chart.BarChart{
		Title:    "Entries by Hour",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 20,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return r.Placeholder("Hourly trend chart unavailable")
	}
	return buf.Bytes()
}

// Placeholder renders a neutral image carrying the given label. Used when
// a chart has no data or fails to render, so report pages always have an
// image to embed.
func (r *Renderer) Placeholder(label string) []byte {
	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.HideXAxis(),
		YAxis:  chart.HideYAxis(),
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
				},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: 0.5, YValue: 0, Label: label},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		// Rendering a flat annotated series should not fail; fall back
		// to a minimal hand-built PNG so callers always get image bytes.
		return blankPNG()
	}
	return buf.Bytes()
}

func (r *Renderer) render(graph *chart.Chart, fallbackLabel string) []byte {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return r.Placeholder(fallbackLabel)
	}
	return buf.Bytes()
}

func hasRevenue(points []domain.DailyRevenuePoint) bool {
	for _, p := range points {
		if p.TwoWheelerRevenue.IsPositive() || p.FourWheelerRevenue.IsPositive() {
			return true
		}
	}
	return false
}
