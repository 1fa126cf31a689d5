package usage

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"poster-server/internal/domain"
)

// MetricsSink exports usage records as Prometheus metrics.
type MetricsSink struct {
	calls    *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	images   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsSink registers the usage metrics with reg.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	f := promauto.With(reg)
	return &MetricsSink{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poster_external_calls_total",
			Help: "External service calls made by the poster pipeline.",
		}, []string{"route", "model", "success"}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poster_external_tokens_total",
			Help: "Tokens consumed by external calls, by direction.",
		}, []string{"route", "model", "direction"}),
		images: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poster_generated_images_total",
			Help: "Images returned by the generation service.",
		}, []string{"model"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poster_external_call_duration_seconds",
			Help:    "Duration of external calls.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"route"}),
	}
}

func (m *MetricsSink) Record(_ context.Context, _ string, records []domain.GenerationUsage) error {
	for _, r := range records {
		route := string(r.Route)
		m.calls.WithLabelValues(route, r.Model, strconv.FormatBool(r.Success)).Inc()
		m.tokens.WithLabelValues(route, r.Model, "input").Add(float64(r.InputTokens))
		m.tokens.WithLabelValues(route, r.Model, "output").Add(float64(r.OutputTokens))
		if r.ImageCount > 0 {
			m.images.WithLabelValues(r.Model).Add(float64(r.ImageCount))
		}
		m.duration.WithLabelValues(route).Observe(r.Duration.Seconds())
	}
	return nil
}

var _ Sink = (*MetricsSink)(nil)
