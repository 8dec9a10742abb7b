package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts service lookups. It implements opengraphio.Observer.
type Recorder struct {
	registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
}

// NewRecorder registers the lookup metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogio_fetches_total",
				Help: "Total number of OpenGraph.io lookups by service and outcome",
			},
			[]string{"service", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ogio_fetch_duration_seconds",
				Help:    "Duration of OpenGraph.io lookups in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"service"},
		),
	}
}

// ObserveFetch records one finished lookup.
func (r *Recorder) ObserveFetch(service, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.FetchesTotal.WithLabelValues(service, outcome).Inc()
	r.FetchDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
