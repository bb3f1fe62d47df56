// internal/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QSOsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qsolog_qsos_logged_total",
			Help: "Total number of QSOs logged from operator input",
		},
		[]string{"class"},
	)

	ParseAmbiguities = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qsolog_parse_ambiguities_total",
			Help: "Tokens that looked like a locator while a callsign was expected",
		},
	)

	QSOEdits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qsolog_qso_edits_total",
			Help: "Total number of QSO field edits",
		},
		[]string{"field", "result"},
	)

	LogSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qsolog_log_saves_total",
			Help: "Total number of log file saves",
		},
		[]string{"result"},
	)

	Score = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qsolog_score",
			Help: "Score of the last evaluation",
		},
		[]string{"call", "class"},
	)

	QSOPoints = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qsolog_qso_points",
			Help:    "Distribution of points per QSO",
			Buckets: prometheus.LinearBuckets(0, 100, 12),
		},
		[]string{"class"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// Result is the label value for outcome-labelled counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// WriteTextfile dumps the default registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
