package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

const namespace = "archive_import"

// Recorder collects run metrics in a private registry and writes them to a
// node-exporter textfile on Flush.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	documents   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	words       prometheus.Histogram
	tokens      prometheus.Counter
	lastRun     prometheus.Gauge
	runDuration prometheus.Gauge
	runFailed   prometheus.Gauge
}

var _ ports.RunRecorder = (*Recorder)(nil)

// NewRecorder registers all collectors. An empty textfile disables Flush.
func NewRecorder(textfile string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed by outcome.",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejections by editorial rule.",
		}, []string{"reason"}),
		words: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "article_words",
			Help:      "Word count of accepted articles.",
			Buckets:   []float64{40, 100, 200, 400, 800, 1600, 3200},
		}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens of accepted articles.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Start time of the last run.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
		runFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed_documents",
			Help:      "Documents quarantined by the last run.",
		}),
	}

	r.registry.MustRegister(r.documents, r.rejections, r.words, r.tokens, r.lastRun, r.runDuration, r.runFailed)
	return r
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordOutcome counts one document.
func (r *Recorder) RecordOutcome(outcome domain.Outcome, metrics domain.Metrics) {
	r.documents.WithLabelValues(string(outcome.Kind)).Inc()

	switch outcome.Kind {
	case domain.OutcomeAccepted:
		r.words.Observe(float64(metrics.WordCount))
		r.tokens.Add(float64(metrics.TokenCount))
	case domain.OutcomeRejected:
		for _, reason := range outcome.Reasons {
			r.rejections.WithLabelValues(string(reason)).Inc()
		}
	}
}

// RecordRun stores the run summary gauges.
func (r *Recorder) RecordRun(summary domain.RunSummary) {
	r.lastRun.Set(float64(summary.Started.Unix()))
	r.runDuration.Set(summary.Duration.Seconds())
	r.runFailed.Set(float64(summary.Failed))
}

// Flush writes the registry to the configured textfile.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
