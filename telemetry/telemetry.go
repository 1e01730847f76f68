// Package telemetry provides Prometheus metrics and OpenTelemetry tracing for the scoring pipeline.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "jsonld-quality"
	namespace   = "jsonld_quality"
)

// Outcome labels for decisions.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	// Discovery metrics
	PreScoresTotal *prometheus.CounterVec
	PreScore       prometheus.Histogram

	// Evaluation metrics
	DecisionsTotal     *prometheus.CounterVec
	QualityScore       prometheus.Histogram
	EvaluationDuration prometheus.Histogram
	BlocksPerPage      prometheus.Histogram
	ActiveEvaluations  prometheus.Gauge
}

// Provider wraps the tracer and the metrics.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider registers the metrics with reg. A nil reg means prometheus.DefaultRegisterer, which
// allows only one provider per process.
func NewProvider(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(promauto.With(reg)),
	}
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}
	initDiscoveryMetrics(f, m)
	initEvaluationMetrics(f, m)
	return m
}

func initDiscoveryMetrics(f promauto.Factory, m *Metrics) {
	m.PreScoresTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prescores_total",
		Help:      "Total URLs pre-scored, by content type and exclusion",
	}, []string{"content_type", "excluded"})

	m.PreScore = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prescore",
		Help:      "Distribution of URL pre-scores (0-100)",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})
}

func initEvaluationMetrics(f promauto.Factory, m *Metrics) {
	m.DecisionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total page decisions, by outcome and rejection reason",
	}, []string{"outcome", "reason"})

	m.QualityScore = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quality_score",
		Help:      "Distribution of composite quality scores (0-110)",
		Buckets:   prometheus.LinearBuckets(10, 10, 11),
	})

	m.EvaluationDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Time to validate and score every block of a page",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	m.BlocksPerPage = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "blocks_per_page",
		Help:      "Number of JSON-LD blocks extracted per page",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})

	m.ActiveEvaluations = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_evaluations",
		Help:      "Pages currently being evaluated",
	})
}

// RecordPreScore records one pre-scored URL.
func (p *Provider) RecordPreScore(_ context.Context, contentType string, excluded bool, score float64) {
	if contentType == "" {
		contentType = "unknown"
	}
	p.Metrics.PreScoresTotal.WithLabelValues(contentType, strconv.FormatBool(excluded)).Inc()
	if !excluded {
		p.Metrics.PreScore.Observe(score)
	}
}

// RecordDecision records the decision for one page.
func (p *Provider) RecordDecision(_ context.Context, accepted bool, reason string, score float64, duration time.Duration) {
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	p.Metrics.DecisionsTotal.WithLabelValues(outcome, reason).Inc()
	p.Metrics.QualityScore.Observe(score)
	p.Metrics.EvaluationDuration.Observe(duration.Seconds())
}

// RecordBlocks records how many blocks a page carried.
func (p *Provider) RecordBlocks(count int) {
	p.Metrics.BlocksPerPage.Observe(float64(count))
}

// TrackActive increments the active evaluation gauge and returns the matching decrement.
func (p *Provider) TrackActive() func() {
	p.Metrics.ActiveEvaluations.Inc()
	return p.Metrics.ActiveEvaluations.Dec
}

// StartEvaluation starts the span covering one page evaluation.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartEvaluation(ctx context.Context, pageURL string) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, "evaluate_page", trace.WithAttributes(attribute.String("page.url", pageURL)))
}
