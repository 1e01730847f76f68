package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/jsonld-quality/telemetry"
)

func newProvider(t *testing.T) (*telemetry.Provider, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return telemetry.NewProvider(reg), reg
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	require.NotNil(t, p.Tracer)
	require.NotNil(t, p.Metrics)

	// Separate registries do not collide.
	assert.NotPanics(t, func() { newProvider(t) })
}

func TestRecordPreScore(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx := context.Background()

	p.RecordPreScore(ctx, "faq", false, 87)
	p.RecordPreScore(ctx, "faq", false, 55)
	p.RecordPreScore(ctx, "", true, 0)

	assert.InDelta(t, 2.0, testutil.ToFloat64(p.Metrics.PreScoresTotal.WithLabelValues("faq", "false")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.PreScoresTotal.WithLabelValues("unknown", "true")), 1e-9)
}

func TestRecordDecision(t *testing.T) {
	t.Parallel()

	p, reg := newProvider(t)
	ctx := context.Background()

	p.RecordDecision(ctx, true, "", 102, 3*time.Millisecond)
	p.RecordDecision(ctx, false, "score_too_low", 61.5, time.Millisecond)
	p.RecordBlocks(2)

	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.DecisionsTotal.WithLabelValues("accepted", "")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.DecisionsTotal.WithLabelValues("rejected", "score_too_low")), 1e-9)

	expected := `
# HELP jsonld_quality_decisions_total Total page decisions, by outcome and rejection reason
# TYPE jsonld_quality_decisions_total counter
jsonld_quality_decisions_total{outcome="accepted",reason=""} 1
jsonld_quality_decisions_total{outcome="rejected",reason="score_too_low"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "jsonld_quality_decisions_total"))

	count, err := testutil.GatherAndCount(reg, "jsonld_quality_quality_score")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTrackActive(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)

	done := p.TrackActive()
	assert.InDelta(t, 1.0, testutil.ToFloat64(p.Metrics.ActiveEvaluations), 1e-9)
	done()
	assert.Zero(t, testutil.ToFloat64(p.Metrics.ActiveEvaluations))
}

func TestStartEvaluation(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx, span := p.StartEvaluation(context.Background(), "https://example.com/faq")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End()
}
