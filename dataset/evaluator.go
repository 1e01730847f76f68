package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
	"github.com/jonesrussell/north-cloud/jsonld-quality/logger"
	"github.com/jonesrussell/north-cloud/jsonld-quality/quality"
	"github.com/jonesrussell/north-cloud/jsonld-quality/telemetry"
	"github.com/jonesrussell/north-cloud/jsonld-quality/validation"
)

// DefaultConcurrency is the number of pages evaluated at once.
const DefaultConcurrency = 8

// Page is a fetched page reduced to its JSON-LD blocks.
type Page struct {
	URL    string
	Blocks [][]byte
}

// PageFromHTML extracts the JSON-LD blocks of an HTML page.
func PageFromHTML(pageURL string, r io.Reader) (Page, error) {
	blocks, err := jsonld.ExtractScripts(r)
	if err != nil {
		return Page{}, fmt.Errorf("extract structured data from %s: %w", pageURL, err)
	}
	return Page{URL: pageURL, Blocks: blocks}, nil
}

// Evaluator scores pages. It is safe for concurrent use.
type Evaluator struct {
	scorer      *quality.Scorer
	concurrency int
	telemetry   *telemetry.Provider
	log         logger.Logger
	now         func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithConcurrency bounds parallel evaluation in EvaluatePages. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTelemetry records metrics and spans for every page.
func WithTelemetry(tp *telemetry.Provider) Option {
	return func(e *Evaluator) { e.telemetry = tp }
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(log logger.Logger) Option {
	return func(e *Evaluator) { e.log = logger.OrNop(log) }
}

// WithClock sets the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator returns an Evaluator scoring with scorer. A nil scorer uses the default registry and
// threshold.
func NewEvaluator(scorer *quality.Scorer, opts ...Option) *Evaluator {
	if scorer == nil {
		scorer = quality.NewScorer(nil, nil)
	}
	e := &Evaluator{
		scorer:      scorer,
		concurrency: DefaultConcurrency,
		log:         logger.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluatePage scores every block of page and keeps the highest-scoring one; the first block wins
// ties. A page without blocks is rejected as no_jsonld_found.
func (e *Evaluator) EvaluatePage(ctx context.Context, page Page) Record {
	start := time.Now()
	log := logger.FromContext(ctx, e.log)

	if e.telemetry != nil {
		var span trace.Span
		ctx, span = e.telemetry.StartEvaluation(ctx, page.URL)
		defer span.End()
		defer e.telemetry.TrackActive()()
	}

	rec := Record{
		URL:             page.URL,
		RejectionReason: quality.ReasonNoJSONLD,
		Threshold:       e.scorer.MinScore(),
		BlockCount:      len(page.Blocks),
		BlockIndex:      -1,
		Timestamp:       e.now(),
	}

	best := -1.0
	for i, block := range page.Blocks {
		sb, d, b := e.scorer.Evaluate(block)
		if sb.TotalScore <= best {
			continue
		}
		best = sb.TotalScore
		fill(&rec, i, block, sb, d, b)
	}

	log.Debug("page evaluated",
		logger.String("url", rec.URL),
		logger.Int("blocks", rec.BlockCount),
		logger.Float64("score", rec.Score),
		logger.Bool("passed", rec.Passed),
		logger.String("reason", string(rec.RejectionReason)))

	e.record(ctx, rec, time.Since(start))
	return rec
}

func fill(rec *Record, index int, block []byte, sb quality.ScoreBreakdown, d quality.Decision, b *validation.Breakdown) {
	rec.Passed = d.Accepted
	rec.Score = d.Score
	rec.SchemaType = d.SchemaType
	rec.Breakdown = sb
	rec.RejectionReason = d.RejectionReason
	rec.Threshold = d.Threshold
	rec.BlockIndex = index
	rec.Layers = nil
	if b != nil {
		rec.Layers = b.Layers()
	}
	rec.JSONLD = nil
	if json.Valid(block) {
		rec.JSONLD = json.RawMessage(block)
	}
}

func (e *Evaluator) record(ctx context.Context, rec Record, elapsed time.Duration) {
	if e.telemetry == nil {
		return
	}
	e.telemetry.RecordBlocks(rec.BlockCount)
	e.telemetry.RecordDecision(ctx, rec.Passed, string(rec.RejectionReason), rec.Score, elapsed)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Bool("page.passed", rec.Passed),
		attribute.Float64("page.score", rec.Score),
		attribute.String("page.schema_type", rec.SchemaType),
		attribute.Int("page.blocks", rec.BlockCount),
	)
}

// EvaluatePages evaluates pages with bounded parallelism. Records keep the order of pages.
// Cancellation stops the batch between pages and returns the context error with no records.
func (e *Evaluator) EvaluatePages(ctx context.Context, pages []Page) ([]Record, error) {
	if len(pages) == 0 {
		return []Record{}, nil
	}

	log := logger.FromContext(ctx, e.log)
	log.Info("starting batch evaluation",
		logger.Int("batch_size", len(pages)),
		logger.Int("concurrency", e.concurrency))
	start := time.Now()

	records := make([]Record, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = e.EvaluatePage(gctx, page)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("batch evaluation cancelled", logger.Error(err))
		return nil, fmt.Errorf("evaluate pages: %w", err)
	}

	summary := Summarize(records)
	log.Info("batch evaluation complete",
		logger.Int("total", summary.Total),
		logger.Int("passed", summary.Passed),
		logger.Int("rejected", summary.Rejected),
		logger.Duration("duration", time.Since(start)))

	return records, nil
}
