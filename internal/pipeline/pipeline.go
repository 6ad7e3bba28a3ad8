// Package pipeline orchestrates one analysis run: transaction source →
// aggregation engine → payload assembly → atomic snapshot commit.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/domain"
	"github.com/dvloznov/statement-insight/internal/external"
	"github.com/dvloznov/statement-insight/internal/source"
	"github.com/dvloznov/statement-insight/internal/store"
)

// DefaultSourceTimeout bounds the transaction source call, the pipeline's
// only I/O-bound external dependency. A timeout surfaces as
// domain.ErrSourceUnavailable.
const DefaultSourceTimeout = 60 * time.Second

// registryScoreCount is how many counterparties are scored per run.
const registryScoreCount = 3

// Runner executes analysis runs against one store.
type Runner struct {
	Source         source.Source
	Signals        external.Provider
	Store          *store.Store
	Gateway        *analytics.ModelGateway
	SourceTimeout  time.Duration
	TrendSmoothing int // 0 in production; the demo seed uses 3
	Log            zerolog.Logger
}

// Result is the outcome of one successful analysis run.
type Result struct {
	Snapshot   *store.AnalysisSnapshot
	Statistics *store.AnalysisStatistics
	Payload    domain.AnalysisPayload
}

// Run analyzes one document end to end and commits the snapshot. The
// document reaches done only after the commit succeeds; any earlier failure
// leaves it in analyzing so the run can be retried.
func (r *Runner) Run(ctx context.Context, doc *store.UploadedDocument, title string, entries []store.AuditEntry) (*Result, error) {
	if doc.Status == domain.StatusReceived {
		if err := r.Store.SetDocumentStatus(ctx, doc.ID, domain.StatusAnalyzing); err != nil {
			return nil, err
		}
	}

	batch, err := r.fetchBatch(ctx, doc.DisplayName)
	if err != nil {
		return nil, err
	}

	scores := make([]domain.Score, 0, registryScoreCount)
	for idx := 0; idx < registryScoreCount; idx++ {
		score, err := r.Signals.CounterpartyScore(ctx, fmt.Sprintf("77%06d", 450000+idx*3))
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	signals, err := r.Signals.LatestSignals(ctx)
	if err != nil {
		return nil, err
	}

	views := r.aggregate(ctx, batch)
	payload := Assemble(r.Gateway, batch, views, scores, signals, time.Now())

	snapshot, stats, err := r.Store.CommitSnapshot(ctx, uuid.New(), &doc.ID, payload, title, entries)
	if err != nil {
		return nil, err
	}

	if err := r.Store.SetDocumentStatus(ctx, doc.ID, domain.StatusDone); err != nil {
		return nil, err
	}

	r.Log.Info().
		Str("document", doc.DisplayName).
		Str("snapshot_id", snapshot.ID.String()).
		Int("transactions", len(batch)).
		Msg("Analysis run completed")

	return &Result{Snapshot: snapshot, Statistics: stats, Payload: payload}, nil
}

// fetchBatch calls the transaction source under the configured timeout.
func (r *Runner) fetchBatch(ctx context.Context, documentName string) ([]domain.TransactionRecord, error) {
	timeout := r.SourceTimeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	batch, err := r.Source.Generate(ctx, documentName)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: source call timed out: %v", domain.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	return batch, nil
}

// aggregate runs the four independent bucketing functions concurrently over
// the immutable batch. They share no state; assembly waits on all of them.
func (r *Runner) aggregate(ctx context.Context, batch []domain.TransactionRecord) Views {
	var views Views
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		views.RiskMix = analytics.RiskMix(batch)
		return nil
	})
	g.Go(func() error {
		views.CounterpartyVolume = analytics.CounterpartyVolume(batch)
		return nil
	})
	g.Go(func() error {
		views.CounterpartyTrend = analytics.CounterpartyTrend(batch, r.TrendSmoothing)
		return nil
	})
	g.Go(func() error {
		views.CounterpartyVelocity = analytics.CounterpartyVelocity(batch)
		return nil
	})

	// The aggregations are pure and never fail; Wait only synchronizes.
	_ = g.Wait()
	return views
}
