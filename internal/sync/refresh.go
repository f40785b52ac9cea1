package sync

import (
	"context"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
)

// RefreshConfig tunes one refresh run.
type RefreshConfig struct {
	Workers int
	Policy  store.RefreshPolicy
}

// Refresh keeps stored DUEs current with minimal upstream traffic. Cancelled
// declarations are never touched; pending ones always re-fetch; settled ones
// get a cheap revision probe first and re-fetch only when the upstream
// revision moved forward.
type Refresh struct {
	api   siscomex.DueAPI
	store store.Store
	fetch *Fetcher
	clock adapter.Clock
	cfg   RefreshConfig
}

// NewRefresh wires the refresh pipeline.
func NewRefresh(api siscomex.DueAPI, st store.Store, fetch *Fetcher, clock adapter.Clock, cfg RefreshConfig) *Refresh {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Refresh{
		api:   api,
		store: st,
		fetch: fetch,
		clock: clock,
		cfg:   cfg,
	}
}

// Run executes one refresh pass over the eligible DUEs.
func (r *Refresh) Run(ctx context.Context) (*Summary, error) {
	started := r.clock.Now()
	summary := NewSummary("refresh-existing", started)

	candidates, err := r.store.SelectRefreshCandidates(ctx, r.cfg.Policy)
	if err != nil {
		return summary, err
	}

	logger.InfoCtx(ctx, "refresh candidates selected",
		zap.String("run_id", summary.RunID),
		zap.Int("candidates", len(candidates)),
	)

	pool := pond.NewPool(r.cfg.Workers, pond.WithContext(ctx))
	for _, candidate := range candidates {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			r.refreshOne(ctx, candidate, summary)
		})
	}
	pool.StopAndWait()

	summary.Duration = r.clock.Since(started)
	return summary, ctx.Err()
}

func (r *Refresh) refreshOne(ctx context.Context, candidate store.RefreshCandidate, summary *Summary) {
	switch candidate.Kind {
	case store.CandidateSettledStale:
		r.refreshSettled(ctx, candidate, summary)
	default:
		// Orphans, pending and recently settled declarations skip the probe.
		if err := r.fetch.FetchAndPersist(ctx, candidate.Number, nil); err != nil {
			summary.AddError(string(candidate.Number), err)
			return
		}
		summary.AddSuccess()
	}
}

// refreshSettled probes the remote revision and fetches only when it moved.
func (r *Refresh) refreshSettled(ctx context.Context, candidate store.RefreshCandidate, summary *Summary) {
	var revision *domain.Revision
	err := retryTransient(ctx, func() error {
		var err error
		revision, err = r.api.ProbeRevision(ctx, candidate.Number)
		return err
	})
	if err != nil {
		summary.AddError(string(candidate.Number), err)
		return
	}

	stored := candidate.StoredRevision
	switch {
	case stored != nil && revision.RemoteTime.Equal(*stored):
		// Unchanged upstream: only the sync mark moves.
		if err := r.store.MarkSynced(ctx, candidate.Number, r.clock.Now().UTC()); err != nil {
			summary.AddError(string(candidate.Number), err)
			return
		}
		summary.AddUnchanged()
	case stored != nil && revision.RemoteTime.Before(*stored):
		// An upstream revision older than ours is unexpected; keep our data.
		logger.WarnCtx(ctx, "upstream revision older than stored, not overwriting",
			zap.String("due", string(candidate.Number)),
			zap.Time("stored", *stored),
			zap.Time("upstream", revision.RemoteTime),
		)
		if err := r.store.MarkSynced(ctx, candidate.Number, r.clock.Now().UTC()); err != nil {
			summary.AddError(string(candidate.Number), err)
			return
		}
		summary.AddUnchanged()
	default:
		if err := r.fetch.FetchAndPersist(ctx, candidate.Number, nil); err != nil {
			summary.AddError(string(candidate.Number), err)
			return
		}
		summary.AddSuccess()
	}
}

// RefreshOne force-fetches a single DUE regardless of its situation or
// stored revision.
func (r *Refresh) RefreshOne(ctx context.Context, number domain.DueNumber) (*Summary, error) {
	started := r.clock.Now()
	summary := NewSummary("refresh-one", started)

	if err := r.fetch.FetchAndPersist(ctx, number, nil); err != nil {
		summary.AddError(string(number), err)
		summary.Duration = r.clock.Since(started)
		return summary, err
	}
	summary.AddSuccess()
	summary.Duration = r.clock.Since(started)
	return summary, nil
}

// RefreshBondedActs replaces only the suspension concessionary acts of the
// given DUEs, one upstream call each.
func (r *Refresh) RefreshBondedActs(ctx context.Context, numbers []domain.DueNumber) (*Summary, error) {
	started := r.clock.Now()
	summary := NewSummary("refresh-bonded-acts", started)

	pool := pond.NewPool(r.cfg.Workers, pond.WithContext(ctx))
	for _, number := range numbers {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			raw, err := r.api.GetSuspensionActs(ctx, number)
			if err != nil {
				summary.AddError(string(number), err)
				return
			}
			rows := normalizer.SuspensionActRows(string(number), raw)
			if err := r.store.ReplaceSuspensionActs(ctx, number, rows); err != nil {
				summary.AddError(string(number), err)
				return
			}
			summary.AddSuccess()
		})
	}
	pool.StopAndWait()

	summary.Duration = r.clock.Since(started)
	return summary, ctx.Err()
}
