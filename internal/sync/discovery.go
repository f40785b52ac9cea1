package sync

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
)

// DiscoveryConfig tunes one discovery run.
type DiscoveryConfig struct {
	Workers   int
	MaxPerRun int // 0 means process every unlinked key
}

// Discovery finds invoices that have no export declaration linked yet,
// resolves their DUEs through the lookup endpoint and runs the full-fetch
// protocol for every DUE discovered.
type Discovery struct {
	api   siscomex.DueAPI
	store store.Store
	cache *store.LinkCache
	fetch *Fetcher
	clock adapter.Clock
	cfg   DiscoveryConfig
}

// NewDiscovery wires the discovery pipeline.
func NewDiscovery(api siscomex.DueAPI, st store.Store, cache *store.LinkCache, fetch *Fetcher, clock adapter.Clock, cfg DiscoveryConfig) *Discovery {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Discovery{
		api:   api,
		store: st,
		cache: cache,
		fetch: fetch,
		clock: clock,
		cfg:   cfg,
	}
}

// Run executes one discovery pass. Every DUE persists independently, so an
// interruption keeps the work already committed.
func (d *Discovery) Run(ctx context.Context) (*Summary, error) {
	started := d.clock.Now()
	summary := NewSummary("discover-new", started)

	keys, err := d.store.ListUnlinkedInvoiceKeys(ctx, 0)
	if err != nil {
		return summary, err
	}

	// The link cache is authoritative for "already probed"; keys linked since
	// the seed query are subtracted too.
	candidates := make([]domain.InvoiceKey, 0, len(keys))
	for _, key := range keys {
		if !d.cache.Contains(key) {
			candidates = append(candidates, key)
		}
	}
	if d.cfg.MaxPerRun > 0 && len(candidates) > d.cfg.MaxPerRun {
		candidates = candidates[:d.cfg.MaxPerRun]
	}

	logger.InfoCtx(ctx, "discovery candidates selected",
		zap.String("run_id", summary.RunID),
		zap.Int("seed_keys", len(keys)),
		zap.Int("cached_links", d.cache.Len()),
		zap.Int("candidates", len(candidates)),
	)

	if len(candidates) == 0 {
		summary.Duration = d.clock.Since(started)
		return summary, nil
	}

	dueKeys := d.lookupAll(ctx, candidates, summary)

	// De-duplicate across candidates: one fetch per DUE, every invoice key
	// that resolved to it linked in that DUE's transaction.
	pool := pond.NewPool(d.cfg.Workers, pond.WithContext(ctx))
	for number, keys := range dueKeys {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			links := make([]domain.Link, 0, len(keys))
			now := d.clock.Now().UTC()
			for _, key := range keys {
				links = append(links, domain.Link{
					InvoiceKey: key,
					DueNumber:  number,
					LinkedAt:   now,
					Origin:     "SISCOMEX",
				})
			}

			if err := d.fetch.FetchAndPersist(ctx, number, links); err != nil {
				logger.WarnCtx(ctx, "failed to persist discovered declaration",
					zap.String("due", string(number)),
					zap.Error(err),
				)
				summary.AddError(string(number), err)
				return
			}

			for _, key := range keys {
				if err := d.cache.Put(ctx, key, number); err != nil {
					logger.WarnCtx(ctx, "link cache flush failed", zap.Error(err))
				}
			}
			summary.AddSuccess()
		})
	}
	pool.StopAndWait()

	if err := d.cache.Flush(context.WithoutCancel(ctx)); err != nil {
		logger.ErrorCtx(ctx, err)
	}

	summary.Duration = d.clock.Since(started)
	return summary, ctx.Err()
}

// lookupAll fans the lookup calls out over the worker pool and groups the
// resolved invoice keys by DUE number.
func (d *Discovery) lookupAll(ctx context.Context, candidates []domain.InvoiceKey, summary *Summary) map[domain.DueNumber][]domain.InvoiceKey {
	var mu sync.Mutex
	dueKeys := make(map[domain.DueNumber][]domain.InvoiceKey)

	pool := pond.NewPool(d.cfg.Workers, pond.WithContext(ctx))
	for _, key := range candidates {
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			var numbers []domain.DueNumber
			err := retryTransient(ctx, func() error {
				var err error
				numbers, err = d.api.LookupByInvoice(ctx, key)
				return err
			})
			if err != nil {
				summary.AddError(string(key), err)
				return
			}
			if len(numbers) == 0 {
				// Legitimate: the invoice is not export-declared yet.
				summary.AddNoDue()
				return
			}
			mu.Lock()
			for _, number := range numbers {
				dueKeys[number] = append(dueKeys[number], key)
			}
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	return dueKeys
}
