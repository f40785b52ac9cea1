package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
)

// Fetcher runs the full-fetch protocol of one DUE: the principal payload plus
// up to three feature-flagged auxiliary payloads, normalized and persisted in
// a single transaction.
type Fetcher struct {
	api        siscomex.DueAPI
	store      store.Store
	clock      adapter.Clock
	flags      config.FetchConfig
	dueTimeout time.Duration
}

// NewFetcher wires the full-fetch protocol.
func NewFetcher(api siscomex.DueAPI, st store.Store, clock adapter.Clock, flags config.FetchConfig, dueTimeout time.Duration) *Fetcher {
	if dueTimeout <= 0 {
		dueTimeout = 30 * time.Second
	}
	return &Fetcher{
		api:        api,
		store:      st,
		clock:      clock,
		flags:      flags,
		dueTimeout: dueTimeout,
	}
}

// FetchAndPersist downloads, normalizes and stores one DUE. The given links
// are written in the same transaction as the DUE rows. Auxiliary fetch
// failures degrade to a warning; rate-locks and cancellation propagate.
func (f *Fetcher) FetchAndPersist(ctx context.Context, number domain.DueNumber, links []domain.Link) error {
	fetchCtx, cancel := context.WithTimeout(ctx, f.dueTimeout)
	defer cancel()

	var due *normalizer.DuePayload
	err := retryTransient(fetchCtx, func() error {
		var err error
		due, err = f.api.GetDue(fetchCtx, number)
		return err
	})
	if err != nil {
		return err
	}

	suspActs, exemptActs, fiscalReqs, err := f.fetchAuxiliaries(fetchCtx, number)
	if err != nil {
		return err
	}

	rows, err := normalizer.Normalize(due, suspActs, exemptActs, fiscalReqs)
	if err != nil {
		return err
	}

	// Cancellation observed between DUEs must not abort a transaction that
	// already has its payloads; the in-flight DUE finishes its write.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), f.dueTimeout)
	defer saveCancel()
	return f.store.SaveDue(saveCtx, rows, links, f.clock.Now().UTC())
}

// fetchAuxiliaries issues the flagged auxiliary calls concurrently. Each one
// independently consumes a gate slot.
func (f *Fetcher) fetchAuxiliaries(ctx context.Context, number domain.DueNumber) (
	suspActs []normalizer.ConcessionaryAct,
	exemptActs []normalizer.ConcessionaryAct,
	fiscalReqs []normalizer.FiscalRequirement,
	fatal error,
) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(kind string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				if domain.IsRateLocked(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					mu.Lock()
					if fatal == nil {
						fatal = err
					}
					mu.Unlock()
					return
				}
				logger.Warn("auxiliary fetch failed, continuing without it",
					zap.String("due", string(number)),
					zap.String("payload", kind),
					zap.Error(err),
				)
			}
		}()
	}

	if f.flags.SuspensionActs {
		run("suspension-acts", func() error {
			acts, err := f.api.GetSuspensionActs(ctx, number)
			if err == nil {
				suspActs = acts
			}
			return err
		})
	}
	if f.flags.ExemptionActs {
		run("exemption-acts", func() error {
			acts, err := f.api.GetExemptionActs(ctx, number)
			if err == nil {
				exemptActs = acts
			}
			return err
		})
	}
	if f.flags.FiscalRequirements {
		run("fiscal-requirements", func() error {
			reqs, err := f.api.GetFiscalRequirements(ctx, number)
			if err == nil {
				fiscalReqs = reqs
			}
			return err
		})
	}

	wg.Wait()
	if fatal != nil {
		return nil, nil, nil, fatal
	}
	return suspActs, exemptActs, fiscalReqs, nil
}

// retryTransient retries transient upstream failures up to twice with a short
// jittered backoff. Every other error kind fails immediately; rate-locks in
// particular must not be retried.
func retryTransient(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 5 * time.Second
	b.RandomizationFactor = 0.5

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrTransient) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx))
}

func isKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
