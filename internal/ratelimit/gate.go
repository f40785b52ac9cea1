package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
)

// Gate caps outbound calls at a fixed number per rolling wall-clock hour and
// absorbs lock-outs imposed by the upstream. The hour window is aligned to
// clock-hour boundaries because that is how the upstream accounts requests.
//
//go:generate mockgen -source=gate.go -destination=../mocks/ratelimit_gate.go -package=mocks -mock_names=Gate=MockGate
type Gate interface {
	// Admit blocks until a request slot is available in the current hour
	// window and no lock-out is active. Returns the context error when the
	// caller cancels; a cancelled wait never consumes a slot.
	Admit(ctx context.Context) error

	// NoteLockout records an upstream-imposed release instant. The latest of
	// the existing and new instants wins.
	NoteLockout(until time.Time)

	// WindowStart returns the start of the current accounting window.
	WindowStart() time.Time

	// InWindow returns the number of admissions in the current window.
	InWindow() int
}

// Config holds gate configuration
type Config struct {
	// SafeLimit is the maximum number of admissions per hour window.
	SafeLimit int
	// Burst bounds short-term spikes through the smoothing bucket.
	// Zero disables smoothing.
	Burst int
	// LimitHour is the upstream-declared hourly ceiling, used to derive the
	// smoothing rate. Only consulted when Burst > 0.
	LimitHour int
}

type hourlyGate struct {
	mu           sync.Mutex
	clock        adapter.Clock
	safeLimit    int
	windowStart  time.Time
	inWindow     int
	blockedUntil time.Time
	smoother     *rate.Limiter
}

// NewGate creates a gate admitting at most cfg.SafeLimit requests per
// wall-clock hour.
func NewGate(cfg Config, clock adapter.Clock) Gate {
	g := &hourlyGate{
		clock:       clock,
		safeLimit:   cfg.SafeLimit,
		windowStart: clock.Now().Truncate(time.Hour),
	}
	if cfg.Burst > 0 && cfg.LimitHour > 0 {
		g.smoother = rate.NewLimiter(rate.Limit(float64(cfg.LimitHour)/3600.0), cfg.Burst)
	}
	return g
}

// Admit blocks until a slot is available. The check and the increment happen
// under the same lock so concurrent callers cannot race past the ceiling.
func (g *hourlyGate) Admit(ctx context.Context) error {
	// Smooth bursts before touching the window so a cancelled smoothing wait
	// never consumes a window slot.
	if g.smoother != nil {
		if err := g.smoother.Wait(ctx); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.mu.Lock()
		now := g.clock.Now()

		// Slide the window forward once the hour boundary is crossed.
		if !now.Before(g.windowStart.Add(time.Hour)) {
			g.windowStart = now.Truncate(time.Hour)
			g.inWindow = 0
		}

		blocked := g.blockedUntil.After(now)
		if !blocked && g.inWindow < g.safeLimit {
			g.inWindow++
			g.mu.Unlock()
			return nil
		}

		// Compute the soonest instant anything can change: the end of the
		// window or the lock-out release, whichever is later among the
		// conditions actually holding us back.
		wake := g.windowStart.Add(time.Hour)
		if blocked && g.blockedUntil.After(wake) {
			wake = g.blockedUntil
		} else if blocked && g.inWindow < g.safeLimit {
			wake = g.blockedUntil
		}
		if g.inWindow >= g.safeLimit {
			logger.Warn("hourly request ceiling reached, waiting for next window",
				zap.Int("in_window", g.inWindow),
				zap.Int("safe_limit", g.safeLimit),
				zap.Time("window_end", g.windowStart.Add(time.Hour)),
			)
		}
		g.mu.Unlock()

		wait := wake.Sub(now) + time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.clock.After(wait):
		}
	}
}

// NoteLockout records a release instant. Under concurrent callers the latest
// release wins; the blocked-until instant never moves backwards.
func (g *hourlyGate) NoteLockout(until time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if until.After(g.blockedUntil) {
		g.blockedUntil = until
		logger.Warn("upstream lock-out recorded, admissions paused",
			zap.Time("release_at", until),
		)
	}
}

func (g *hourlyGate) WindowStart() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.windowStart
}

func (g *hourlyGate) InWindow() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inWindow
}
