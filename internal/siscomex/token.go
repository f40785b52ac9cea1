package siscomex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
)

const authPath = "/portal/api/autenticar/chave-acesso"

// maxCacheAge bounds how old a persisted token may be before it is discarded
// on load, regardless of its claimed expiration.
const maxCacheAge = 90 * time.Minute

// TokenAuthority provides a valid bearer credential to every outbound call.
// Refreshes are single-flighted: concurrent callers collapse to one exchange.
//
//go:generate mockgen -source=token.go -destination=../mocks/token_authority.go -package=mocks -mock_names=TokenAuthority=MockTokenAuthority
type TokenAuthority interface {
	// AuthHeaders returns the headers for the next request, refreshing the
	// credential when absent, expired or inside the safety margin.
	AuthHeaders(ctx context.Context) (map[string]string, error)

	// Invalidate forces a refresh on the next AuthHeaders call.
	Invalidate()
}

// bearerToken is the credential pair issued by the access-key exchange.
type bearerToken struct {
	Authorization string    `json:"authorization"`
	CSRF          string    `json:"csrf"`
	ExpiresAt     time.Time `json:"expires_at"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

type tokenAuthority struct {
	mu       chan struct{} // buffered(1), used as a ctx-aware mutex
	client   *http.Client
	clock    adapter.Clock
	cfg      config.AuthConfig
	baseURL  string
	token    *bearerToken
	lastAuth time.Time
}

// NewTokenAuthority creates a token authority for the given credentials. When
// cfg.CachePath is set, a previously persisted token is reused if still fresh.
func NewTokenAuthority(cfg config.AuthConfig, baseURL string, timeout time.Duration, clock adapter.Clock) TokenAuthority {
	a := &tokenAuthority{
		mu:      make(chan struct{}, 1),
		client:  &http.Client{Timeout: timeout},
		clock:   clock,
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	if cfg.CachePath != "" {
		a.loadCache()
	}
	return a
}

func (a *tokenAuthority) lock(ctx context.Context) error {
	select {
	case a.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *tokenAuthority) unlock() {
	<-a.mu
}

func (a *tokenAuthority) valid(tok *bearerToken) bool {
	if tok == nil || tok.Authorization == "" || tok.CSRF == "" {
		return false
	}
	return a.clock.Now().Before(tok.ExpiresAt.Add(-a.cfg.SafetyMargin))
}

// AuthHeaders returns the authenticated request headers, refreshing first when
// needed.
func (a *tokenAuthority) AuthHeaders(ctx context.Context) (map[string]string, error) {
	if err := a.lock(ctx); err != nil {
		return nil, err
	}
	defer a.unlock()

	if !a.valid(a.token) {
		if err := a.refresh(ctx); err != nil {
			return nil, err
		}
	}

	return map[string]string{
		"Authorization": a.token.Authorization,
		"X-CSRF-Token":  a.token.CSRF,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}, nil
}

// Invalidate drops the current credential so the next AuthHeaders refreshes.
func (a *tokenAuthority) Invalidate() {
	a.mu <- struct{}{}
	a.token = nil
	<-a.mu
}

// refresh performs the credential exchange. Caller must hold the lock.
func (a *tokenAuthority) refresh(ctx context.Context) error {
	if a.cfg.ClientID == "" || a.cfg.ClientSecret == "" {
		return fmt.Errorf("%w: client credentials not configured", domain.ErrConfiguration)
	}

	// The upstream rejects exchanges spaced closer than the minimum interval.
	if !a.lastAuth.IsZero() {
		if wait := a.cfg.MinInterval - a.clock.Since(a.lastAuth); wait > 0 {
			logger.Info("spacing credential exchange to honor minimum interval",
				zap.Duration("wait", wait),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-a.clock.After(wait):
			}
		}
	}

	operation := func() error {
		tok, err := a.exchange(ctx)
		if err != nil {
			return err
		}
		a.token = tok
		return nil
	}

	// Transient exchange failures retry briefly; denials fail fast.
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return err
	}

	a.lastAuth = a.clock.Now()
	if a.cfg.CachePath != "" {
		a.saveCache()
	}
	logger.Info("credential exchanged",
		zap.Time("expires_at", a.token.ExpiresAt),
	)
	return nil
}

// exchange performs one POST against the access-key authentication endpoint.
func (a *tokenAuthority) exchange(ctx context.Context) (*bearerToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+authPath, strings.NewReader("{}"))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Client-Id", a.cfg.ClientID)
	req.Header.Set("Client-Secret", a.cfg.ClientSecret)
	req.Header.Set("Role-Type", "IMPEXP")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransient, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close auth response body", zap.Error(err))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(fmt.Errorf("%w: exchange denied with status %d", domain.ErrAuthentication, resp.StatusCode))
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// The upstream answers 422 when exchanges come too close together.
		return nil, fmt.Errorf("%w: exchange throttled (422)", domain.ErrTransient)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: exchange failed with status %d", domain.ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("%w: exchange failed with status %d", domain.ErrAuthentication, resp.StatusCode))
	}

	setToken := firstHeader(resp.Header, "Set-Token")
	csrf := firstHeader(resp.Header, "X-CSRF-Token")
	if setToken == "" || csrf == "" {
		return nil, backoff.Permanent(fmt.Errorf("%w: tokens missing from exchange response headers", domain.ErrAuthentication))
	}

	now := a.clock.Now()
	expiresAt := now.Add(a.cfg.TokenValidity)
	if raw := firstHeader(resp.Header, "X-CSRF-Expiration"); raw != "" {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expiresAt = time.UnixMilli(ms)
		}
	}

	return &bearerToken{
		Authorization: setToken,
		CSRF:          csrf,
		ExpiresAt:     expiresAt,
		AcquiredAt:    now,
	}, nil
}

func firstHeader(h http.Header, key string) string {
	return h.Get(key)
}

func (a *tokenAuthority) saveCache() {
	data, err := json.Marshal(a.token)
	if err != nil {
		logger.Warn("failed to encode token cache", zap.Error(err))
		return
	}
	if err := os.WriteFile(a.cfg.CachePath, data, 0o600); err != nil {
		logger.Warn("failed to write token cache", zap.Error(err), zap.String("path", a.cfg.CachePath))
	}
}

func (a *tokenAuthority) loadCache() {
	data, err := os.ReadFile(a.cfg.CachePath)
	if err != nil {
		return
	}
	var tok bearerToken
	if err := json.Unmarshal(data, &tok); err != nil {
		_ = os.Remove(a.cfg.CachePath)
		return
	}
	if a.clock.Since(tok.AcquiredAt) > maxCacheAge || !a.valid(&tok) {
		_ = os.Remove(a.cfg.CachePath)
		return
	}
	a.token = &tok
	logger.Info("reusing cached credential",
		zap.Time("expires_at", tok.ExpiresAt),
	)
}
