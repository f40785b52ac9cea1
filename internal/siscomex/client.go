package siscomex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/ratelimit"
)

// rateLockCode is the literal error code the upstream embeds in a response
// body when it has locked the caller out for rate-limit violations.
const rateLockCode = "PUCX-ER1001"

// releasePattern extracts the release clock time from the lock-out message,
// e.g. "Bloqueado. Acesso liberado após as 15:00:00".
var releasePattern = regexp.MustCompile(`liberado após as (\d{1,2}):(\d{2})(?::(\d{2}))?`)

// Client executes one upstream request under the rate gate with bearer
// authentication and error classification.
//
//go:generate mockgen -source=client.go -destination=../mocks/siscomex_client.go -package=mocks -mock_names=Client=MockClient
type Client interface {
	// GetJSON performs an authenticated, rate-gated GET and decodes the JSON
	// response into result. Errors are classified per the upstream contract:
	// domain.ErrAuthentication, domain.ErrPermanent, domain.ErrTransient,
	// domain.ErrNotFound or *domain.RateLockedError.
	GetJSON(ctx context.Context, url string, result interface{}) error
}

type gatedClient struct {
	client   *http.Client
	gate     ratelimit.Gate
	auth     TokenAuthority
	clock    adapter.Clock
	location *time.Location
}

// NewClient creates a rate-gated upstream client. Release times embedded in
// lock-out messages are interpreted in the given location.
func NewClient(gate ratelimit.Gate, auth TokenAuthority, timeout time.Duration, location *time.Location, clock adapter.Clock) Client {
	return &gatedClient{
		client:   &http.Client{Timeout: timeout},
		gate:     gate,
		auth:     auth,
		clock:    clock,
		location: location,
	}
}

// GetJSON performs one GET. A token rejection invalidates the credential and
// retries exactly once; a rate-lock response informs the gate and fails
// without retrying, because traffic during a lock escalates the penalty.
func (c *gatedClient) GetJSON(ctx context.Context, url string, result interface{}) error {
	body, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response from %s: %s", domain.ErrPermanent, url, err)
	}
	return nil
}

func (c *gatedClient) do(ctx context.Context, url string) ([]byte, error) {
	body, retry, err := c.once(ctx, url)
	if retry {
		// Token rejected: one fresh exchange, one more attempt. The retry
		// consumes its own gate slot, matching the upstream's accounting.
		c.auth.Invalidate()
		body, _, err = c.once(ctx, url)
	}
	return body, err
}

// once executes a single gated request. The second return value signals a
// token rejection the caller may retry after invalidating.
func (c *gatedClient) once(ctx context.Context, url string) ([]byte, bool, error) {
	if err := c.gate.Admit(ctx); err != nil {
		return nil, false, err
	}

	headers, err := c.auth.AuthHeaders(ctx)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrPermanent, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrTransient, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to read response body: %s", domain.ErrTransient, err)
	}

	// The lock-out marker can arrive with any status, including 200.
	if lockErr := c.detectRateLock(body); lockErr != nil {
		c.gate.NoteLockout(lockErr.ReleaseAt)
		return nil, false, lockErr
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, true, fmt.Errorf("%w: token rejected with status %d", domain.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", domain.ErrNotFound, url)
	case resp.StatusCode == http.StatusTooManyRequests:
		release := c.retryAfter(resp.Header)
		c.gate.NoteLockout(release)
		lockErr := &domain.RateLockedError{ReleaseAt: release, Message: "too many requests (429)"}
		return nil, false, lockErr
	case resp.StatusCode >= 500:
		return nil, false, fmt.Errorf("%w: status %d from %s", domain.ErrTransient, resp.StatusCode, url)
	default:
		return nil, false, fmt.Errorf("%w: status %d from %s: %s", domain.ErrPermanent, resp.StatusCode, url, truncate(body, 200))
	}
}

// detectRateLock inspects the body for the upstream's lock-out marker and
// resolves the release instant from the embedded clock time.
func (c *gatedClient) detectRateLock(body []byte) *domain.RateLockedError {
	if !bytes.Contains(body, []byte(rateLockCode)) {
		return nil
	}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Code != rateLockCode {
		return nil
	}

	return &domain.RateLockedError{
		ReleaseAt: c.parseRelease(envelope.Message),
		Message:   envelope.Message,
	}
}

// parseRelease interprets the HH:MM:SS after "liberado após as" in the
// configured timezone. When the message carries no parseable time, the next
// hour boundary is assumed.
func (c *gatedClient) parseRelease(message string) time.Time {
	now := c.clock.Now().In(c.location)

	m := releasePattern.FindStringSubmatch(message)
	if m == nil {
		return now.Truncate(time.Hour).Add(time.Hour)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	release := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, c.location)
	if !release.After(now) {
		release = release.Add(24 * time.Hour)
	}
	return release
}

func (c *gatedClient) retryAfter(h http.Header) time.Time {
	now := c.clock.Now()
	if raw := h.Get("Retry-After"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			return now.Add(time.Duration(secs) * time.Second)
		}
	}
	return now.In(c.location).Truncate(time.Hour).Add(time.Hour)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
