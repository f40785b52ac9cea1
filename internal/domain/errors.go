package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfiguration is returned when required settings are missing at startup
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication is returned when the credential exchange is denied
	ErrAuthentication = errors.New("authentication failed")

	// ErrPermanent is returned for 4xx responses other than auth and rate-lock
	ErrPermanent = errors.New("permanent upstream error")

	// ErrNotFound is returned for 404 responses; the invoice lookup and the
	// auxiliary endpoints treat it as an empty result, a DUE fetch does not
	ErrNotFound = errors.New("not found")

	// ErrTransient is returned for 5xx, timeouts and connection failures
	ErrTransient = errors.New("transient upstream error")

	// ErrStore is returned when persistence failed after reconnect retries
	ErrStore = errors.New("store error")

	// ErrNormalizer is returned when a payload violates required-field assumptions
	ErrNormalizer = errors.New("normalizer error")
)

// RateLockedError is returned when the upstream answered with its rate-lock
// marker. ReleaseAt is the instant the upstream promised to lift the lock.
type RateLockedError struct {
	ReleaseAt time.Time
	Message   string
}

func (e *RateLockedError) Error() string {
	return fmt.Sprintf("rate locked until %s: %s", e.ReleaseAt.Format("15:04:05"), e.Message)
}

// IsRateLocked reports whether err wraps a RateLockedError.
func IsRateLocked(err error) bool {
	var rl *RateLockedError
	return errors.As(err, &rl)
}
