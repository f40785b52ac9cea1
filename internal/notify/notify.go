// Package notify delivers run summaries to external sinks. Sinks are best
// effort: a failed notification is logged, never fatal.
package notify

import (
	"context"

	"github.com/N1XSS/controle-siscomex-test/internal/sync"
)

// Notifier receives the outcome of one pipeline run.
//
//go:generate mockgen -source=notify.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	SyncCompleted(ctx context.Context, summary *sync.Summary) error
}

// Noop discards every notification.
type Noop struct{}

// SyncCompleted implements Notifier.
func (Noop) SyncCompleted(context.Context, *sync.Summary) error { return nil }
