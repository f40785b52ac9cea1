package sync

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
)

// Summary accumulates the outcome of one pipeline run. Workers record into it
// concurrently; per-DUE errors never abort the run.
type Summary struct {
	RunID     string
	Pipeline  string
	StartedAt time.Time
	Duration  time.Duration

	mu          sync.Mutex
	Succeeded   int
	Skipped     int
	Unchanged   int
	NoDueFound  int
	RateLocked  int
	Errors      []string
	ErrorCounts map[string]int
}

// NewSummary starts a summary for one run.
func NewSummary(pipeline string, startedAt time.Time) *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		Pipeline:    pipeline,
		StartedAt:   startedAt,
		ErrorCounts: make(map[string]int),
	}
}

// AddSuccess records one fully persisted DUE.
func (s *Summary) AddSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Succeeded++
}

// AddUnchanged records one probe that found no remote change.
func (s *Summary) AddUnchanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Unchanged++
}

// AddNoDue records one invoice with no export declaration upstream.
func (s *Summary) AddNoDue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NoDueFound++
}

// AddError records one per-DUE failure under its error category.
func (s *Summary) AddError(subject string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Skipped++
	category := categorize(err)
	s.ErrorCounts[category]++
	if category == "rate_locked" {
		s.RateLocked++
	}
	if len(s.Errors) < 50 {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", subject, err))
	}
}

// String renders the final one-line report the orchestrator prints.
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s run %s: %d ok, %d unchanged, %d without DUE, %d skipped (%v) in %s",
		s.Pipeline, s.RunID, s.Succeeded, s.Unchanged, s.NoDueFound, s.Skipped, s.ErrorCounts, s.Duration.Round(time.Second))
}

func categorize(err error) string {
	switch {
	case domain.IsRateLocked(err):
		return "rate_locked"
	case isKind(err, domain.ErrAuthentication):
		return "authentication"
	case isKind(err, domain.ErrTransient):
		return "transient"
	case isKind(err, domain.ErrPermanent):
		return "permanent"
	case isKind(err, domain.ErrNotFound):
		return "not_found"
	case isKind(err, domain.ErrStore):
		return "store"
	case isKind(err, domain.ErrNormalizer):
		return "normalizer"
	default:
		return "other"
	}
}
