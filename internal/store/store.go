package store

import (
	"context"
	"time"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
)

// CandidateKind classifies why a DUE was selected for refresh.
type CandidateKind int

const (
	// CandidateOrphan has a link row but no principal; it must be fetched.
	CandidateOrphan CandidateKind = iota
	// CandidatePending is in an in-flight workflow situation; always fetched.
	CandidatePending
	// CandidateSettledRecent was averbada within the recent-settlement
	// window; fetched without probing.
	CandidateSettledRecent
	// CandidateSettledStale was averbada long ago; probed before fetching.
	CandidateSettledStale
)

// RefreshCandidate is one DUE eligible for refresh.
type RefreshCandidate struct {
	Number         domain.DueNumber
	Situation      string
	StoredRevision *time.Time
	Kind           CandidateKind
}

// RefreshPolicy drives candidate selection.
type RefreshPolicy struct {
	Partition            domain.SituationPartition
	StalenessHours       int
	RecentSettlementDays int
	Limit                int
	// Force ignores the staleness cutoff and considers every non-cancelled DUE.
	Force bool
}

// Store defines the relational operations used by the pipelines. It is the
// exclusive custodian of the connection pool; all writes for one DUE form a
// single transaction.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// ListUnlinkedInvoiceKeys returns active seed keys that have no link yet.
	// A non-positive limit means no cap.
	ListUnlinkedInvoiceKeys(ctx context.Context, limit int) ([]domain.InvoiceKey, error)

	// ListKnownLinks returns every persisted invoice-key → DUE association.
	ListKnownLinks(ctx context.Context) (map[domain.InvoiceKey]domain.DueNumber, error)

	// GetDueRevision returns the stored revision and situation of one DUE, or
	// nil when the DUE was never persisted.
	GetDueRevision(ctx context.Context, number domain.DueNumber) (*domain.Revision, error)

	// SaveDue persists one normalized DUE atomically: principal upsert,
	// delete-then-insert of every child table scoped by the DUE number, link
	// upserts and the sync mark, all in one transaction.
	SaveDue(ctx context.Context, rows *normalizer.RowSet, links []domain.Link, syncedAt time.Time) error

	// UpsertLinks persists link rows, keeping existing rows on conflict.
	UpsertLinks(ctx context.Context, links []domain.Link) error

	// MarkSynced stamps the last successful sync without touching any data.
	MarkSynced(ctx context.Context, number domain.DueNumber, at time.Time) error

	// ReplaceSuspensionActs replaces only the suspension concessionary acts
	// of one DUE.
	ReplaceSuspensionActs(ctx context.Context, number domain.DueNumber, acts []schema.DueAtoConcessorioSuspensao) error

	// SelectRefreshCandidates enumerates the DUEs eligible for refresh,
	// cancelled ones excluded, ordered orphans first, then pending and
	// recently settled by sync age, then stale settled by sync age.
	SelectRefreshCandidates(ctx context.Context, policy RefreshPolicy) ([]RefreshCandidate, error)

	// ReplaceSupportTable replaces the contents of one TABX-backed reference
	// table. Unknown table names are rejected.
	ReplaceSupportTable(ctx context.Context, name string, rows []map[string]interface{}) error

	// Counts returns row counts of the main tables for status reporting.
	Counts(ctx context.Context) (map[string]int64, error)
}
