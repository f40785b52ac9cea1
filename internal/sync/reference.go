package sync

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
)

// ReferenceLoader hydrates the support tables from the TABX service. The
// pipelines never require these tables; they exist for display joins.
type ReferenceLoader struct {
	api   siscomex.TabxAPI
	store store.Store
	clock adapter.Clock
}

// NewReferenceLoader wires the support-table loader.
func NewReferenceLoader(api siscomex.TabxAPI, st store.Store, clock adapter.Clock) *ReferenceLoader {
	return &ReferenceLoader{api: api, store: st, clock: clock}
}

// Run downloads every reference table the store has a model for and replaces
// its contents. Tables the service publishes but the store does not model are
// skipped with a debug line.
func (l *ReferenceLoader) Run(ctx context.Context) (*Summary, error) {
	started := l.clock.Now()
	summary := NewSummary("load-reference", started)

	tables, err := l.api.ListTables(ctx)
	if err != nil {
		summary.Duration = l.clock.Since(started)
		return summary, err
	}

	known := schema.SupportModels()
	for _, table := range tables {
		if ctx.Err() != nil {
			break
		}
		slug := tableSlug(table.Nome)
		if _, ok := known[slug]; !ok {
			logger.DebugCtx(ctx, "reference table not modeled, skipping",
				zap.String("table", table.Nome),
			)
			continue
		}

		rows, err := l.api.GetTableRows(ctx, table.Nome)
		if err != nil {
			summary.AddError(table.Nome, err)
			continue
		}
		if err := l.store.ReplaceSupportTable(ctx, slug, rows); err != nil {
			summary.AddError(table.Nome, err)
			continue
		}
		logger.InfoCtx(ctx, "reference table replaced",
			zap.String("table", slug),
			zap.Int("rows", len(rows)),
		)
		summary.AddSuccess()
	}

	summary.Duration = l.clock.Since(started)
	return summary, ctx.Err()
}

// tableSlug normalizes a TABX table name to the store's model key.
func tableSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	return slug
}
