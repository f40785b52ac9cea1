package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
)

// insertBatchSize keeps bulk inserts well below PostgreSQL's 65535-parameter
// limit on the extended protocol even for the widest child tables.
const insertBatchSize = 500

// connectAttempts bounds the reconnect retry around transient connection
// failures. Exhaustion surfaces domain.ErrStore; there is no file fallback.
const connectAttempts = 3

type sqlStore struct {
	db *gorm.DB
}

// NewStore creates a relational store over an open GORM connection.
func NewStore(db *gorm.DB) Store {
	return &sqlStore{db: db}
}

// ConfigureConnectionPool configures the pool of the underlying sql.DB.
// Zero values fall back to defaults: 20 open, 5 idle, 5m lifetime, 10m idle.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// Models lists every table the synchronizer writes, in dependency order.
// Schema DDL is managed by operations; tests use this list to auto-migrate.
func Models() []interface{} {
	models := []interface{}{
		&schema.NfeSap{},
		&schema.DuePrincipal{},
		&schema.NfDueVinculo{},
		&schema.DueEvento{},
		&schema.DueItem{},
		&schema.DueItemEnquadramento{},
		&schema.DueItemPaisDestino{},
		&schema.DueItemTratamentoAdministrativo{},
		&schema.DueItemTratamentoAdministrativoOrgao{},
		&schema.DueItemNotaRemessa{},
		&schema.DueItemNotaFiscalExportacao{},
		&schema.DueItemNotaComplementar{},
		&schema.DueItemAtributo{},
		&schema.DueItemDocumentoImportacao{},
		&schema.DueItemDocumentoTransformacao{},
		&schema.DueItemCalculoTributarioTratamento{},
		&schema.DueItemCalculoTributarioQuadro{},
		&schema.DueSituacaoCarga{},
		&schema.DueSolicitacao{},
		&schema.DueDeclaracaoCompensacao{},
		&schema.DueDeclaracaoRecolhimento{},
		&schema.DueDeclaracaoContestacao{},
		&schema.DueAtoConcessorioSuspensao{},
		&schema.DueAtoConcessorioIsencao{},
		&schema.DueExigenciaFiscal{},
	}
	for _, m := range schema.SupportModels() {
		models = append(models, m)
	}
	return models
}

// withRetry validates the handle and retries transient connection failures a
// bounded number of times before surfacing a store error.
func (s *sqlStore) withRetry(ctx context.Context, op func(db *gorm.DB) error) error {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), connectAttempts-1)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := s.ping(ctx); err != nil {
			logger.Warn("database handle not live, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		if err := op(s.db.WithContext(ctx)); err != nil {
			if isConnectionError(err) {
				logger.Warn("database operation hit a connection failure, retrying",
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(b, ctx))

	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrStore, err)
	}
	return nil
}

func (s *sqlStore) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isConnectionError reports whether the failure looks like a dropped or
// refused connection rather than a statement error.
func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"server closed",
		"unexpected eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ListUnlinkedInvoiceKeys returns active seed keys without a link row.
func (s *sqlStore) ListUnlinkedInvoiceKeys(ctx context.Context, limit int) ([]domain.InvoiceKey, error) {
	var keys []string
	err := s.withRetry(ctx, func(db *gorm.DB) error {
		q := db.Model(&schema.NfeSap{}).
			Joins("LEFT JOIN nf_due_vinculo v ON v.chave_nf = nfe_sap.chave_nf").
			Where("nfe_sap.ativo = ?", true).
			Where("v.chave_nf IS NULL").
			Order("nfe_sap.data_importacao")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Pluck("nfe_sap.chave_nf", &keys).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.InvoiceKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.InvoiceKey(k))
	}
	return out, nil
}

// ListKnownLinks returns every persisted association.
func (s *sqlStore) ListKnownLinks(ctx context.Context) (map[domain.InvoiceKey]domain.DueNumber, error) {
	var rows []schema.NfDueVinculo
	err := s.withRetry(ctx, func(db *gorm.DB) error {
		return db.Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	links := make(map[domain.InvoiceKey]domain.DueNumber, len(rows))
	for _, row := range rows {
		links[domain.InvoiceKey(row.ChaveNf)] = domain.DueNumber(row.NumeroDue)
	}
	return links, nil
}

// GetDueRevision returns the stored revision of one DUE, nil when unknown.
func (s *sqlStore) GetDueRevision(ctx context.Context, number domain.DueNumber) (*domain.Revision, error) {
	var row schema.DuePrincipal
	found := true
	err := s.withRetry(ctx, func(db *gorm.DB) error {
		err := db.Select("numero", "situacao", "data_de_registro").
			Where("numero = ?", string(number)).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	rev := &domain.Revision{DueNumber: number}
	if row.Situacao != nil {
		rev.Situation = *row.Situacao
	}
	if row.DataDeRegistro != nil {
		rev.RemoteTime = *row.DataDeRegistro
	}
	return rev, nil
}

// childModels pairs each child model with nothing but its DUE scope; the
// delete-then-insert replacement runs inside the SaveDue transaction.
var childModels = []interface{}{
	&schema.DueEvento{},
	&schema.DueItem{},
	&schema.DueItemEnquadramento{},
	&schema.DueItemPaisDestino{},
	&schema.DueItemTratamentoAdministrativo{},
	&schema.DueItemTratamentoAdministrativoOrgao{},
	&schema.DueItemNotaRemessa{},
	&schema.DueItemNotaFiscalExportacao{},
	&schema.DueItemNotaComplementar{},
	&schema.DueItemAtributo{},
	&schema.DueItemDocumentoImportacao{},
	&schema.DueItemDocumentoTransformacao{},
	&schema.DueItemCalculoTributarioTratamento{},
	&schema.DueItemCalculoTributarioQuadro{},
	&schema.DueSituacaoCarga{},
	&schema.DueSolicitacao{},
	&schema.DueDeclaracaoCompensacao{},
	&schema.DueDeclaracaoRecolhimento{},
	&schema.DueDeclaracaoContestacao{},
	&schema.DueAtoConcessorioSuspensao{},
	&schema.DueAtoConcessorioIsencao{},
	&schema.DueExigenciaFiscal{},
}

// SaveDue persists one DUE and its links atomically.
func (s *sqlStore) SaveDue(ctx context.Context, rows *normalizer.RowSet, links []domain.Link, syncedAt time.Time) error {
	if rows == nil || rows.Principal.Numero == "" {
		return fmt.Errorf("%w: empty row set", domain.ErrStore)
	}
	number := rows.Principal.Numero

	principal := rows.Principal
	principal.DataUltimaAtualizacao = &syncedAt

	return s.withRetry(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "numero"}},
				UpdateAll: true,
			}).Create(&principal).Error; err != nil {
				return fmt.Errorf("failed to upsert principal %s: %w", number, err)
			}

			for _, model := range childModels {
				if err := tx.Where("numero_due = ?", number).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear children of %s: %w", number, err)
				}
			}

			for _, batch := range []interface{}{
				sliceOrNil(rows.Eventos),
				sliceOrNil(rows.Itens),
				sliceOrNil(rows.ItemEnquadramentos),
				sliceOrNil(rows.ItemPaisesDestino),
				sliceOrNil(rows.ItemTratamentosAdmin),
				sliceOrNil(rows.ItemTratamentosAdminOrgaos),
				sliceOrNil(rows.ItemNotasRemessa),
				sliceOrNil(rows.ItemNotasFiscaisExportacao),
				sliceOrNil(rows.ItemNotasComplementares),
				sliceOrNil(rows.ItemAtributos),
				sliceOrNil(rows.ItemDocumentosImportacao),
				sliceOrNil(rows.ItemDocumentosTransformacao),
				sliceOrNil(rows.ItemCalculoTratamentos),
				sliceOrNil(rows.ItemCalculoQuadros),
				sliceOrNil(rows.SituacoesCarga),
				sliceOrNil(rows.Solicitacoes),
				sliceOrNil(rows.DeclaracaoCompensacoes),
				sliceOrNil(rows.DeclaracaoRecolhimentos),
				sliceOrNil(rows.DeclaracaoContestacoes),
				sliceOrNil(rows.AtosSuspensao),
				sliceOrNil(rows.AtosIsencao),
				sliceOrNil(rows.ExigenciasFiscais),
			} {
				if batch == nil {
					continue
				}
				if err := tx.CreateInBatches(batch, insertBatchSize).Error; err != nil {
					return fmt.Errorf("failed to insert children of %s: %w", number, err)
				}
			}

			if err := upsertLinks(tx, links); err != nil {
				return fmt.Errorf("failed to upsert links of %s: %w", number, err)
			}

			return nil
		})
	})
}

// sliceOrNil hides empty slices from CreateInBatches, which rejects them.
func sliceOrNil[T any](s []T) interface{} {
	if len(s) == 0 {
		return nil
	}
	return s
}

func upsertLinks(tx *gorm.DB, links []domain.Link) error {
	if len(links) == 0 {
		return nil
	}

	rows := make([]schema.NfDueVinculo, 0, len(links))
	for _, l := range links {
		rows = append(rows, schema.NfDueVinculo{
			ChaveNf:     string(l.InvoiceKey),
			NumeroDue:   string(l.DueNumber),
			DataVinculo: l.LinkedAt,
			Origem:      l.Origin,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chave_nf"}},
		DoNothing: true,
	}).CreateInBatches(rows, insertBatchSize).Error
}

// UpsertLinks persists link rows outside a DUE transaction, used by the
// periodic link-cache flush.
func (s *sqlStore) UpsertLinks(ctx context.Context, links []domain.Link) error {
	if len(links) == 0 {
		return nil
	}
	return s.withRetry(ctx, func(db *gorm.DB) error {
		return upsertLinks(db, links)
	})
}

// MarkSynced stamps the last sync instant of one DUE.
func (s *sqlStore) MarkSynced(ctx context.Context, number domain.DueNumber, at time.Time) error {
	return s.withRetry(ctx, func(db *gorm.DB) error {
		return db.Model(&schema.DuePrincipal{}).
			Where("numero = ?", string(number)).
			Update("data_ultima_atualizacao", at).Error
	})
}

// ReplaceSuspensionActs replaces the suspension acts of one DUE without
// touching any other table.
func (s *sqlStore) ReplaceSuspensionActs(ctx context.Context, number domain.DueNumber, acts []schema.DueAtoConcessorioSuspensao) error {
	return s.withRetry(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("numero_due = ?", string(number)).Delete(&schema.DueAtoConcessorioSuspensao{}).Error; err != nil {
				return err
			}
			if len(acts) == 0 {
				return nil
			}
			return tx.CreateInBatches(acts, insertBatchSize).Error
		})
	})
}

// SelectRefreshCandidates enumerates refreshable DUEs: orphaned links first,
// then pending and recently settled principals ordered by sync age, then
// stale settled principals ordered by sync age.
func (s *sqlStore) SelectRefreshCandidates(ctx context.Context, policy RefreshPolicy) ([]RefreshCandidate, error) {
	var orphans []string
	var principals []schema.DuePrincipal

	err := s.withRetry(ctx, func(db *gorm.DB) error {
		if err := db.Model(&schema.NfDueVinculo{}).
			Distinct("nf_due_vinculo.numero_due").
			Joins("LEFT JOIN due_principal p ON p.numero = nf_due_vinculo.numero_due").
			Where("p.numero IS NULL").
			Pluck("nf_due_vinculo.numero_due", &orphans).Error; err != nil {
			return err
		}

		q := db.Model(&schema.DuePrincipal{}).
			Select("numero", "situacao", "data_de_registro", "data_da_averbacao", "data_ultima_atualizacao").
			Where("situacao NOT IN ?", policy.Partition.Cancelled)
		if !policy.Force {
			cutoff := time.Now().UTC().Add(-time.Duration(policy.StalenessHours) * time.Hour)
			q = q.Where("data_ultima_atualizacao IS NULL OR data_ultima_atualizacao < ? OR situacao NOT IN ?", cutoff, policy.Partition.Settled)
		}
		return q.Order("data_ultima_atualizacao ASC NULLS FIRST").Find(&principals).Error
	})
	if err != nil {
		return nil, err
	}

	recentCutoff := time.Now().UTC().AddDate(0, 0, -policy.RecentSettlementDays)

	candidates := make([]RefreshCandidate, 0, len(orphans)+len(principals))
	for _, number := range orphans {
		candidates = append(candidates, RefreshCandidate{
			Number: domain.DueNumber(number),
			Kind:   CandidateOrphan,
		})
	}

	// Settled-stale candidates go last so the cap favors orphans, pending and
	// recently settled declarations over the ones that only need a probe.
	var stale []RefreshCandidate
	for _, p := range principals {
		situation := ""
		if p.Situacao != nil {
			situation = *p.Situacao
		}
		c := RefreshCandidate{
			Number:         domain.DueNumber(p.Numero),
			Situation:      situation,
			StoredRevision: p.DataDeRegistro,
		}
		switch policy.Partition.Classify(situation) {
		case domain.SituationCancelled:
			continue
		case domain.SituationSettled:
			if p.DataDaAverbacao != nil && p.DataDaAverbacao.After(recentCutoff) {
				c.Kind = CandidateSettledRecent
				candidates = append(candidates, c)
			} else {
				c.Kind = CandidateSettledStale
				stale = append(stale, c)
			}
		default:
			c.Kind = CandidatePending
			candidates = append(candidates, c)
		}
	}
	candidates = append(candidates, stale...)

	if policy.Limit > 0 && len(candidates) > policy.Limit {
		candidates = candidates[:policy.Limit]
	}
	return candidates, nil
}

// ReplaceSupportTable replaces the rows of one reference table with the TABX
// payload, keys converted from the service's camelCase to column names.
func (s *sqlStore) ReplaceSupportTable(ctx context.Context, name string, rows []map[string]interface{}) error {
	model, ok := schema.SupportModels()[name]
	if !ok {
		return fmt.Errorf("%w: unknown support table %q", domain.ErrStore, name)
	}

	converted := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]interface{}, len(row))
		for k, v := range row {
			out[toSnakeCase(k)] = v
		}
		converted = append(converted, out)
	}

	return s.withRetry(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
			if len(converted) == 0 {
				return nil
			}
			return tx.Model(model).Create(converted).Error
		})
	})
}

// Counts returns row counts of the main tables for status reporting.
func (s *sqlStore) Counts(ctx context.Context) (map[string]int64, error) {
	tables := map[string]interface{}{
		"nfe_sap":                &schema.NfeSap{},
		"nf_due_vinculo":         &schema.NfDueVinculo{},
		"due_principal":          &schema.DuePrincipal{},
		"due_itens":              &schema.DueItem{},
		"due_eventos_historico":  &schema.DueEvento{},
		"due_exigencias_fiscais": &schema.DueExigenciaFiscal{},
	}

	counts := make(map[string]int64, len(tables))
	err := s.withRetry(ctx, func(db *gorm.DB) error {
		for name, model := range tables {
			var n int64
			if err := db.Model(model).Count(&n).Error; err != nil {
				return err
			}
			counts[name] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// toSnakeCase converts a camelCase TABX field name to its column name.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
