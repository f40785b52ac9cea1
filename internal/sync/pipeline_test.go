package sync_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/N1XSS/controle-siscomex-test/internal/adapter"
	"github.com/N1XSS/controle-siscomex-test/internal/config"
	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
	syncpkg "github.com/N1XSS/controle-siscomex-test/internal/sync"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const testInvoiceKey = "12345678901234567890123456789012345678901234"

// fakeDueAPI is an in-memory stand-in for the upstream with per-endpoint call
// counting, so tests can assert exactly how many gate slots a run consumes.
type fakeDueAPI struct {
	mu          sync.Mutex
	lookups     map[domain.InvoiceKey][]domain.DueNumber
	payloads    map[domain.DueNumber]*normalizer.DuePayload
	dueErrors   map[domain.DueNumber]error
	fetchDelay  time.Duration
	lookupCalls int
	dueCalls    int
	probeCalls  int
	suspCalls   int
	exemptCalls int
	fiscalCalls int
}

func newFakeDueAPI() *fakeDueAPI {
	return &fakeDueAPI{
		lookups:   make(map[domain.InvoiceKey][]domain.DueNumber),
		payloads:  make(map[domain.DueNumber]*normalizer.DuePayload),
		dueErrors: make(map[domain.DueNumber]error),
	}
}

func (f *fakeDueAPI) LookupByInvoice(ctx context.Context, key domain.InvoiceKey) ([]domain.DueNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	return f.lookups[key], nil
}

func (f *fakeDueAPI) GetDue(ctx context.Context, number domain.DueNumber) (*normalizer.DuePayload, error) {
	f.mu.Lock()
	f.dueCalls++
	err := f.dueErrors[number]
	payload := f.payloads[number]
	delay := f.fetchDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, domain.ErrNotFound
	}
	return payload, nil
}

func (f *fakeDueAPI) ProbeRevision(ctx context.Context, number domain.DueNumber) (*domain.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	payload, ok := f.payloads[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Revision{
		DueNumber:  number,
		Situation:  payload.Situacao,
		RemoteTime: payload.DataDeRegistro.Time(),
	}, nil
}

func (f *fakeDueAPI) GetSuspensionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suspCalls++
	return nil, nil
}

func (f *fakeDueAPI) GetExemptionActs(ctx context.Context, number domain.DueNumber) ([]normalizer.ConcessionaryAct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exemptCalls++
	return nil, nil
}

func (f *fakeDueAPI) GetFiscalRequirements(ctx context.Context, number domain.DueNumber) ([]normalizer.FiscalRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fiscalCalls++
	return nil, nil
}

func (f *fakeDueAPI) counts() (lookups, dues, probes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookupCalls, f.dueCalls, f.probeCalls
}

func minimalDue(number string, registeredAt time.Time, situation string) *normalizer.DuePayload {
	return &normalizer.DuePayload{
		Numero:         number,
		DataDeRegistro: normalizer.At(registeredAt),
		Situacao:       situation,
		EventosDoHistorico: []normalizer.Evento{{
			DataEHoraDoEvento: normalizer.At(registeredAt),
			Evento:            "Registro da DU-E",
			Responsavel:       "12345678901",
		}},
		Itens: []normalizer.Item{{
			Numero:                1,
			DescricaoDaMercadoria: "Café verde em grãos",
		}},
	}
}

type pipelineEnv struct {
	db    *gorm.DB
	store store.Store
	cache *store.LinkCache
	api   *fakeDueAPI
	clock adapter.Clock
}

func newPipelineEnv(t *testing.T) *pipelineEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sync.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(store.Models()...))

	st := store.NewStore(db)
	clock := adapter.NewClock()
	cache, err := store.NewLinkCache(context.Background(), st, clock, 50)
	require.NoError(t, err)

	return &pipelineEnv{
		db:    db,
		store: st,
		cache: cache,
		api:   newFakeDueAPI(),
		clock: clock,
	}
}

func (e *pipelineEnv) fetcher(flags config.FetchConfig) *syncpkg.Fetcher {
	return syncpkg.NewFetcher(e.api, e.store, e.clock, flags, 30*time.Second)
}

func (e *pipelineEnv) discovery(t *testing.T, workers int) *syncpkg.Discovery {
	t.Helper()
	return syncpkg.NewDiscovery(e.api, e.store, e.cache, e.fetcher(config.FetchConfig{}), e.clock, syncpkg.DiscoveryConfig{
		Workers: workers,
	})
}

func (e *pipelineEnv) refresh(t *testing.T, workers int) *syncpkg.Refresh {
	t.Helper()
	return syncpkg.NewRefresh(e.api, e.store, e.fetcher(config.FetchConfig{}), e.clock, syncpkg.RefreshConfig{
		Workers: workers,
		Policy: store.RefreshPolicy{
			Partition:            domain.DefaultSituationPartition(),
			StalenessHours:       24,
			RecentSettlementDays: 7,
		},
	})
}

func (e *pipelineEnv) seedInvoice(t *testing.T, key string) {
	t.Helper()
	require.NoError(t, e.db.Create(&schema.NfeSap{
		ChaveNf:        key,
		DataImportacao: time.Now().UTC(),
		Ativo:          true,
	}).Error)
}

func (e *pipelineEnv) seedPrincipal(t *testing.T, number, situation string, registeredAt time.Time, averbacao, lastSync *time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&schema.DuePrincipal{
		Numero:                number,
		Situacao:              &situation,
		DataDeRegistro:        &registeredAt,
		DataDaAverbacao:       averbacao,
		DataUltimaAtualizacao: lastSync,
	}).Error)
}

var registeredAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", -3*60*60))

// Scenario: a seeded invoice with no export declaration upstream produces no
// link, no rows and no error, at the cost of exactly one lookup call.
func TestDiscovery_InvoiceWithoutDue(t *testing.T) {
	env := newPipelineEnv(t)
	env.seedInvoice(t, testInvoiceKey)

	summary, err := env.discovery(t, 2).Run(context.Background())
	require.NoError(t, err)

	lookups, dues, _ := env.api.counts()
	assert.Equal(t, 1, lookups)
	assert.Equal(t, 0, dues)
	assert.Equal(t, 1, summary.NoDueFound)
	assert.Equal(t, 0, summary.Succeeded)

	var principals, links int64
	env.db.Model(&schema.DuePrincipal{}).Count(&principals)
	env.db.Model(&schema.NfDueVinculo{}).Count(&links)
	assert.Equal(t, int64(0), principals)
	assert.Equal(t, int64(0), links)
}

// Scenario: one invoice resolving to one DUE with auxiliary flags off makes
// exactly two upstream calls and persists principal, item, event and link.
func TestDiscovery_OneDueFlagsOff(t *testing.T) {
	env := newPipelineEnv(t)
	env.seedInvoice(t, testInvoiceKey)
	env.api.lookups[testInvoiceKey] = []domain.DueNumber{"24BR0000000001"}
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "REGISTRADA")

	summary, err := env.discovery(t, 2).Run(context.Background())
	require.NoError(t, err)

	lookups, dues, _ := env.api.counts()
	assert.Equal(t, 1, lookups)
	assert.Equal(t, 1, dues)
	assert.Equal(t, 1, summary.Succeeded)

	var principal schema.DuePrincipal
	require.NoError(t, env.db.First(&principal, "numero = ?", "24BR0000000001").Error)
	require.NotNil(t, principal.DataDeRegistro)
	assert.True(t, principal.DataDeRegistro.Equal(registeredAt))

	var itens, eventos, links int64
	env.db.Model(&schema.DueItem{}).Count(&itens)
	env.db.Model(&schema.DueEvento{}).Count(&eventos)
	env.db.Model(&schema.NfDueVinculo{}).Count(&links)
	assert.Equal(t, int64(1), itens)
	assert.Equal(t, int64(1), eventos)
	assert.Equal(t, int64(1), links)

	// A second run finds the link cached and makes no further calls.
	summary, err = env.discovery(t, 2).Run(context.Background())
	require.NoError(t, err)
	lookups, dues, _ = env.api.counts()
	assert.Equal(t, 1, lookups)
	assert.Equal(t, 1, dues)
	assert.Equal(t, 0, summary.Succeeded)
}

// Scenario: several invoices resolving to the same DUE fetch it once and link
// every key in that one transaction.
func TestDiscovery_DeduplicatesAcrossInvoices(t *testing.T) {
	env := newPipelineEnv(t)
	otherKey := "99999999999999999999999999999999999999999999"
	env.seedInvoice(t, testInvoiceKey)
	env.seedInvoice(t, otherKey)
	env.api.lookups[testInvoiceKey] = []domain.DueNumber{"24BR0000000001"}
	env.api.lookups[domain.InvoiceKey(otherKey)] = []domain.DueNumber{"24BR0000000001"}
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "REGISTRADA")

	summary, err := env.discovery(t, 4).Run(context.Background())
	require.NoError(t, err)

	lookups, dues, _ := env.api.counts()
	assert.Equal(t, 2, lookups)
	assert.Equal(t, 1, dues, "one fetch per unique DUE")
	assert.Equal(t, 1, summary.Succeeded)

	var links int64
	env.db.Model(&schema.NfDueVinculo{}).Count(&links)
	assert.Equal(t, int64(2), links)
}

// Scenario: an unchanged settled DUE costs exactly one probe; only the sync
// mark moves.
func TestRefresh_SettledUnchanged(t *testing.T) {
	env := newPipelineEnv(t)
	oldSync := time.Now().UTC().Add(-25 * time.Hour)
	oldAverbacao := time.Now().UTC().Add(-30 * 24 * time.Hour)
	env.seedPrincipal(t, "24BR0000000001", "AVERBADA_SEM_DIVERGENCIA", registeredAt, &oldAverbacao, &oldSync)
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "AVERBADA_SEM_DIVERGENCIA")

	summary, err := env.refresh(t, 2).Run(context.Background())
	require.NoError(t, err)

	_, dues, probes := env.api.counts()
	assert.Equal(t, 1, probes)
	assert.Equal(t, 0, dues)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 0, summary.Succeeded)

	var principal schema.DuePrincipal
	require.NoError(t, env.db.First(&principal, "numero = ?", "24BR0000000001").Error)
	require.NotNil(t, principal.DataUltimaAtualizacao)
	assert.WithinDuration(t, time.Now().UTC(), *principal.DataUltimaAtualizacao, time.Minute)

	var eventos int64
	env.db.Model(&schema.DueEvento{}).Count(&eventos)
	assert.Equal(t, int64(0), eventos, "no child rows may be touched")
}

// Scenario: a settled DUE whose remote revision moved forward re-fetches and
// replaces its rows.
func TestRefresh_SettledChanged(t *testing.T) {
	env := newPipelineEnv(t)
	oldSync := time.Now().UTC().Add(-25 * time.Hour)
	oldAverbacao := time.Now().UTC().Add(-30 * 24 * time.Hour)
	env.seedPrincipal(t, "24BR0000000001", "AVERBADA_SEM_DIVERGENCIA", registeredAt, &oldAverbacao, &oldSync)

	newRevision := time.Date(2024, 3, 2, 12, 0, 0, 0, time.FixedZone("", -3*60*60))
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", newRevision, "AVERBADA_SEM_DIVERGENCIA")

	summary, err := env.refresh(t, 2).Run(context.Background())
	require.NoError(t, err)

	_, dues, probes := env.api.counts()
	assert.Equal(t, 1, probes)
	assert.Equal(t, 1, dues)
	assert.Equal(t, 1, summary.Succeeded)

	var principal schema.DuePrincipal
	require.NoError(t, env.db.First(&principal, "numero = ?", "24BR0000000001").Error)
	require.NotNil(t, principal.DataDeRegistro)
	assert.True(t, principal.DataDeRegistro.Equal(newRevision))

	var eventos int64
	env.db.Model(&schema.DueEvento{}).Count(&eventos)
	assert.Equal(t, int64(1), eventos)
}

// Cancelled DUEs cost zero upstream calls.
func TestRefresh_CancelledNeverTouched(t *testing.T) {
	env := newPipelineEnv(t)
	oldSync := time.Now().UTC().Add(-25 * time.Hour)
	env.seedPrincipal(t, "24BR0000000001", "CANCELADA_PELO_EXPORTADOR", registeredAt, nil, &oldSync)

	summary, err := env.refresh(t, 2).Run(context.Background())
	require.NoError(t, err)

	lookups, dues, probes := env.api.counts()
	assert.Equal(t, 0, lookups+dues+probes)
	assert.Equal(t, 0, summary.Succeeded+summary.Unchanged+summary.Skipped)
}

// Pending DUEs skip the probe and fetch directly.
func TestRefresh_PendingFetchesDirectly(t *testing.T) {
	env := newPipelineEnv(t)
	oldSync := time.Now().UTC().Add(-25 * time.Hour)
	env.seedPrincipal(t, "24BR0000000001", "EM_CARGA", registeredAt, nil, &oldSync)
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "DESEMBARACADA")

	summary, err := env.refresh(t, 2).Run(context.Background())
	require.NoError(t, err)

	_, dues, probes := env.api.counts()
	assert.Equal(t, 0, probes)
	assert.Equal(t, 1, dues)
	assert.Equal(t, 1, summary.Succeeded)
}

// Scenario: one DUE hitting the upstream lock fails and is recorded; the
// others persist.
func TestDiscovery_RateLockMidRun(t *testing.T) {
	env := newPipelineEnv(t)
	keys := []string{
		"11111111111111111111111111111111111111111111",
		"22222222222222222222222222222222222222222222",
		"33333333333333333333333333333333333333333333",
	}
	numbers := []domain.DueNumber{"24BR0000000001", "24BR0000000002", "24BR0000000003"}
	for i, key := range keys {
		env.seedInvoice(t, key)
		env.api.lookups[domain.InvoiceKey(key)] = []domain.DueNumber{numbers[i]}
	}
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "REGISTRADA")
	env.api.payloads["24BR0000000002"] = minimalDue("24BR0000000002", registeredAt, "REGISTRADA")
	env.api.dueErrors["24BR0000000003"] = &domain.RateLockedError{
		ReleaseAt: time.Now().Add(2 * time.Minute),
		Message:   "bloqueado",
	}

	summary, err := env.discovery(t, 3).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.RateLocked)
	assert.Equal(t, 1, summary.ErrorCounts["rate_locked"])

	var principals int64
	env.db.Model(&schema.DuePrincipal{}).Count(&principals)
	assert.Equal(t, int64(2), principals)

	// The two persisted DUEs keep their links even though the run degraded.
	var links int64
	env.db.Model(&schema.NfDueVinculo{}).Count(&links)
	assert.Equal(t, int64(2), links)
}

// Scenario: cancelling a refresh stops new fetches; completed DUEs stay fully
// visible.
func TestRefresh_Cancellation(t *testing.T) {
	env := newPipelineEnv(t)
	oldSync := time.Now().UTC().Add(-25 * time.Hour)
	numbers := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		number := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format("06") + "BR" + string(rune('A'+i%26)) + "000000000"
		number = number[:14]
		numbers = append(numbers, number)
		env.seedPrincipal(t, number, "EM_CARGA", registeredAt, nil, &oldSync)
		env.api.payloads[domain.DueNumber(number)] = minimalDue(number, registeredAt, "EM_CARGA")
	}
	env.api.fetchDelay = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	summary, err := env.refresh(t, 2).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, summary.Succeeded, len(numbers), "cancellation must stop new work")

	// Every persisted DUE is complete: principal, item and event all present.
	var principals, itens, eventos int64
	env.db.Model(&schema.DuePrincipal{}).Where("data_ultima_atualizacao > ?", oldSync).Count(&principals)
	env.db.Model(&schema.DueItem{}).Count(&itens)
	env.db.Model(&schema.DueEvento{}).Count(&eventos)
	assert.Equal(t, principals, itens)
	assert.Equal(t, principals, eventos)
}

func TestRefresh_RefreshOneForcesFetch(t *testing.T) {
	env := newPipelineEnv(t)
	env.api.payloads["24BR0000000001"] = minimalDue("24BR0000000001", registeredAt, "AVERBADA_SEM_DIVERGENCIA")

	summary, err := env.refresh(t, 1).RefreshOne(context.Background(), "24BR0000000001")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	_, dues, probes := env.api.counts()
	assert.Equal(t, 0, probes, "forced refresh skips the probe")
	assert.Equal(t, 1, dues)
}

func TestRefresh_BondedActsReplacesOnlyActs(t *testing.T) {
	env := newPipelineEnv(t)
	require.NoError(t, env.store.SaveDue(context.Background(),
		mustRowSet(t, minimalDue("24BR0000000001", registeredAt, "REGISTRADA")), nil, time.Now().UTC()))

	summary, err := env.refresh(t, 1).RefreshBondedActs(context.Background(), []domain.DueNumber{"24BR0000000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	_, dues, _ := env.api.counts()
	assert.Equal(t, 0, dues, "only the acts endpoint is called")

	var eventos int64
	env.db.Model(&schema.DueEvento{}).Count(&eventos)
	assert.Equal(t, int64(1), eventos, "other tables stay untouched")
}

func mustRowSet(t *testing.T, due *normalizer.DuePayload) *normalizer.RowSet {
	t.Helper()
	rows, err := normalizer.Normalize(due, nil, nil, nil)
	require.NoError(t, err)
	return rows
}
