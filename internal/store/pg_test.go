package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/logger"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
	"github.com/N1XSS/controle-siscomex-test/internal/store"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// openTestDB creates a file-backed sqlite database with every table migrated.
// Production runs against Postgres; the dialect differences the store relies
// on (ON CONFLICT, NULLS FIRST) behave the same on both.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(store.Models()...))
	return db
}

func testRowSet(t *testing.T, number string) *normalizer.RowSet {
	t.Helper()
	payload := `{
		"numero": "` + number + `",
		"dataDeRegistro": "2024-03-01T10:00:00-03:00",
		"situacao": "REGISTRADA",
		"eventosDoHistorico": [
			{"dataEHoraDoEvento": "2024-03-01T10:00:00-03:00", "evento": "Registro da DU-E", "responsavel": "123"}
		],
		"itens": [
			{"numero": 1, "descricaoDaMercadoria": "Café verde", "ncm": {"codigo": "09011110"}}
		]
	}`
	var due normalizer.DuePayload
	require.NoError(t, json.Unmarshal([]byte(payload), &due))
	rows, err := normalizer.Normalize(&due, nil, nil, nil)
	require.NoError(t, err)
	return rows
}

func seedInvoice(t *testing.T, db *gorm.DB, key string) {
	t.Helper()
	require.NoError(t, db.Create(&schema.NfeSap{
		ChaveNf:        key,
		DataImportacao: time.Now().UTC(),
		Ativo:          true,
	}).Error)
}

const testInvoiceKey = "12345678901234567890123456789012345678901234"

func TestStore_SaveDueIsAtomic(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	rows := testRowSet(t, "24BR0000000001")
	links := []domain.Link{{
		InvoiceKey: domain.InvoiceKey(testInvoiceKey),
		DueNumber:  "24BR0000000001",
		LinkedAt:   time.Now().UTC(),
		Origin:     "SISCOMEX",
	}}
	syncedAt := time.Now().UTC()

	require.NoError(t, st.SaveDue(ctx, rows, links, syncedAt))

	var principal schema.DuePrincipal
	require.NoError(t, db.First(&principal, "numero = ?", "24BR0000000001").Error)
	require.NotNil(t, principal.DataUltimaAtualizacao)
	assert.WithinDuration(t, syncedAt, *principal.DataUltimaAtualizacao, time.Second)

	var eventos, itens, vinculos int64
	db.Model(&schema.DueEvento{}).Count(&eventos)
	db.Model(&schema.DueItem{}).Count(&itens)
	db.Model(&schema.NfDueVinculo{}).Count(&vinculos)
	assert.Equal(t, int64(1), eventos)
	assert.Equal(t, int64(1), itens)
	assert.Equal(t, int64(1), vinculos)
}

func TestStore_SaveDueReplacesChildren(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))
	// A refresh re-normalizes and replaces; rows must not accumulate.
	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))

	var eventos, itens, principals int64
	db.Model(&schema.DueEvento{}).Count(&eventos)
	db.Model(&schema.DueItem{}).Count(&itens)
	db.Model(&schema.DuePrincipal{}).Count(&principals)
	assert.Equal(t, int64(1), eventos)
	assert.Equal(t, int64(1), itens)
	assert.Equal(t, int64(1), principals)
}

func TestStore_SaveDueScopesDeletionToOneDue(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))
	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000002"), nil, time.Now().UTC()))
	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))

	var eventos int64
	db.Model(&schema.DueEvento{}).Where("numero_due = ?", "24BR0000000002").Count(&eventos)
	assert.Equal(t, int64(1), eventos, "replacing one DUE must not touch another")
}

func TestStore_SaveDueRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	rows := testRowSet(t, "24BR0000000001")
	// A duplicated item primary key poisons the batch inside the transaction.
	rows.Itens = append(rows.Itens, rows.Itens[0])

	err := st.SaveDue(ctx, rows, nil, time.Now().UTC())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)

	var principals, eventos int64
	db.Model(&schema.DuePrincipal{}).Count(&principals)
	db.Model(&schema.DueEvento{}).Count(&eventos)
	assert.Equal(t, int64(0), principals, "no partial DUE may be visible")
	assert.Equal(t, int64(0), eventos)
}

func TestStore_UpsertLinksKeepsExistingOnConflict(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	first := domain.Link{
		InvoiceKey: domain.InvoiceKey(testInvoiceKey),
		DueNumber:  "24BR0000000001",
		LinkedAt:   time.Now().UTC(),
		Origin:     "SISCOMEX",
	}
	require.NoError(t, st.UpsertLinks(ctx, []domain.Link{first}))

	conflicting := first
	conflicting.DueNumber = "24BR0000000009"
	require.NoError(t, st.UpsertLinks(ctx, []domain.Link{conflicting}))

	links, err := st.ListKnownLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DueNumber("24BR0000000001"), links[domain.InvoiceKey(testInvoiceKey)])
}

func TestStore_ListUnlinkedInvoiceKeys(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	linked := "11111111111111111111111111111111111111111111"
	unlinked := "22222222222222222222222222222222222222222222"
	seedInvoice(t, db, linked)
	seedInvoice(t, db, unlinked)
	require.NoError(t, db.Create(&schema.NfeSap{
		ChaveNf:        "33333333333333333333333333333333333333333333",
		DataImportacao: time.Now().UTC(),
		Ativo:          false,
	}).Error)

	require.NoError(t, st.UpsertLinks(ctx, []domain.Link{{
		InvoiceKey: domain.InvoiceKey(linked),
		DueNumber:  "24BR0000000001",
		LinkedAt:   time.Now().UTC(),
		Origin:     "SISCOMEX",
	}}))

	keys, err := st.ListUnlinkedInvoiceKeys(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.InvoiceKey{domain.InvoiceKey(unlinked)}, keys)
}

func TestStore_GetDueRevision(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	rev, err := st.GetDueRevision(ctx, "24BR0000000001")
	require.NoError(t, err)
	assert.Nil(t, rev)

	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))

	rev, err = st.GetDueRevision(ctx, "24BR0000000001")
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "REGISTRADA", rev.Situation)
	assert.True(t, rev.RemoteTime.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", -3*60*60))))
}

func seedPrincipal(t *testing.T, db *gorm.DB, number, situation string, averbacao, lastSync *time.Time) {
	t.Helper()
	registro := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&schema.DuePrincipal{
		Numero:                number,
		Situacao:              &situation,
		DataDeRegistro:        &registro,
		DataDaAverbacao:       averbacao,
		DataUltimaAtualizacao: lastSync,
	}).Error)
}

func TestStore_SelectRefreshCandidates(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	recentAverbacao := now.Add(-2 * 24 * time.Hour)
	oldAverbacao := now.Add(-30 * 24 * time.Hour)

	seedPrincipal(t, db, "24BR0000000001", "CANCELADA_PELO_EXPORTADOR", nil, &old)
	seedPrincipal(t, db, "24BR0000000002", "EM_CARGA", nil, &old)
	seedPrincipal(t, db, "24BR0000000003", "AVERBADA_SEM_DIVERGENCIA", &recentAverbacao, &old)
	seedPrincipal(t, db, "24BR0000000004", "AVERBADA_SEM_DIVERGENCIA", &oldAverbacao, &old)
	seedPrincipal(t, db, "24BR0000000005", "EM_CARGA", nil, &now) // freshly synced
	seedPrincipal(t, db, "24BR0000000006", "AVERBADA_SEM_DIVERGENCIA", &oldAverbacao, &now)

	// An orphaned link: vínculo exists, principal does not.
	require.NoError(t, st.UpsertLinks(ctx, []domain.Link{{
		InvoiceKey: domain.InvoiceKey(testInvoiceKey),
		DueNumber:  "24BR0000000099",
		LinkedAt:   now,
		Origin:     "SISCOMEX",
	}}))

	candidates, err := st.SelectRefreshCandidates(ctx, store.RefreshPolicy{
		Partition:            domain.DefaultSituationPartition(),
		StalenessHours:       24,
		RecentSettlementDays: 7,
	})
	require.NoError(t, err)

	kinds := make(map[domain.DueNumber]store.CandidateKind, len(candidates))
	for _, c := range candidates {
		kinds[c.Number] = c.Kind
	}

	assert.NotContains(t, kinds, domain.DueNumber("24BR0000000001"), "cancelled is never refreshed")
	assert.NotContains(t, kinds, domain.DueNumber("24BR0000000006"), "freshly synced settled waits for staleness")
	assert.Equal(t, store.CandidatePending, kinds["24BR0000000005"], "pending is refreshed regardless of staleness")
	assert.Equal(t, store.CandidateOrphan, kinds["24BR0000000099"])
	assert.Equal(t, store.CandidatePending, kinds["24BR0000000002"])
	assert.Equal(t, store.CandidateSettledRecent, kinds["24BR0000000003"])
	assert.Equal(t, store.CandidateSettledStale, kinds["24BR0000000004"])

	// Orphans come first so a tight limit still recovers them.
	require.NotEmpty(t, candidates)
	assert.Equal(t, store.CandidateOrphan, candidates[0].Kind)
}

func TestStore_SelectRefreshCandidatesHonorsLimit(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	for _, n := range []string{"24BR0000000001", "24BR0000000002", "24BR0000000003"} {
		seedPrincipal(t, db, n, "EM_CARGA", nil, &old)
	}

	candidates, err := st.SelectRefreshCandidates(ctx, store.RefreshPolicy{
		Partition:      domain.DefaultSituationPartition(),
		StalenessHours: 24,
		Limit:          2,
	})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestStore_MarkSynced(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC().Add(-time.Hour)))

	at := time.Now().UTC()
	require.NoError(t, st.MarkSynced(ctx, "24BR0000000001", at))

	var principal schema.DuePrincipal
	require.NoError(t, db.First(&principal, "numero = ?", "24BR0000000001").Error)
	require.NotNil(t, principal.DataUltimaAtualizacao)
	assert.WithinDuration(t, at, *principal.DataUltimaAtualizacao, time.Second)
}

func TestStore_ReplaceSuspensionActs(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	acts := normalizer.SuspensionActRows("24BR0000000001", []normalizer.ConcessionaryAct{
		{Numero: "20240001234"},
		{Numero: "20240005678"},
	})
	require.NoError(t, st.ReplaceSuspensionActs(ctx, "24BR0000000001", acts))

	replacement := normalizer.SuspensionActRows("24BR0000000001", []normalizer.ConcessionaryAct{
		{Numero: "20249999999"},
	})
	require.NoError(t, st.ReplaceSuspensionActs(ctx, "24BR0000000001", replacement))

	var rows []schema.DueAtoConcessorioSuspensao
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AtoNumero)
	assert.Equal(t, "20249999999", *rows[0].AtoNumero)
}

func TestStore_Counts(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	seedInvoice(t, db, testInvoiceKey)
	require.NoError(t, st.SaveDue(ctx, testRowSet(t, "24BR0000000001"), nil, time.Now().UTC()))

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["nfe_sap"])
	assert.Equal(t, int64(1), counts["due_principal"])
	assert.Equal(t, int64(1), counts["due_itens"])
	assert.Equal(t, int64(0), counts["nf_due_vinculo"])
}

func TestStore_ReplaceSupportTable(t *testing.T) {
	db := openTestDB(t)
	st := store.NewStore(db)
	ctx := context.Background()

	rows := []map[string]interface{}{
		{"codigoNumerico": 105, "siglaIso2": "BR", "nome": "Brasil"},
		{"codigoNumerico": 249, "siglaIso2": "US", "nome": "Estados Unidos"},
	}
	require.NoError(t, st.ReplaceSupportTable(ctx, "pais", rows))

	var paises []schema.SuportePais
	require.NoError(t, db.Order("codigo_numerico").Find(&paises).Error)
	require.Len(t, paises, 2)
	require.NotNil(t, paises[0].Nome)
	assert.Equal(t, "Brasil", *paises[0].Nome)

	require.NoError(t, st.ReplaceSupportTable(ctx, "pais", rows[:1]))
	require.NoError(t, db.Find(&paises).Error)
	assert.Len(t, paises, 1)

	err := st.ReplaceSupportTable(ctx, "nope", nil)
	assert.ErrorIs(t, err, domain.ErrStore)
}
