package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1XSS/controle-siscomex-test/internal/siscomex"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
	syncpkg "github.com/N1XSS/controle-siscomex-test/internal/sync"
)

type fakeTabxAPI struct {
	tables    []siscomex.TabxTable
	rows      map[string][]map[string]interface{}
	rowCalls  int
	listCalls int
}

func (f *fakeTabxAPI) ListTables(ctx context.Context) ([]siscomex.TabxTable, error) {
	f.listCalls++
	return f.tables, nil
}

func (f *fakeTabxAPI) GetTableRows(ctx context.Context, name string) ([]map[string]interface{}, error) {
	f.rowCalls++
	return f.rows[name], nil
}

func TestReferenceLoader_ReplacesModeledTables(t *testing.T) {
	env := newPipelineEnv(t)
	api := &fakeTabxAPI{
		tables: []siscomex.TabxTable{
			{Nome: "PAIS", Descricao: "Países"},
			{Nome: "TABELA_DESCONHECIDA"},
		},
		rows: map[string][]map[string]interface{}{
			"PAIS": {
				{"codigoNumerico": 105, "siglaIso2": "BR", "nome": "Brasil"},
			},
		},
	}

	loader := syncpkg.NewReferenceLoader(api, env.store, env.clock)
	summary, err := loader.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, api.listCalls)
	assert.Equal(t, 1, api.rowCalls, "unmodeled tables are skipped without a fetch")

	var paises []schema.SuportePais
	require.NoError(t, env.db.Find(&paises).Error)
	require.Len(t, paises, 1)
	assert.Equal(t, 105, paises[0].CodigoNumerico)
	require.NotNil(t, paises[0].Nome)
	assert.Equal(t, "Brasil", *paises[0].Nome)
}
