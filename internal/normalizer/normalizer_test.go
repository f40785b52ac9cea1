package normalizer_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/normalizer"
)

// minimalPayload mirrors the smallest payload the upstream returns for a
// registered declaration: one item, one event.
const minimalPayload = `{
	"numero": "24BR0000000001",
	"chaveDeAcesso": "DUE24BR0000000001KEY",
	"dataDeRegistro": "2024-03-01T10:00:00-03:00",
	"situacao": "REGISTRADA",
	"canal": "VERDE",
	"tipo": "COMPLETA",
	"valorTotalMercadoria": 15000.50,
	"declarante": {
		"numeroDoDocumento": "12345678000199",
		"tipoDoDocumento": "CNPJ",
		"nome": "Exportadora Exemplo SA",
		"nacionalidade": {"codigo": 105, "nome": "Brasil", "nomeResumido": "BR"}
	},
	"moeda": {"codigo": 220},
	"paisImportador": {"codigo": 249},
	"eventosDoHistorico": [
		{
			"dataEHoraDoEvento": "2024-03-01T10:00:00-03:00",
			"evento": "Registro da DU-E",
			"responsavel": "12345678901",
			"informacoesAdicionais": ""
		}
	],
	"itens": [
		{
			"numero": 1,
			"pesoLiquidoTotal": 1200.55,
			"valorDaMercadoriaNaCondicaoDeVenda": 15000.50,
			"descricaoDaMercadoria": "Café verde em grãos",
			"ncm": {"codigo": "09011110", "descricao": "Café não torrado", "unidadeMedidaEstatistica": "KG"},
			"exportador": {"numeroDoDocumento": "12345678000199", "tipoDoDocumento": "CNPJ"},
			"codigoCondicaoVenda": {"codigo": "FOB"},
			"listaPaisDestino": [{"codigo": 249}]
		}
	]
}`

func decodePayload(t *testing.T) *normalizer.DuePayload {
	t.Helper()
	var due normalizer.DuePayload
	require.NoError(t, json.Unmarshal([]byte(minimalPayload), &due))
	return &due
}

func TestNormalize_MinimalPayload(t *testing.T) {
	rows, err := normalizer.Normalize(decodePayload(t), nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.DueNumber("24BR0000000001"), rows.DueNumber())
	assert.Equal(t, "24BR0000000001", rows.Principal.Numero)
	require.NotNil(t, rows.Principal.Situacao)
	assert.Equal(t, "REGISTRADA", *rows.Principal.Situacao)
	require.True(t, rows.Principal.ValorTotalMercadoria.Valid)
	assert.True(t, rows.Principal.ValorTotalMercadoria.Decimal.Equal(decimal.RequireFromString("15000.50")))

	require.Len(t, rows.Eventos, 1)
	assert.Equal(t, "24BR0000000001", rows.Eventos[0].NumeroDue)
	require.NotNil(t, rows.Eventos[0].Evento)
	assert.Equal(t, "Registro da DU-E", *rows.Eventos[0].Evento)
	// Empty optional scalars become nulls, not empty strings.
	assert.Nil(t, rows.Eventos[0].InformacoesAdicionais)

	require.Len(t, rows.Itens, 1)
	item := rows.Itens[0]
	assert.Equal(t, "24BR0000000001_1", item.ID)
	assert.Equal(t, 1, item.NumeroItem)
	require.NotNil(t, item.NcmCodigo)
	assert.Equal(t, "09011110", *item.NcmCodigo)
	require.NotNil(t, item.ExportadorNumeroDoDocumento)
	assert.Equal(t, "12345678000199", *item.ExportadorNumeroDoDocumento)

	require.Len(t, rows.ItemPaisesDestino, 1)
	assert.Equal(t, "24BR0000000001_1", rows.ItemPaisesDestino[0].DueItemID)

	// Absent arrays produce no rows.
	assert.Empty(t, rows.SituacoesCarga)
	assert.Empty(t, rows.Solicitacoes)
	assert.Empty(t, rows.ItemNotasRemessa)
	assert.Empty(t, rows.AtosSuspensao)
	assert.Empty(t, rows.ExigenciasFiscais)
}

// The registration timestamp keeps its upstream offset.
func TestNormalize_PreservesUpstreamOffset(t *testing.T) {
	rows, err := normalizer.Normalize(decodePayload(t), nil, nil, nil)
	require.NoError(t, err)

	require.NotNil(t, rows.Principal.DataDeRegistro)
	_, offset := rows.Principal.DataDeRegistro.Zone()
	assert.Equal(t, -3*60*60, offset)
	assert.True(t, rows.Principal.DataDeRegistro.Equal(
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("", -3*60*60))))
}

// The upstream also emits offsets without the colon.
func TestOffsetDatetime_AcceptsCompactOffset(t *testing.T) {
	var d normalizer.OffsetDatetime
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-07T11:29:42.000-0300"`), &d))
	require.True(t, d.Valid())
	_, offset := d.Time().Zone()
	assert.Equal(t, -3*60*60, offset)

	var absent normalizer.OffsetDatetime
	require.NoError(t, json.Unmarshal([]byte(`""`), &absent))
	assert.False(t, absent.Valid())
	assert.Nil(t, absent.Ptr())
}

// Repeated application to the same inputs yields row-by-row identical output.
func TestNormalize_Pure(t *testing.T) {
	due := decodePayload(t)
	acts := []normalizer.ConcessionaryAct{{Numero: "20240001234"}}
	reqs := []normalizer.FiscalRequirement{{Numero: "EX-1", Status: "ABERTA"}}

	first, err := normalizer.Normalize(due, acts, nil, reqs)
	require.NoError(t, err)
	second, err := normalizer.Normalize(due, acts, nil, reqs)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestNormalize_AuxiliaryDocuments(t *testing.T) {
	suspActs := []normalizer.ConcessionaryAct{{
		Numero:              "20240001234",
		QuantidadeExportada: decimal.NewNullDecimal(decimal.RequireFromString("10.5")),
	}}
	exemptActs := []normalizer.ConcessionaryAct{{Numero: "20249999999"}}
	reqs := []normalizer.FiscalRequirement{{
		Numero:    "EX-1",
		Tipo:      "MULTA",
		Status:    "ABERTA",
		Descricao: "Divergência de peso",
	}}

	rows, err := normalizer.Normalize(decodePayload(t), suspActs, exemptActs, reqs)
	require.NoError(t, err)

	require.Len(t, rows.AtosSuspensao, 1)
	require.NotNil(t, rows.AtosSuspensao[0].AtoNumero)
	assert.Equal(t, "20240001234", *rows.AtosSuspensao[0].AtoNumero)
	assert.Equal(t, "24BR0000000001", rows.AtosSuspensao[0].NumeroDue)

	require.Len(t, rows.AtosIsencao, 1)
	require.Len(t, rows.ExigenciasFiscais, 1)
	require.NotNil(t, rows.ExigenciasFiscais[0].Status)
	assert.Equal(t, "ABERTA", *rows.ExigenciasFiscais[0].Status)
}

func TestNormalize_RejectsPayloadWithoutNumber(t *testing.T) {
	_, err := normalizer.Normalize(&normalizer.DuePayload{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNormalizer)

	_, err = normalizer.Normalize(nil, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNormalizer)
}

func TestNormalize_ItemChildrenCarryItemIndex(t *testing.T) {
	payload := `{
		"numero": "24BR0000000002",
		"itens": [{
			"numero": 3,
			"tratamentosAdministrativos": [{
				"mensagem": "LPCO pendente",
				"codigoLPCO": "E2400012345",
				"situacao": "DEFERIDO",
				"orgaos": ["MAPA", "ANVISA"]
			}],
			"atributos": [{"codigo": "ATT_001", "valor": "X"}],
			"calculoTributario": {
				"quadroDeCalculos": [{"tributo": "II", "baseDeCalculo": 100.00, "aliquota": 0.015}]
			}
		}]
	}`
	var due normalizer.DuePayload
	require.NoError(t, json.Unmarshal([]byte(payload), &due))

	rows, err := normalizer.Normalize(&due, nil, nil, nil)
	require.NoError(t, err)

	require.Len(t, rows.ItemTratamentosAdmin, 1)
	trat := rows.ItemTratamentosAdmin[0]
	assert.Equal(t, "24BR0000000002_3_0", trat.ID)
	assert.Equal(t, 3, trat.NumeroItem)

	require.Len(t, rows.ItemTratamentosAdminOrgaos, 2)
	assert.Equal(t, trat.ID, rows.ItemTratamentosAdminOrgaos[0].TratamentoAdministrativoID)

	require.Len(t, rows.ItemAtributos, 1)
	assert.Equal(t, 3, rows.ItemAtributos[0].NumeroItem)
	assert.Equal(t, 0, rows.ItemAtributos[0].Indice)

	require.Len(t, rows.ItemCalculoQuadros, 1)
	quadro := rows.ItemCalculoQuadros[0]
	require.NotNil(t, quadro.Tributo)
	assert.Equal(t, "II", *quadro.Tributo)
	require.True(t, quadro.Aliquota.Valid)
	assert.True(t, quadro.Aliquota.Decimal.Equal(decimal.RequireFromString("0.015")))
}
