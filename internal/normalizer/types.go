package normalizer

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// OffsetDatetime is a timestamp carrying the upstream-supplied UTC offset.
// The upstream emits "2024-03-01T10:00:00.000-0300" (no colon in the offset);
// RFC 3339 variants are accepted too. The offset is preserved; no implicit
// conversion happens on the way to the store.
type OffsetDatetime struct {
	t     time.Time
	valid bool
}

var datetimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts null, the empty string and every layout the upstream
// has been observed to emit.
func (d *OffsetDatetime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(data, `"`))
	if raw == "" {
		return nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.t = t
			d.valid = true
			return nil
		}
	}
	// An unparseable timestamp is treated as absent rather than failing the
	// whole document.
	return nil
}

// Valid reports whether a timestamp was present and parseable.
func (d OffsetDatetime) Valid() bool { return d.valid }

// Time returns the parsed instant; zero when absent.
func (d OffsetDatetime) Time() time.Time { return d.t }

// Ptr returns the parsed instant or nil when absent.
func (d OffsetDatetime) Ptr() *time.Time {
	if !d.valid {
		return nil
	}
	t := d.t
	return &t
}

// At builds a present OffsetDatetime, used by tests and fixtures.
func At(t time.Time) OffsetDatetime {
	return OffsetDatetime{t: t, valid: true}
}

// Nacionalidade is the nationality block of a document holder.
type Nacionalidade struct {
	Codigo       *int   `json:"codigo"`
	Nome         string `json:"nome"`
	NomeResumido string `json:"nomeResumido"`
}

// Declarante identifies the declaring party of a DUE.
type Declarante struct {
	NumeroDoDocumento string        `json:"numeroDoDocumento"`
	TipoDoDocumento   string        `json:"tipoDoDocumento"`
	Nome              string        `json:"nome"`
	Estrangeiro       *bool         `json:"estrangeiro"`
	Nacionalidade     Nacionalidade `json:"nacionalidade"`
}

// Exportador identifies the exporting party of an item. The upstream never
// populates the exporter name, so only the document is modeled.
type Exportador struct {
	NumeroDoDocumento string `json:"numeroDoDocumento"`
	TipoDoDocumento   string `json:"tipoDoDocumento"`
}

// CodedRef is a reference to a domain code, optionally with a description.
type CodedRef struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

// NumericRef is a reference keyed by a numeric domain code.
type NumericRef struct {
	Codigo *int `json:"codigo"`
}

// Ncm is the Mercosur common nomenclature block of an item or invoice item.
type Ncm struct {
	Codigo                   string `json:"codigo"`
	Descricao                string `json:"descricao"`
	UnidadeMedidaEstatistica string `json:"unidadeMedidaEstatistica"`
}

// Evento is one event-history entry. Only timestamp, event, responsible and
// the optional additional info are populated by the upstream.
type Evento struct {
	DataEHoraDoEvento     OffsetDatetime `json:"dataEHoraDoEvento"`
	Evento                string         `json:"evento"`
	Responsavel           string         `json:"responsavel"`
	InformacoesAdicionais string         `json:"informacoesAdicionais"`
}

// Enquadramento is one framing code of an item.
type Enquadramento struct {
	Codigo       *int           `json:"codigo"`
	DataRegistro OffsetDatetime `json:"dataRegistro"`
	Descricao    string         `json:"descricao"`
	Grupo        *int           `json:"grupo"`
	Tipo         *int           `json:"tipo"`
}

// TratamentoAdministrativo is one administrative treatment of an item.
type TratamentoAdministrativo struct {
	Mensagem             string   `json:"mensagem"`
	ImpeditivoDeEmbarque *bool    `json:"impeditivoDeEmbarque"`
	CodigoLPCO           string   `json:"codigoLPCO"`
	Situacao             string   `json:"situacao"`
	Orgaos               []string `json:"orgaos"`
}

// IdentificacaoDoEmitente identifies an invoice issuer.
type IdentificacaoDoEmitente struct {
	Numero string `json:"numero"`
	Cnpj   *bool  `json:"cnpj"`
	Cpf    *bool  `json:"cpf"`
}

// NotaFiscal is the invoice block embedded in invoice item references.
// The upstream spells the electronic-invoice flag "notaFicalEletronica".
type NotaFiscal struct {
	ChaveDeAcesso           string                  `json:"chaveDeAcesso"`
	Modelo                  string                  `json:"modelo"`
	Serie                   *int                    `json:"serie"`
	NumeroDoDocumento       *int64                  `json:"numeroDoDocumento"`
	UfDoEmissor             string                  `json:"ufDoEmissor"`
	IdentificacaoDoEmitente IdentificacaoDoEmitente `json:"identificacaoDoEmitente"`
	Finalidade              string                  `json:"finalidade"`
	QuantidadeDeItens       *int                    `json:"quantidadeDeItens"`
	NotaFiscalEletronica    *bool                   `json:"notaFicalEletronica"`
}

// NotaRemessaItem is one remittance invoice item consumed by a DUE item.
type NotaRemessaItem struct {
	NumeroDoItem            *int                `json:"numeroDoItem"`
	NotaFiscal              NotaFiscal          `json:"notaFiscal"`
	Cfop                    *int                `json:"cfop"`
	CodigoDoProduto         string              `json:"codigoDoProduto"`
	Descricao               string              `json:"descricao"`
	QuantidadeEstatistica   decimal.NullDecimal `json:"quantidadeEstatistica"`
	UnidadeComercial        string              `json:"unidadeComercial"`
	ValorTotalBruto         decimal.NullDecimal `json:"valorTotalBruto"`
	QuantidadeConsumida     decimal.NullDecimal `json:"quantidadeConsumida"`
	Ncm                     Ncm                 `json:"ncm"`
	ApresentadaParaDespacho *bool               `json:"apresentadaParaDespacho"`
}

// NotaExportacaoItem is the export invoice item of a DUE item.
type NotaExportacaoItem struct {
	NumeroDoItem            *int                `json:"numeroDoItem"`
	NotaFiscal              NotaFiscal          `json:"notaFiscal"`
	Cfop                    *int                `json:"cfop"`
	CodigoDoProduto         string              `json:"codigoDoProduto"`
	Descricao               string              `json:"descricao"`
	QuantidadeEstatistica   decimal.NullDecimal `json:"quantidadeEstatistica"`
	UnidadeComercial        string              `json:"unidadeComercial"`
	ValorTotalCalculado     decimal.NullDecimal `json:"valorTotalCalculado"`
	Ncm                     Ncm                 `json:"ncm"`
	ApresentadaParaDespacho *bool               `json:"apresentadaParaDespacho"`
}

// NotaComplementarItem is one complementary invoice item of a DUE item.
type NotaComplementarItem struct {
	NumeroDoItem          *int                `json:"numeroDoItem"`
	NotaFiscal            NotaFiscal          `json:"notaFiscal"`
	Cfop                  *int                `json:"cfop"`
	CodigoDoProduto       string              `json:"codigoDoProduto"`
	Descricao             string              `json:"descricao"`
	QuantidadeEstatistica decimal.NullDecimal `json:"quantidadeEstatistica"`
	UnidadeComercial      string              `json:"unidadeComercial"`
	ValorTotalBruto       decimal.NullDecimal `json:"valorTotalBruto"`
	Ncm                   Ncm                 `json:"ncm"`
}

// Atributo is one NCM attribute of an item.
type Atributo struct {
	Codigo    string `json:"codigo"`
	Valor     string `json:"valor"`
	Descricao string `json:"descricao"`
}

// DocumentoImportacao links an item to an import document.
type DocumentoImportacao struct {
	Tipo                string              `json:"tipo"`
	Numero              string              `json:"numero"`
	DataRegistro        OffsetDatetime      `json:"dataRegistro"`
	ItemDocumento       *int                `json:"itemDocumento"`
	QuantidadeUtilizada decimal.NullDecimal `json:"quantidadeUtilizada"`
}

// DocumentoTransformacao links an item to a transformation document.
type DocumentoTransformacao struct {
	Tipo         string         `json:"tipo"`
	Numero       string         `json:"numero"`
	DataRegistro OffsetDatetime `json:"dataRegistro"`
}

// TratamentoTributario is one tax treatment of an item's calculation.
type TratamentoTributario struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
	Tipo      string `json:"tipo"`
	Tributo   string `json:"tributo"`
}

// QuadroDeCalculo is one tax bracket of an item's calculation.
type QuadroDeCalculo struct {
	Tributo         string              `json:"tributo"`
	BaseDeCalculo   decimal.NullDecimal `json:"baseDeCalculo"`
	Aliquota        decimal.NullDecimal `json:"aliquota"`
	ValorDevido     decimal.NullDecimal `json:"valorDevido"`
	ValorRecolhido  decimal.NullDecimal `json:"valorRecolhido"`
	ValorCompensado decimal.NullDecimal `json:"valorCompensado"`
}

// CalculoTributario groups the tax data of an item.
type CalculoTributario struct {
	TratamentosTributarios []TratamentoTributario `json:"tratamentosTributarios"`
	QuadroDeCalculos       []QuadroDeCalculo      `json:"quadroDeCalculos"`
}

// ExportacaoTemporaria flags temporary exports.
type ExportacaoTemporaria struct {
	Temporaria *bool `json:"temporaria"`
}

// Item is one item of a DUE payload.
type Item struct {
	Numero                                  int                        `json:"numero"`
	QuantidadeNaUnidadeEstatistica          decimal.NullDecimal        `json:"quantidadeNaUnidadeEstatistica"`
	PesoLiquidoTotal                        decimal.NullDecimal        `json:"pesoLiquidoTotal"`
	ValorDaMercadoriaNaCondicaoDeVenda      decimal.NullDecimal        `json:"valorDaMercadoriaNaCondicaoDeVenda"`
	ValorDaMercadoriaNoLocalDeEmbarque      decimal.NullDecimal        `json:"valorDaMercadoriaNoLocalDeEmbarque"`
	ValorDaMercadoriaNoLocalDeEmbarqueReais decimal.NullDecimal        `json:"valorDaMercadoriaNoLocalDeEmbarqueEmReais"`
	ValorDaMercadoriaNaCondicaoDeVendaReais decimal.NullDecimal        `json:"valorDaMercadoriaNaCondicaoDeVendaEmReais"`
	DataDeConversao                         OffsetDatetime             `json:"dataDeConversao"`
	DescricaoDaMercadoria                   string                     `json:"descricaoDaMercadoria"`
	UnidadeComercializada                   string                     `json:"unidadeComercializada"`
	NomeImportador                          string                     `json:"nomeImportador"`
	EnderecoImportador                      string                     `json:"enderecoImportador"`
	ValorTotalCalculadoItem                 decimal.NullDecimal        `json:"valorTotalCalculadoItem"`
	QuantidadeNaUnidadeComercializada       decimal.NullDecimal        `json:"quantidadeNaUnidadeComercializada"`
	Ncm                                     Ncm                        `json:"ncm"`
	Exportador                              Exportador                 `json:"exportador"`
	CodigoCondicaoVenda                     CodedRef                   `json:"codigoCondicaoVenda"`
	ExportacaoTemporaria                    ExportacaoTemporaria       `json:"exportacaoTemporaria"`
	ListaDeEnquadramentos                   []Enquadramento            `json:"listaDeEnquadramentos"`
	ListaPaisDestino                        []NumericRef               `json:"listaPaisDestino"`
	TratamentosAdministrativos              []TratamentoAdministrativo `json:"tratamentosAdministrativos"`
	ItensDaNotaDeRemessa                    []NotaRemessaItem          `json:"itensDaNotaDeRemessa"`
	ItemDaNotaFiscalDeExportacao            *NotaExportacaoItem        `json:"itemDaNotaFiscalDeExportacao"`
	ItensDeNotaComplementar                 []NotaComplementarItem     `json:"itensDeNotaComplementar"`
	Atributos                               []Atributo                 `json:"atributos"`
	DocumentosImportacao                    []DocumentoImportacao      `json:"documentosImportacao"`
	DocumentosDeTransformacao               []DocumentoTransformacao   `json:"documentosDeTransformacao"`
	CalculoTributario                       CalculoTributario          `json:"calculoTributario"`
}

// SituacaoDaCarga is one cargo situation entry.
type SituacaoDaCarga struct {
	Codigo       *int   `json:"codigo"`
	Descricao    string `json:"descricao"`
	CargaOperada *bool  `json:"cargaOperada"`
}

// Solicitacao is one workflow request entry.
type Solicitacao struct {
	TipoSolicitacao             string         `json:"tipoSolicitacao"`
	DataDaSolicitacao           OffsetDatetime `json:"dataDaSolicitacao"`
	UsuarioResponsavel          string         `json:"usuarioResponsavel"`
	CodigoDoStatusDaSolicitacao *int           `json:"codigoDoStatusDaSolicitacao"`
	StatusDaSolicitacao         string         `json:"statusDaSolicitacao"`
	DataDeApreciacao            OffsetDatetime `json:"dataDeApreciacao"`
	Motivo                      string         `json:"motivo"`
}

// Compensacao is one compensation of the tributary declaration.
type Compensacao struct {
	DataDoRegistro     OffsetDatetime      `json:"dataDoRegistro"`
	NumeroDaDeclaracao string              `json:"numeroDaDeclaracao"`
	ValorCompensado    decimal.NullDecimal `json:"valorCompensado"`
}

// Recolhimento is one tax payment of the tributary declaration.
type Recolhimento struct {
	DataDoPagamento         OffsetDatetime      `json:"dataDoPagamento"`
	DataDoRegistro          OffsetDatetime      `json:"dataDoRegistro"`
	ValorDaMulta            decimal.NullDecimal `json:"valorDaMulta"`
	ValorDoImpostoRecolhido decimal.NullDecimal `json:"valorDoImpostoRecolhido"`
	ValorDoJurosMora        decimal.NullDecimal `json:"valorDoJurosMora"`
}

// Contestacao is one contestation of the tributary declaration.
type Contestacao struct {
	DataDoRegistro   OffsetDatetime `json:"dataDoRegistro"`
	Motivo           string         `json:"motivo"`
	Status           string         `json:"status"`
	DataDeApreciacao OffsetDatetime `json:"dataDeApreciacao"`
	Observacao       string         `json:"observacao"`
}

// DeclaracaoTributaria groups the tributary declaration of a DUE.
type DeclaracaoTributaria struct {
	Divergente    *bool          `json:"divergente"`
	Compensacoes  []Compensacao  `json:"compensacoes"`
	Recolhimentos []Recolhimento `json:"recolhimentos"`
	Contestacoes  []Contestacao  `json:"contestacoes"`
}

// DuePayload is the principal JSON document of one export declaration as the
// Portal Único returns it.
type DuePayload struct {
	Numero                             string               `json:"numero"`
	ChaveDeAcesso                      string               `json:"chaveDeAcesso"`
	DataDeRegistro                     OffsetDatetime       `json:"dataDeRegistro"`
	Bloqueio                           *bool                `json:"bloqueio"`
	Canal                              string               `json:"canal"`
	EmbarqueEmRecintoAlfandegado       *bool                `json:"embarqueEmRecintoAlfandegado"`
	DespachoEmRecintoAlfandegado       *bool                `json:"despachoEmRecintoAlfandegado"`
	FormaDeExportacao                  string               `json:"formaDeExportacao"`
	ImpedidoDeEmbarque                 *bool                `json:"impedidoDeEmbarque"`
	InformacoesComplementares          string               `json:"informacoesComplementares"`
	Ruc                                string               `json:"ruc"`
	Situacao                           string               `json:"situacao"`
	SituacaoDoTratamentoAdministrativo string               `json:"situacaoDoTratamentoAdministrativo"`
	Tipo                               string               `json:"tipo"`
	TratamentoPrioritario              *bool                `json:"tratamentoPrioritario"`
	ResponsavelPeloACD                 string               `json:"responsavelPeloACD"`
	DespachoEmRecintoDomiciliar        *bool                `json:"despachoEmRecintoDomiciliar"`
	DataDeCriacao                      OffsetDatetime       `json:"dataDeCriacao"`
	DataDoCCE                          OffsetDatetime       `json:"dataDoCCE"`
	DataDoDesembaraco                  OffsetDatetime       `json:"dataDoDesembaraco"`
	DataDoAcd                          OffsetDatetime       `json:"dataDoAcd"`
	DataDaAverbacao                    OffsetDatetime       `json:"dataDaAverbacao"`
	ValorTotalMercadoria               decimal.NullDecimal  `json:"valorTotalMercadoria"`
	InclusaoNotaFiscal                 *bool                `json:"inclusaoNotaFiscal"`
	ExigenciaAtiva                     *bool                `json:"exigenciaAtiva"`
	Consorciada                        *bool                `json:"consorciada"`
	Dat                                *bool                `json:"dat"`
	Oea                                *bool                `json:"oea"`
	Declarante                         Declarante           `json:"declarante"`
	Moeda                              NumericRef           `json:"moeda"`
	PaisImportador                     NumericRef           `json:"paisImportador"`
	RecintoAduaneiroDeDespacho         CodedRef             `json:"recintoAduaneiroDeDespacho"`
	RecintoAduaneiroDeEmbarque         CodedRef             `json:"recintoAduaneiroDeEmbarque"`
	UnidadeLocalDeDespacho             CodedRef             `json:"unidadeLocalDeDespacho"`
	UnidadeLocalDeEmbarque             CodedRef             `json:"unidadeLocalDeEmbarque"`
	DeclaracaoTributaria               DeclaracaoTributaria `json:"declaracaoTributaria"`
	EventosDoHistorico                 []Evento             `json:"eventosDoHistorico"`
	Itens                              []Item               `json:"itens"`
	SituacoesDaCarga                   []SituacaoDaCarga    `json:"situacoesDaCarga"`
	Solicitacoes                       []Solicitacao        `json:"solicitacoes"`
}

// ConcessionaryAct is one drawback concessionary act, suspension or
// exemption.
type ConcessionaryAct struct {
	Numero string `json:"numero"`
	Tipo   struct {
		Codigo    *int   `json:"codigo"`
		Descricao string `json:"descricao"`
	} `json:"tipo"`
	Item struct {
		Numero string `json:"numero"`
		Ncm    string `json:"ncm"`
	} `json:"item"`
	Beneficiario struct {
		Cnpj string `json:"cnpj"`
	} `json:"beneficiario"`
	QuantidadeExportada      decimal.NullDecimal `json:"quantidadeExportada"`
	ValorComCoberturaCambial decimal.NullDecimal `json:"valorComCoberturaCambial"`
	ValorSemCoberturaCambial decimal.NullDecimal `json:"valorSemCoberturaCambial"`
	ItemDeDUE                struct {
		Numero string `json:"numero"`
	} `json:"itemDeDUE"`
}

// FiscalRequirement is one fiscal requirement raised against a DUE.
type FiscalRequirement struct {
	Numero           string              `json:"numero"`
	Tipo             string              `json:"tipo"`
	DataCriacao      OffsetDatetime      `json:"dataCriacao"`
	DataLimite       OffsetDatetime      `json:"dataLimite"`
	Status           string              `json:"status"`
	OrgaoResponsavel string              `json:"orgaoResponsavel"`
	Descricao        string              `json:"descricao"`
	ValorExigido     decimal.NullDecimal `json:"valorExigido"`
	ValorPago        decimal.NullDecimal `json:"valorPago"`
	Observacoes      string              `json:"observacoes"`
}
