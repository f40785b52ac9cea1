package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueItem is one item of a DUE. The synthetic ID is "<numero_due>_<item>",
// kept from the upstream mirror so child rows can reference an item without a
// composite key. The exporter is identified by document only; the upstream
// never populates the exporter name.
type DueItem struct {
	ID                                      string              `gorm:"column:id;primaryKey;type:varchar(30)"`
	NumeroDue                               string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_itens_numero_due"`
	NumeroItem                              int                 `gorm:"column:numero_item;not null"`
	QuantidadeNaUnidadeEstatistica          decimal.NullDecimal `gorm:"column:quantidade_na_unidade_estatistica;type:numeric(14,5)"`
	PesoLiquidoTotal                        decimal.NullDecimal `gorm:"column:peso_liquido_total;type:numeric(14,5)"`
	ValorDaMercadoriaNaCondicaoDeVenda      decimal.NullDecimal `gorm:"column:valor_da_mercadoria_na_condicao_de_venda;type:numeric(15,2)"`
	ValorDaMercadoriaNoLocalDeEmbarque      decimal.NullDecimal `gorm:"column:valor_da_mercadoria_no_local_de_embarque;type:numeric(15,2)"`
	ValorDaMercadoriaNoLocalDeEmbarqueReais decimal.NullDecimal `gorm:"column:valor_da_mercadoria_no_local_de_embarque_em_reais;type:numeric(15,2)"`
	ValorDaMercadoriaNaCondicaoDeVendaReais decimal.NullDecimal `gorm:"column:valor_da_mercadoria_na_condicao_de_venda_em_reais;type:numeric(15,2)"`
	DataDeConversao                         *time.Time          `gorm:"column:data_de_conversao"`
	DescricaoDaMercadoria                   *string             `gorm:"column:descricao_da_mercadoria;type:text"`
	UnidadeComercializada                   *string             `gorm:"column:unidade_comercializada;type:varchar(20)"`
	NomeImportador                          *string             `gorm:"column:nome_importador;type:varchar(60)"`
	EnderecoImportador                      *string             `gorm:"column:endereco_importador;type:varchar(380)"`
	ValorTotalCalculadoItem                 decimal.NullDecimal `gorm:"column:valor_total_calculado_item;type:numeric(13,2)"`
	QuantidadeNaUnidadeComercializada       decimal.NullDecimal `gorm:"column:quantidade_na_unidade_comercializada;type:numeric(14,5)"`
	NcmCodigo                               *string             `gorm:"column:ncm_codigo;type:varchar(8);index:idx_due_itens_ncm"`
	NcmDescricao                            *string             `gorm:"column:ncm_descricao;type:varchar(500)"`
	NcmUnidadeMedidaEstatistica             *string             `gorm:"column:ncm_unidade_medida_estatistica;type:varchar(20)"`
	ExportadorNumeroDoDocumento             *string             `gorm:"column:exportador_numero_do_documento;type:varchar(20)"`
	ExportadorTipoDoDocumento               *string             `gorm:"column:exportador_tipo_do_documento;type:varchar(20)"`
	CodigoCondicaoVenda                     *string             `gorm:"column:codigo_condicao_venda;type:varchar(3)"`
	ExportacaoTemporaria                    *bool               `gorm:"column:exportacao_temporaria"`
}

// TableName specifies the table name for the DueItem model
func (DueItem) TableName() string {
	return "due_itens"
}

// DueItemEnquadramento is one framing code of an item.
type DueItemEnquadramento struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID    string     `gorm:"column:due_item_id;not null;type:varchar(30);index:idx_due_item_enq_item_id"`
	NumeroDue    string     `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_enq_numero_due"`
	NumeroItem   int        `gorm:"column:numero_item;not null"`
	Codigo       *int       `gorm:"column:codigo"`
	DataRegistro *time.Time `gorm:"column:data_registro"`
	Descricao    *string    `gorm:"column:descricao;type:varchar(500)"`
	Grupo        *int       `gorm:"column:grupo"`
	Tipo         *int       `gorm:"column:tipo"`
}

// TableName specifies the table name for the DueItemEnquadramento model
func (DueItemEnquadramento) TableName() string {
	return "due_item_enquadramentos"
}

// DueItemPaisDestino is one destination country of an item.
type DueItemPaisDestino struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID         string `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue         string `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_paises_numero_due"`
	NumeroItem        int    `gorm:"column:numero_item;not null"`
	CodigoPaisDestino *int   `gorm:"column:codigo_pais_destino"`
}

// TableName specifies the table name for the DueItemPaisDestino model
func (DueItemPaisDestino) TableName() string {
	return "due_item_paises_destino"
}

// DueItemTratamentoAdministrativo is one administrative treatment (LPCO)
// applied to an item.
type DueItemTratamentoAdministrativo struct {
	ID                   string  `gorm:"column:id;primaryKey;type:varchar(35)"`
	DueItemID            string  `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue            string  `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_trat_numero_due"`
	NumeroItem           int     `gorm:"column:numero_item;not null"`
	Mensagem             *string `gorm:"column:mensagem;type:text"`
	ImpeditivoDeEmbarque *bool   `gorm:"column:impeditivo_de_embarque"`
	CodigoLPCO           *string `gorm:"column:codigo_lpco;type:varchar(20)"`
	Situacao             *string `gorm:"column:situacao;type:varchar(50)"`
}

// TableName specifies the table name for the DueItemTratamentoAdministrativo model
func (DueItemTratamentoAdministrativo) TableName() string {
	return "due_item_tratamentos_administrativos"
}

// DueItemTratamentoAdministrativoOrgao is one agency bound to an
// administrative treatment.
type DueItemTratamentoAdministrativoOrgao struct {
	ID                         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TratamentoAdministrativoID string  `gorm:"column:tratamento_administrativo_id;not null;type:varchar(35)"`
	DueItemID                  string  `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue                  string  `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_trat_orgaos_numero_due"`
	CodigoOrgao                *string `gorm:"column:codigo_orgao;type:varchar(20)"`
}

// TableName specifies the table name for the DueItemTratamentoAdministrativoOrgao model
func (DueItemTratamentoAdministrativoOrgao) TableName() string {
	return "due_item_tratamentos_administrativos_orgaos"
}

// DueItemAtributo is one NCM attribute of an item.
type DueItemAtributo struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID  string  `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue  string  `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_atrib_numero_due"`
	NumeroItem int     `gorm:"column:numero_item;not null"`
	Indice     int     `gorm:"column:indice;not null"`
	Codigo     *string `gorm:"column:codigo;type:varchar(20)"`
	Valor      *string `gorm:"column:valor;type:varchar(500)"`
	Descricao  *string `gorm:"column:descricao;type:varchar(200)"`
}

// TableName specifies the table name for the DueItemAtributo model
func (DueItemAtributo) TableName() string {
	return "due_item_atributos"
}

// DueItemDocumentoImportacao links an item to an import document it consumes
// (drawback).
type DueItemDocumentoImportacao struct {
	ID                  int64               `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID           string              `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue           string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_docs_imp_numero_due"`
	NumeroItem          int                 `gorm:"column:numero_item;not null"`
	Indice              int                 `gorm:"column:indice;not null"`
	Tipo                *string             `gorm:"column:tipo;type:varchar(30)"`
	Numero              *string             `gorm:"column:numero;type:varchar(50)"`
	DataRegistro        *time.Time          `gorm:"column:data_registro"`
	ItemDocumento       *int                `gorm:"column:item_documento"`
	QuantidadeUtilizada decimal.NullDecimal `gorm:"column:quantidade_utilizada;type:numeric(14,5)"`
}

// TableName specifies the table name for the DueItemDocumentoImportacao model
func (DueItemDocumentoImportacao) TableName() string {
	return "due_item_documentos_importacao"
}

// DueItemDocumentoTransformacao links an item to a transformation document.
type DueItemDocumentoTransformacao struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID    string     `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue    string     `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_docs_transf_numero_due"`
	NumeroItem   int        `gorm:"column:numero_item;not null"`
	Indice       int        `gorm:"column:indice;not null"`
	Tipo         *string    `gorm:"column:tipo;type:varchar(30)"`
	Numero       *string    `gorm:"column:numero;type:varchar(50)"`
	DataRegistro *time.Time `gorm:"column:data_registro"`
}

// TableName specifies the table name for the DueItemDocumentoTransformacao model
func (DueItemDocumentoTransformacao) TableName() string {
	return "due_item_documentos_transformacao"
}

// DueItemCalculoTributarioTratamento is one tax treatment of an item's
// tributary calculation.
type DueItemCalculoTributarioTratamento struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID  string  `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue  string  `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_calc_trat_numero_due"`
	NumeroItem int     `gorm:"column:numero_item;not null"`
	Indice     int     `gorm:"column:indice;not null"`
	Codigo     *string `gorm:"column:codigo;type:varchar(20)"`
	Descricao  *string `gorm:"column:descricao;type:varchar(200)"`
	Tipo       *string `gorm:"column:tipo;type:varchar(50)"`
	Tributo    *string `gorm:"column:tributo;type:varchar(20)"`
}

// TableName specifies the table name for the DueItemCalculoTributarioTratamento model
func (DueItemCalculoTributarioTratamento) TableName() string {
	return "due_item_calculo_tributario_tratamentos"
}

// DueItemCalculoTributarioQuadro is one tax bracket of an item's tributary
// calculation.
type DueItemCalculoTributarioQuadro struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID       string              `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue       string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_calc_quadros_numero_due"`
	NumeroItem      int                 `gorm:"column:numero_item;not null"`
	Indice          int                 `gorm:"column:indice;not null"`
	Tributo         *string             `gorm:"column:tributo;type:varchar(20)"`
	BaseDeCalculo   decimal.NullDecimal `gorm:"column:base_de_calculo;type:numeric(15,2)"`
	Aliquota        decimal.NullDecimal `gorm:"column:aliquota;type:numeric(7,4)"`
	ValorDevido     decimal.NullDecimal `gorm:"column:valor_devido;type:numeric(15,2)"`
	ValorRecolhido  decimal.NullDecimal `gorm:"column:valor_recolhido;type:numeric(15,2)"`
	ValorCompensado decimal.NullDecimal `gorm:"column:valor_compensado;type:numeric(15,2)"`
}

// TableName specifies the table name for the DueItemCalculoTributarioQuadro model
func (DueItemCalculoTributarioQuadro) TableName() string {
	return "due_item_calculo_tributario_quadros"
}
