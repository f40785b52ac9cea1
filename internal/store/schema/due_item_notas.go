package schema

import "github.com/shopspring/decimal"

// DueItemNotaRemessa is one remittance invoice item consumed by a DUE item.
type DueItemNotaRemessa struct {
	ID                          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID                   string              `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue                   string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_notas_rem_numero_due"`
	NumeroItem                  int                 `gorm:"column:numero_item;not null"`
	NumeroDoItem                *int                `gorm:"column:numero_do_item"`
	ChaveDeAcesso               *string             `gorm:"column:chave_de_acesso;type:varchar(44);index:idx_due_item_notas_rem_chave"`
	Cfop                        *int                `gorm:"column:cfop"`
	CodigoDoProduto             *string             `gorm:"column:codigo_do_produto;type:varchar(60)"`
	Descricao                   *string             `gorm:"column:descricao;type:text"`
	QuantidadeEstatistica       decimal.NullDecimal `gorm:"column:quantidade_estatistica;type:numeric(11,4)"`
	UnidadeComercial            *string             `gorm:"column:unidade_comercial;type:varchar(6)"`
	ValorTotalBruto             decimal.NullDecimal `gorm:"column:valor_total_bruto;type:numeric(13,2)"`
	QuantidadeConsumida         decimal.NullDecimal `gorm:"column:quantidade_consumida;type:numeric(14,5)"`
	NcmCodigo                   *string             `gorm:"column:ncm_codigo;type:varchar(8)"`
	NcmDescricao                *string             `gorm:"column:ncm_descricao;type:varchar(500)"`
	NcmUnidadeMedidaEstatistica *string             `gorm:"column:ncm_unidade_medida_estatistica;type:varchar(20)"`
	Modelo                      *string             `gorm:"column:modelo;type:varchar(2)"`
	Serie                       *int                `gorm:"column:serie"`
	NumeroDoDocumento           *int64              `gorm:"column:numero_do_documento"`
	UfDoEmissor                 *string             `gorm:"column:uf_do_emissor;type:varchar(2)"`
	IdentificacaoEmitente       *string             `gorm:"column:identificacao_emitente;type:varchar(20)"`
	ApresentadaParaDespacho     *bool               `gorm:"column:apresentada_para_despacho"`
	Finalidade                  *string             `gorm:"column:finalidade;type:varchar(50)"`
	QuantidadeDeItens           *int                `gorm:"column:quantidade_de_itens"`
	NotaFiscalEletronica        *bool               `gorm:"column:nota_fiscal_eletronica"`
	EmitenteCnpj                *bool               `gorm:"column:emitente_cnpj"`
	EmitenteCpf                 *bool               `gorm:"column:emitente_cpf"`
}

// TableName specifies the table name for the DueItemNotaRemessa model
func (DueItemNotaRemessa) TableName() string {
	return "due_item_notas_remessa"
}

// DueItemNotaFiscalExportacao is the export invoice item of a DUE item (1:1).
type DueItemNotaFiscalExportacao struct {
	DueItemID                   string              `gorm:"column:due_item_id;primaryKey;type:varchar(30)"`
	NumeroDue                   string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_nf_exp_numero_due"`
	NumeroItem                  int                 `gorm:"column:numero_item;not null"`
	NumeroDoItem                *int                `gorm:"column:numero_do_item"`
	ChaveDeAcesso               *string             `gorm:"column:chave_de_acesso;type:varchar(44);index:idx_due_item_nf_exp_chave"`
	Modelo                      *string             `gorm:"column:modelo;type:varchar(2)"`
	Serie                       *int                `gorm:"column:serie"`
	NumeroDoDocumento           *int64              `gorm:"column:numero_do_documento"`
	UfDoEmissor                 *string             `gorm:"column:uf_do_emissor;type:varchar(2)"`
	IdentificacaoEmitente       *string             `gorm:"column:identificacao_emitente;type:varchar(20)"`
	EmitenteCnpj                *bool               `gorm:"column:emitente_cnpj"`
	EmitenteCpf                 *bool               `gorm:"column:emitente_cpf"`
	Finalidade                  *string             `gorm:"column:finalidade;type:varchar(50)"`
	QuantidadeDeItens           *int                `gorm:"column:quantidade_de_itens"`
	NotaFiscalEletronica        *bool               `gorm:"column:nota_fiscal_eletronica"`
	Cfop                        *int                `gorm:"column:cfop"`
	CodigoDoProduto             *string             `gorm:"column:codigo_do_produto;type:varchar(60)"`
	Descricao                   *string             `gorm:"column:descricao;type:text"`
	QuantidadeEstatistica       decimal.NullDecimal `gorm:"column:quantidade_estatistica;type:numeric(11,4)"`
	UnidadeComercial            *string             `gorm:"column:unidade_comercial;type:varchar(6)"`
	ValorTotalCalculado         decimal.NullDecimal `gorm:"column:valor_total_calculado;type:numeric(13,2)"`
	NcmCodigo                   *string             `gorm:"column:ncm_codigo;type:varchar(8)"`
	NcmDescricao                *string             `gorm:"column:ncm_descricao;type:varchar(500)"`
	NcmUnidadeMedidaEstatistica *string             `gorm:"column:ncm_unidade_medida_estatistica;type:varchar(20)"`
	ApresentadaParaDespacho     *bool               `gorm:"column:apresentada_para_despacho"`
}

// TableName specifies the table name for the DueItemNotaFiscalExportacao model
func (DueItemNotaFiscalExportacao) TableName() string {
	return "due_item_nota_fiscal_exportacao"
}

// DueItemNotaComplementar is one complementary invoice item of a DUE item.
type DueItemNotaComplementar struct {
	ID                    int64               `gorm:"column:id;primaryKey;autoIncrement"`
	DueItemID             string              `gorm:"column:due_item_id;not null;type:varchar(30)"`
	NumeroDue             string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_item_notas_comp_numero_due"`
	NumeroItem            int                 `gorm:"column:numero_item;not null"`
	Indice                int                 `gorm:"column:indice;not null"`
	NumeroDoItem          *int                `gorm:"column:numero_do_item"`
	ChaveDeAcesso         *string             `gorm:"column:chave_de_acesso;type:varchar(44)"`
	Modelo                *string             `gorm:"column:modelo;type:varchar(2)"`
	Serie                 *int                `gorm:"column:serie"`
	NumeroDoDocumento     *int64              `gorm:"column:numero_do_documento"`
	UfDoEmissor           *string             `gorm:"column:uf_do_emissor;type:varchar(2)"`
	IdentificacaoEmitente *string             `gorm:"column:identificacao_emitente;type:varchar(20)"`
	Cfop                  *int                `gorm:"column:cfop"`
	CodigoDoProduto       *string             `gorm:"column:codigo_do_produto;type:varchar(60)"`
	Descricao             *string             `gorm:"column:descricao;type:text"`
	QuantidadeEstatistica decimal.NullDecimal `gorm:"column:quantidade_estatistica;type:numeric(11,4)"`
	UnidadeComercial      *string             `gorm:"column:unidade_comercial;type:varchar(6)"`
	ValorTotalBruto       decimal.NullDecimal `gorm:"column:valor_total_bruto;type:numeric(13,2)"`
	NcmCodigo             *string             `gorm:"column:ncm_codigo;type:varchar(8)"`
}

// TableName specifies the table name for the DueItemNotaComplementar model
func (DueItemNotaComplementar) TableName() string {
	return "due_item_notas_complementares"
}
