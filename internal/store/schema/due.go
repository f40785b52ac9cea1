package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// DuePrincipal is the authoritative record of one export declaration. It is
// keyed by the 14-character DUE number; every dependent row carries the same
// number. DataDeRegistro is the upstream revision timestamp and
// DataUltimaAtualizacao records the last successful sync.
type DuePrincipal struct {
	Numero                             string              `gorm:"column:numero;primaryKey;type:varchar(14)"`
	ChaveDeAcesso                      *string             `gorm:"column:chave_de_acesso;type:varchar(50)"`
	DataDeRegistro                     *time.Time          `gorm:"column:data_de_registro"`
	Bloqueio                           *bool               `gorm:"column:bloqueio"`
	Canal                              *string             `gorm:"column:canal;type:varchar(20)"`
	EmbarqueEmRecintoAlfandegado       *bool               `gorm:"column:embarque_em_recinto_alfandegado"`
	DespachoEmRecintoAlfandegado       *bool               `gorm:"column:despacho_em_recinto_alfandegado"`
	FormaDeExportacao                  *string             `gorm:"column:forma_de_exportacao;type:varchar(50)"`
	ImpedidoDeEmbarque                 *bool               `gorm:"column:impedido_de_embarque"`
	InformacoesComplementares          *string             `gorm:"column:informacoes_complementares;type:text"`
	Ruc                                *string             `gorm:"column:ruc;type:varchar(35)"`
	Situacao                           *string             `gorm:"column:situacao;type:varchar(100);index:idx_due_principal_situacao"`
	SituacaoDoTratamentoAdministrativo *string             `gorm:"column:situacao_do_tratamento_administrativo;type:varchar(50)"`
	Tipo                               *string             `gorm:"column:tipo;type:varchar(50)"`
	TratamentoPrioritario              *bool               `gorm:"column:tratamento_prioritario"`
	ResponsavelPeloACD                 *string             `gorm:"column:responsavel_pelo_acd;type:varchar(50)"`
	DespachoEmRecintoDomiciliar        *bool               `gorm:"column:despacho_em_recinto_domiciliar"`
	DataDeCriacao                      *time.Time          `gorm:"column:data_de_criacao;index:idx_due_principal_data_criacao"`
	DataDoCCE                          *time.Time          `gorm:"column:data_do_cce"`
	DataDoDesembaraco                  *time.Time          `gorm:"column:data_do_desembaraco"`
	DataDoAcd                          *time.Time          `gorm:"column:data_do_acd"`
	DataDaAverbacao                    *time.Time          `gorm:"column:data_da_averbacao"`
	ValorTotalMercadoria               decimal.NullDecimal `gorm:"column:valor_total_mercadoria;type:numeric(15,2)"`
	InclusaoNotaFiscal                 *bool               `gorm:"column:inclusao_nota_fiscal"`
	ExigenciaAtiva                     *bool               `gorm:"column:exigencia_ativa"`
	Consorciada                        *bool               `gorm:"column:consorciada"`
	Dat                                *bool               `gorm:"column:dat"`
	Oea                                *bool               `gorm:"column:oea"`
	DeclaranteNumeroDoDocumento        *string             `gorm:"column:declarante_numero_do_documento;type:varchar(20)"`
	DeclaranteTipoDoDocumento          *string             `gorm:"column:declarante_tipo_do_documento;type:varchar(20)"`
	DeclaranteNome                     *string             `gorm:"column:declarante_nome;type:varchar(150)"`
	DeclaranteEstrangeiro              *bool               `gorm:"column:declarante_estrangeiro"`
	DeclaranteNacionalidadeCodigo      *int                `gorm:"column:declarante_nacionalidade_codigo"`
	DeclaranteNacionalidadeNome        *string             `gorm:"column:declarante_nacionalidade_nome;type:varchar(50)"`
	DeclaranteNacionalidadeNomeRes     *string             `gorm:"column:declarante_nacionalidade_nome_resumido;type:varchar(5)"`
	MoedaCodigo                        *int                `gorm:"column:moeda_codigo"`
	PaisImportadorCodigo               *int                `gorm:"column:pais_importador_codigo"`
	RecintoAduaneiroDeDespachoCodigo   *string             `gorm:"column:recinto_aduaneiro_de_despacho_codigo;type:varchar(7)"`
	RecintoAduaneiroDeEmbarqueCodigo   *string             `gorm:"column:recinto_aduaneiro_de_embarque_codigo;type:varchar(7)"`
	UnidadeLocalDeDespachoCodigo       *string             `gorm:"column:unidade_local_de_despacho_codigo;type:varchar(7)"`
	UnidadeLocalDeEmbarqueCodigo       *string             `gorm:"column:unidade_local_de_embarque_codigo;type:varchar(7)"`
	DeclaracaoTributariaDivergente     *bool               `gorm:"column:declaracao_tributaria_divergente"`
	DataUltimaAtualizacao              *time.Time          `gorm:"column:data_ultima_atualizacao;index:idx_due_principal_data_atualizacao"`
}

// TableName specifies the table name for the DuePrincipal model
func (DuePrincipal) TableName() string {
	return "due_principal"
}

// DueEvento is one entry of a DUE's event history. Only the fields the
// upstream actually populates are modeled.
type DueEvento struct {
	ID                    int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue             string     `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_eventos_numero_due"`
	DataEHoraDoEvento     *time.Time `gorm:"column:data_e_hora_do_evento;index:idx_due_eventos_data"`
	Evento                *string    `gorm:"column:evento;type:varchar(150)"`
	Responsavel           *string    `gorm:"column:responsavel;type:varchar(100)"`
	InformacoesAdicionais *string    `gorm:"column:informacoes_adicionais;type:text"`
}

// TableName specifies the table name for the DueEvento model
func (DueEvento) TableName() string {
	return "due_eventos_historico"
}

// DueSituacaoCarga is one cargo situation entry of a DUE.
type DueSituacaoCarga struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue    string  `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_sit_carga_numero_due"`
	Sequencial   int     `gorm:"column:sequencial"`
	Codigo       *int    `gorm:"column:codigo"`
	Descricao    *string `gorm:"column:descricao;type:varchar(50)"`
	CargaOperada *bool   `gorm:"column:carga_operada"`
}

// TableName specifies the table name for the DueSituacaoCarga model
func (DueSituacaoCarga) TableName() string {
	return "due_situacoes_carga"
}

// DueSolicitacao is one workflow request registered against a DUE.
type DueSolicitacao struct {
	ID                          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue                   string     `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_solic_numero_due"`
	TipoSolicitacao             *string    `gorm:"column:tipo_solicitacao;type:varchar(50)"`
	DataDaSolicitacao           *time.Time `gorm:"column:data_da_solicitacao"`
	UsuarioResponsavel          *string    `gorm:"column:usuario_responsavel;type:varchar(20)"`
	CodigoDoStatusDaSolicitacao *int       `gorm:"column:codigo_do_status_da_solicitacao"`
	StatusDaSolicitacao         *string    `gorm:"column:status_da_solicitacao;type:varchar(100)"`
	DataDeApreciacao            *time.Time `gorm:"column:data_de_apreciacao"`
	Motivo                      *string    `gorm:"column:motivo;type:varchar(600)"`
}

// TableName specifies the table name for the DueSolicitacao model
func (DueSolicitacao) TableName() string {
	return "due_solicitacoes"
}
