package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Support tables mirror the TABX reference service. They are read-mostly and
// hydrated out-of-band by the load-reference command; the sync pipelines do
// not require them to be populated.

// SuportePais is the country reference table.
type SuportePais struct {
	CodigoNumerico int        `gorm:"column:codigo_numerico;primaryKey"`
	SiglaISO2      *string    `gorm:"column:sigla_iso2;type:varchar(2)"`
	SiglaISO3      *string    `gorm:"column:sigla_iso3;type:varchar(3)"`
	Nome           *string    `gorm:"column:nome;type:varchar(100)"`
	NomeIngles     *string    `gorm:"column:nome_ingles;type:varchar(100)"`
	NomeFrances    *string    `gorm:"column:nome_frances;type:varchar(100)"`
	DataInicio     *time.Time `gorm:"column:data_inicio"`
	DataFim        *time.Time `gorm:"column:data_fim"`
	InternoVersao  *int       `gorm:"column:interno_versao"`
}

func (SuportePais) TableName() string { return "suporte_pais" }

// SuporteMoeda is the currency reference table.
type SuporteMoeda struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(10)"`
	Nome          *string    `gorm:"column:nome;type:varchar(100)"`
	Simbolo       *string    `gorm:"column:simbolo;type:varchar(10)"`
	CodigoSwift   *string    `gorm:"column:codigo_swift;type:varchar(5)"`
	SiglaISO2     *string    `gorm:"column:sigla_iso2;type:varchar(5)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteMoeda) TableName() string { return "suporte_moeda" }

// SuporteEnquadramento is the framing-code reference table.
type SuporteEnquadramento struct {
	Codigo                   int        `gorm:"column:codigo;primaryKey"`
	Descricao                *string    `gorm:"column:descricao;type:varchar(500)"`
	CodigoTipoEnquadramento  *string    `gorm:"column:codigo_tipo_enquadramento;type:varchar(10)"`
	CodigoGrupoEnquadramento *string    `gorm:"column:codigo_grupo_enquadramento;type:varchar(10)"`
	DataInicio               *time.Time `gorm:"column:data_inicio"`
	DataFim                  *time.Time `gorm:"column:data_fim"`
	InternoVersao            *int       `gorm:"column:interno_versao"`
}

func (SuporteEnquadramento) TableName() string { return "suporte_enquadramento" }

// SuporteFundamentoLegalTT is the tax-treatment legal basis reference table.
type SuporteFundamentoLegalTT struct {
	Codigo                        int        `gorm:"column:codigo;primaryKey"`
	Descricao                     *string    `gorm:"column:descricao;type:varchar(500)"`
	CodigoBeneficioFiscalSisen    *string    `gorm:"column:codigo_beneficio_fiscal_sisen;type:varchar(50)"`
	InPermiteRegistroPessoaFisica *string    `gorm:"column:in_permite_registro_pessoa_fisica;type:varchar(10)"`
	DataInicio                    *time.Time `gorm:"column:data_inicio"`
	DataFim                       *time.Time `gorm:"column:data_fim"`
	InternoVersao                 *int       `gorm:"column:interno_versao"`
}

func (SuporteFundamentoLegalTT) TableName() string { return "suporte_fundamento_legal_tt" }

// SuporteOrgaoAnuente is the consenting-agency reference table.
type SuporteOrgaoAnuente struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Sigla         *string    `gorm:"column:sigla;type:varchar(20)"`
	Descricao     *string    `gorm:"column:descricao;type:varchar(200)"`
	Cnpj          *string    `gorm:"column:cnpj;type:varchar(20)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteOrgaoAnuente) TableName() string { return "suporte_orgao_anuente" }

// SuportePorto is the port reference table.
type SuportePorto struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Descricao     *string    `gorm:"column:descricao;type:varchar(200)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuportePorto) TableName() string { return "suporte_porto" }

// SuporteRecintoAduaneiro is the customs-enclosure reference table.
type SuporteRecintoAduaneiro struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Nome          *string    `gorm:"column:nome;type:varchar(300)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteRecintoAduaneiro) TableName() string { return "suporte_recinto_aduaneiro" }

// SuporteSolicitante is the requester reference table.
type SuporteSolicitante struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Descricao     *string    `gorm:"column:descricao;type:varchar(200)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteSolicitante) TableName() string { return "suporte_solicitante" }

// SuporteTipoAreaEquipamento is the equipment-area-type reference table.
type SuporteTipoAreaEquipamento struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(10)"`
	Descricao     *string    `gorm:"column:descricao;type:varchar(200)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteTipoAreaEquipamento) TableName() string { return "suporte_tipo_area_equipamento" }

// SuporteTipoConhecimento is the bill-of-lading-type reference table.
type SuporteTipoConhecimento struct {
	Codigo              string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Descricao           *string    `gorm:"column:descricao;type:varchar(200)"`
	IndicadorTipoBasico *string    `gorm:"column:indicador_tipo_basico;type:varchar(5)"`
	DataInicio          *time.Time `gorm:"column:data_inicio"`
	DataFim             *time.Time `gorm:"column:data_fim"`
	InternoVersao       *int       `gorm:"column:interno_versao"`
}

func (SuporteTipoConhecimento) TableName() string { return "suporte_tipo_conhecimento" }

// SuporteTipoConteiner is the container-type reference table.
type SuporteTipoConteiner struct {
	Codigo                   string              `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Descricao                *string             `gorm:"column:descricao;type:varchar(200)"`
	Comprimento              decimal.NullDecimal `gorm:"column:comprimento;type:numeric(10,2)"`
	Dimensoes                *string             `gorm:"column:dimensoes;type:varchar(100)"`
	CodigoGrupoTipoConteiner *string             `gorm:"column:codigo_grupo_tipo_conteiner;type:varchar(10)"`
	DataInicio               *time.Time          `gorm:"column:data_inicio"`
	DataFim                  *time.Time          `gorm:"column:data_fim"`
	InternoVersao            *int                `gorm:"column:interno_versao"`
}

func (SuporteTipoConteiner) TableName() string { return "suporte_tipo_conteiner" }

// SuporteTipoDeclaracaoAduaneira is the customs-declaration-type reference table.
type SuporteTipoDeclaracaoAduaneira struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(30)"`
	Descricao     *string    `gorm:"column:descricao;type:varchar(200)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteTipoDeclaracaoAduaneira) TableName() string { return "suporte_tipo_declaracao_aduaneira" }

// SuporteUaSrf is the federal revenue administrative unit reference table.
type SuporteUaSrf struct {
	Codigo        string     `gorm:"column:codigo;primaryKey;type:varchar(20)"`
	Sigla         *string    `gorm:"column:sigla;type:varchar(10)"`
	Nome          *string    `gorm:"column:nome;type:varchar(100)"`
	RegiaoFiscal  *string    `gorm:"column:regiao_fiscal;type:varchar(10)"`
	NomeCurto     *string    `gorm:"column:nome_curto;type:varchar(100)"`
	DataInicio    *time.Time `gorm:"column:data_inicio"`
	DataFim       *time.Time `gorm:"column:data_fim"`
	InternoVersao *int       `gorm:"column:interno_versao"`
}

func (SuporteUaSrf) TableName() string { return "suporte_ua_srf" }

// SupportModels lists every support-table model for auto-migration in tests
// and for the load-reference command's name mapping.
func SupportModels() map[string]interface{} {
	return map[string]interface{}{
		"pais":                      &SuportePais{},
		"moeda":                     &SuporteMoeda{},
		"enquadramento":             &SuporteEnquadramento{},
		"fundamento-legal-tt":       &SuporteFundamentoLegalTT{},
		"orgao-anuente":             &SuporteOrgaoAnuente{},
		"porto":                     &SuportePorto{},
		"recinto-aduaneiro":         &SuporteRecintoAduaneiro{},
		"solicitante":               &SuporteSolicitante{},
		"tipo-area-equipamento":     &SuporteTipoAreaEquipamento{},
		"tipo-conhecimento":         &SuporteTipoConhecimento{},
		"tipo-conteiner":            &SuporteTipoConteiner{},
		"tipo-declaracao-aduaneira": &SuporteTipoDeclaracaoAduaneira{},
		"ua-srf":                    &SuporteUaSrf{},
	}
}
