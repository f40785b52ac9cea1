package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueExigenciaFiscal is one fiscal requirement raised against a DUE.
type DueExigenciaFiscal struct {
	ID               int64               `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue        string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_exigencias_numero_due"`
	NumeroExigencia  *string             `gorm:"column:numero_exigencia;type:varchar(20)"`
	TipoExigencia    *string             `gorm:"column:tipo_exigencia;type:varchar(50)"`
	DataCriacao      *time.Time          `gorm:"column:data_criacao"`
	DataLimite       *time.Time          `gorm:"column:data_limite"`
	Status           *string             `gorm:"column:status;type:varchar(50);index:idx_due_exigencias_status"`
	OrgaoResponsavel *string             `gorm:"column:orgao_responsavel;type:varchar(100)"`
	Descricao        *string             `gorm:"column:descricao;type:text"`
	ValorExigido     decimal.NullDecimal `gorm:"column:valor_exigido;type:numeric(15,2)"`
	ValorPago        decimal.NullDecimal `gorm:"column:valor_pago;type:numeric(15,2)"`
	Observacoes      *string             `gorm:"column:observacoes;type:text"`
}

// TableName specifies the table name for the DueExigenciaFiscal model
func (DueExigenciaFiscal) TableName() string {
	return "due_exigencias_fiscais"
}
