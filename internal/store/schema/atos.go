package schema

import "github.com/shopspring/decimal"

// ConcessionaryActColumns is the shared shape of the drawback concessionary
// act tables. Suspension and exemption acts land in distinct tables with
// identical columns.
type ConcessionaryActColumns struct {
	ID                       int64               `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue                string              `gorm:"column:numero_due;not null;type:varchar(14)"`
	AtoNumero                *string             `gorm:"column:ato_numero;type:varchar(20)"`
	TipoCodigo               *int                `gorm:"column:tipo_codigo"`
	TipoDescricao            *string             `gorm:"column:tipo_descricao;type:varchar(100)"`
	ItemNumero               *string             `gorm:"column:item_numero;type:varchar(10)"`
	ItemNcm                  *string             `gorm:"column:item_ncm;type:varchar(8)"`
	BeneficiarioCnpj         *string             `gorm:"column:beneficiario_cnpj;type:varchar(14)"`
	QuantidadeExportada      decimal.NullDecimal `gorm:"column:quantidade_exportada;type:numeric(14,5)"`
	ValorComCoberturaCambial decimal.NullDecimal `gorm:"column:valor_com_cobertura_cambial;type:numeric(15,2)"`
	ValorSemCoberturaCambial decimal.NullDecimal `gorm:"column:valor_sem_cobertura_cambial;type:numeric(15,2)"`
	ItemDeDueNumero          *string             `gorm:"column:item_de_due_numero;type:varchar(10)"`
}

// DueAtoConcessorioSuspensao is one drawback suspension concessionary act.
type DueAtoConcessorioSuspensao struct {
	ConcessionaryActColumns `gorm:"embedded"`
}

// TableName specifies the table name for the DueAtoConcessorioSuspensao model
func (DueAtoConcessorioSuspensao) TableName() string {
	return "due_atos_concessorios_suspensao"
}

// DueAtoConcessorioIsencao is one drawback exemption concessionary act.
type DueAtoConcessorioIsencao struct {
	ConcessionaryActColumns `gorm:"embedded"`
}

// TableName specifies the table name for the DueAtoConcessorioIsencao model
func (DueAtoConcessorioIsencao) TableName() string {
	return "due_atos_concessorios_isencao"
}
