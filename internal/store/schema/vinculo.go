package schema

import "time"

// NfDueVinculo maps one invoice access key to the DUE that references it.
// Once mapped, an invoice key is never probed again for discovery.
type NfDueVinculo struct {
	ChaveNf     string    `gorm:"column:chave_nf;primaryKey;type:varchar(44)"`
	NumeroDue   string    `gorm:"column:numero_due;not null;type:varchar(14);index:idx_nf_due_vinculo_numero_due"`
	DataVinculo time.Time `gorm:"column:data_vinculo;not null"`
	Origem      string    `gorm:"column:origem;not null;type:varchar(20)"`
}

// TableName specifies the table name for the NfDueVinculo model
func (NfDueVinculo) TableName() string {
	return "nf_due_vinculo"
}
