package schema

import "time"

// NfeSap mirrors the invoice access keys imported from the SAP warehouse.
// The importer that fills it is an external collaborator; the discovery
// pipeline only reads it.
type NfeSap struct {
	ChaveNf        string    `gorm:"column:chave_nf;primaryKey;type:varchar(44)"`
	DataImportacao time.Time `gorm:"column:data_importacao;not null;index:idx_nfe_sap_data"`
	Ativo          bool      `gorm:"column:ativo;not null;default:true"`
}

// TableName specifies the table name for the NfeSap model
func (NfeSap) TableName() string {
	return "nfe_sap"
}
