package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueDeclaracaoCompensacao is one compensation entry of a DUE's tributary
// declaration.
type DueDeclaracaoCompensacao struct {
	ID                 int64               `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue          string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_decl_comp_numero_due"`
	DataDoRegistro     *time.Time          `gorm:"column:data_do_registro"`
	NumeroDaDeclaracao *string             `gorm:"column:numero_da_declaracao;type:varchar(24)"`
	ValorCompensado    decimal.NullDecimal `gorm:"column:valor_compensado;type:numeric(15,2)"`
}

// TableName specifies the table name for the DueDeclaracaoCompensacao model
func (DueDeclaracaoCompensacao) TableName() string {
	return "due_declaracao_tributaria_compensacoes"
}

// DueDeclaracaoRecolhimento is one tax payment entry of a DUE's tributary
// declaration.
type DueDeclaracaoRecolhimento struct {
	ID                      int64               `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue               string              `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_decl_recol_numero_due"`
	DataDoPagamento         *time.Time          `gorm:"column:data_do_pagamento"`
	DataDoRegistro          *time.Time          `gorm:"column:data_do_registro"`
	ValorDaMulta            decimal.NullDecimal `gorm:"column:valor_da_multa;type:numeric(15,2)"`
	ValorDoImpostoRecolhido decimal.NullDecimal `gorm:"column:valor_do_imposto_recolhido;type:numeric(15,2)"`
	ValorDosJurosMora       decimal.NullDecimal `gorm:"column:valor_dos_juros_mora;type:numeric(15,2)"`
}

// TableName specifies the table name for the DueDeclaracaoRecolhimento model
func (DueDeclaracaoRecolhimento) TableName() string {
	return "due_declaracao_tributaria_recolhimentos"
}

// DueDeclaracaoContestacao is one contestation entry of a DUE's tributary
// declaration.
type DueDeclaracaoContestacao struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NumeroDue        string     `gorm:"column:numero_due;not null;type:varchar(14);index:idx_due_decl_cont_numero_due"`
	Indice           int        `gorm:"column:indice;not null"`
	DataDoRegistro   *time.Time `gorm:"column:data_do_registro"`
	Motivo           *string    `gorm:"column:motivo;type:varchar(600)"`
	Status           *string    `gorm:"column:status;type:varchar(50)"`
	DataDeApreciacao *time.Time `gorm:"column:data_de_apreciacao"`
	Observacao       *string    `gorm:"column:observacao;type:text"`
}

// TableName specifies the table name for the DueDeclaracaoContestacao model
func (DueDeclaracaoContestacao) TableName() string {
	return "due_declaracao_tributaria_contestacoes"
}
