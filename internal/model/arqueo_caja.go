package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArqueoCaja is a cash register shift: opened with a counted float, closed
// with the real counted amount. One open arqueo per user at a time.
type ArqueoCaja struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoInicial   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoFinalReal *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado         string          `gorm:"not null;default:'abierto'"` // abierto | cerrado
	Observaciones  *string
	FechaApertura  time.Time `gorm:"not null"`
	FechaCierre    *time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

// TableName keeps the original table name.
func (ArqueoCaja) TableName() string { return "arqueos_caja" }
