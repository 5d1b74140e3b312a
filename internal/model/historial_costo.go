package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCosto registra cada cambio de costo unitario de un producto.
// Los registros son inmutables, nunca se eliminan ni modifican. Cada cambio
// de costo que dispara la propagación a recetas deja una fila aquí.
type HistorialCosto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Motivo       string          `gorm:"not null;default:'manual'"` // manual | receta | conversion_unidad
	CreatedAt    time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (HistorialCosto) TableName() string { return "historial_costos" }
