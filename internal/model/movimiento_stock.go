package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovVenta              = "venta"
	MovRestoreAnulacion   = "restore_anulacion"
	MovAjusteManual       = "ajuste_manual"
	MovProduccionConsumo  = "produccion_consumo"
	MovProduccionIngreso  = "produccion_ingreso"
)

// MovimientoStock registra cada cambio de stock en un producto. Toda mutación
// de stock_actual pasa por el ledger de stock y deja un movimiento: ventas,
// anulaciones, producción y ajustes manuales por igual.
type MovimientoStock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positivo = entrada, negativo = salida
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id u orden_produccion_id
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
