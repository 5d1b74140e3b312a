package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en el POS.
const (
	PagoEfectivo      = "efectivo"
	PagoDebito        = "tarjeta_debito"
	PagoCredito       = "tarjeta_credito"
	PagoTransferencia = "transferencia"
)

// Venta is a completed checkout. Annulment never deletes: estado flips to
// "anulada" and stock is restored through the stock ledger.
type Venta struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ArqueoID       *uuid.UUID `gorm:"type:uuid;index"`
	ClienteNombre  *string
	ClienteRut     *string
	MetodoPago     string          `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado         string          `gorm:"not null;default:'completada'"` // completada | anulada
	Notas          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Detalles []VentaDetalle `gorm:"foreignKey:VentaID"`
}

// VentaDetalle is one sold line; precio_unitario is frozen at sale time.
type VentaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}
