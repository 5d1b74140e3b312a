package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una orden de producción. EnProceso está declarado en el esquema
// pero ninguna transición actual lo alcanza: solo pendiente→completada y
// pendiente→cancelada.
const (
	OrdenPendiente  = "pendiente"
	OrdenEnProceso  = "en_proceso"
	OrdenCompletada = "completada"
	OrdenCancelada  = "cancelada"
)

// OrdenProduccion requests one execution of a recipe at a given scale.
// ProductoID denormalizes the recipe target at creation time; CostoIngredientes
// is a cost snapshot taken at completion (costo_total * factor), unaffected by
// later cost changes.
type OrdenProduccion struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	NumeroOrden       string          `gorm:"not null;index"` // OP-YYYYMMDD-NNN, per tenant per day
	RecetaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;not null"`
	CantidadAProducir decimal.Decimal `gorm:"type:decimal(12,3);not null"` // > 0
	CantidadProducida decimal.Decimal `gorm:"type:decimal(12,3)"`          // set on completion
	CostoIngredientes decimal.Decimal `gorm:"type:decimal(14,4)"`
	Estado            string          `gorm:"not null;default:'pendiente';index"`
	Notas             *string
	UsuarioID         uuid.UUID `gorm:"type:uuid;not null"`
	FechaCompletada   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Receta   *Receta   `gorm:"foreignKey:RecetaID"`
	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

// TableName keeps the original table name (ordenes_produccion).
func (OrdenProduccion) TableName() string { return "ordenes_produccion" }
