package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receta is the bill of materials that produces Rendimiento units of the
// target product per batch. CostoPorUnidad is always CostoTotal/Rendimiento
// recomputed by the costing engine, never edited independently.
type Receta struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID                 uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID               uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre                   string    `gorm:"not null"`
	Descripcion              *string
	Instrucciones            *string
	Rendimiento              decimal.Decimal `gorm:"type:decimal(12,3);not null"` // > 0
	TiempoPreparacionMinutos *int
	CostoTotal               decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	CostoPorUnidad           decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	Activa                   bool            `gorm:"not null;default:true"`
	CreatedAt                time.Time
	UpdatedAt                time.Time

	Producto     *Producto          `gorm:"foreignKey:ProductoID"`
	Ingredientes []RecetaIngrediente `gorm:"foreignKey:RecetaID"`
}

// RecetaIngrediente is one line of a recipe. The full set is replaced
// wholesale on every edit (delete-all then reinsert), so row ids are not
// stable across edits; only the (receta_id, ingrediente_id) pairing matters.
// CostoLinea is a snapshot from the last recalculation, stale until the
// costing engine runs again.
type RecetaIngrediente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecetaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredienteID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // per batch, > 0
	CostoLinea    decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	Orden         int             `gorm:"not null;default:0"`
	Notas         *string
	CreatedAt     time.Time

	Ingrediente *Producto `gorm:"foreignKey:IngredienteID"`
}

// TableName overrides GORM's pluralization (receta_ingredientes, not receta_ingredientes_es).
func (RecetaIngrediente) TableName() string { return "receta_ingredientes" }
