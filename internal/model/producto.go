package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de producto. Solo ingrediente/ambos pueden aparecer como ingrediente
// de una receta; solo producto_terminado/ambos pueden ser destino de una.
const (
	TipoIngrediente       = "ingrediente"
	TipoProductoTerminado = "producto_terminado"
	TipoAmbos             = "ambos"
)

// Producto covers both raw ingredients and finished goods.
// StockActual is decimal because ingredients are weighed (kg/g/L/ml).
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"index;not null"`
	Codigo      *string
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	// CostoUnitario is overwritten by the recipe-derived cost whenever the
	// product has an active recipe (tiene_receta). Treated as a cache there.
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PrecioVenta   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrecioSugerido y CostoReceta son snapshots derivados; los recalcula
	// exclusivamente el motor de costeo, nunca se editan directo.
	PrecioSugerido decimal.Decimal `gorm:"type:decimal(12,2)"`
	CostoReceta    decimal.Decimal `gorm:"type:decimal(12,4)"`
	MargenDeseado  decimal.Decimal `gorm:"type:decimal(5,2)"` // 0–100
	StockActual    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UnidadMedida   string          `gorm:"not null;default:'unidades'"` // kg | g | L | ml | unidades
	Tipo           string          `gorm:"not null;default:'producto_terminado'"`
	TieneReceta    bool            `gorm:"not null;default:false"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// PuedeSerIngrediente reports whether the product may appear in a recipe's
// ingredient list.
func (p *Producto) PuedeSerIngrediente() bool {
	return p.Tipo == TipoIngrediente || p.Tipo == TipoAmbos
}

// PuedeSerDestinoReceta reports whether a recipe may target this product.
func (p *Producto) PuedeSerDestinoReceta() bool {
	return p.Tipo == TipoProductoTerminado || p.Tipo == TipoAmbos
}
