package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=1,max=120"`
	Codigo        *string         `json:"codigo"`
	CategoriaID   *string         `json:"categoria_id"   validate:"omitempty,uuid"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
	PrecioVenta   decimal.Decimal `json:"precio_venta"   validate:"min=0"`
	StockActual   decimal.Decimal `json:"stock_actual"   validate:"min=0"`
	StockMinimo   decimal.Decimal `json:"stock_minimo"   validate:"min=0"`
	Tipo          string          `json:"tipo"           validate:"omitempty,oneof=ingrediente producto_terminado ambos"`
	UnidadMedida  string          `json:"unidad_medida"  validate:"omitempty,oneof=kg g L ml unidades"`
	MargenDeseado *decimal.Decimal `json:"margen_deseado" validate:"omitempty,min=0,max=100"`
}

// ActualizarProductoRequest replaces the editable fields wholesale, like the
// product form does. A cost change here is what triggers recipe propagation;
// a unit change rescales stock and cost.
type ActualizarProductoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=1,max=120"`
	Codigo        *string         `json:"codigo"`
	CategoriaID   *string         `json:"categoria_id"   validate:"omitempty,uuid"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
	PrecioVenta   decimal.Decimal `json:"precio_venta"   validate:"min=0"`
	StockMinimo   decimal.Decimal `json:"stock_minimo"   validate:"min=0"`
	Tipo          string          `json:"tipo"           validate:"omitempty,oneof=ingrediente producto_terminado ambos"`
	UnidadMedida  string          `json:"unidad_medida"  validate:"omitempty,oneof=kg g L ml unidades"`
	MargenDeseado *decimal.Decimal `json:"margen_deseado" validate:"omitempty,min=0,max=100"`
}

type AjustarStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	Tipo        string `form:"tipo"`
	Activo      string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	BajoStock   bool   `form:"bajo_stock"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Codigo         *string         `json:"codigo"`
	CategoriaID    *string         `json:"categoria_id"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	PrecioVenta    decimal.Decimal `json:"precio_venta"`
	PrecioSugerido decimal.Decimal `json:"precio_sugerido"`
	CostoReceta    decimal.Decimal `json:"costo_receta"`
	MargenDeseado  decimal.Decimal `json:"margen_deseado"`
	StockActual    decimal.Decimal `json:"stock_actual"`
	StockMinimo    decimal.Decimal `json:"stock_minimo"`
	UnidadMedida   string          `json:"unidad_medida"`
	Tipo           string          `json:"tipo"`
	TieneReceta    bool            `json:"tiene_receta"`
	Activo         bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type MovimientoStockResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	CreatedAt     string          `json:"created_at"`
}

type HistorialCostoResponse struct {
	ID           string          `json:"id"`
	ProductoID   string          `json:"producto_id"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	Motivo       string          `json:"motivo"`
	CreatedAt    string          `json:"created_at"`
}
