package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type IngredienteRecetaRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required"`
	Orden         int             `json:"orden"`
	Notas         *string         `json:"notas"`
}

type UpsertRecetaRequest struct {
	ProductoID               string                     `json:"producto_id"  validate:"required,uuid"`
	Nombre                   string                     `json:"nombre"       validate:"required,min=1"`
	Descripcion              *string                    `json:"descripcion"`
	Instrucciones            *string                    `json:"instrucciones"`
	Rendimiento              decimal.Decimal            `json:"rendimiento"  validate:"required"`
	TiempoPreparacionMinutos *int                       `json:"tiempo_preparacion_minutos" validate:"omitempty,min=0"`
	Ingredientes             []IngredienteRecetaRequest `json:"ingredientes" validate:"required,min=1,dive"`
	MargenDeseado            *decimal.Decimal           `json:"margen_deseado" validate:"omitempty,min=0,max=100"`
	// ActualizarPrecioVenta pushes the suggested price onto precio_venta.
	// Propagation by cost changes never does this; only the upsert can.
	ActualizarPrecioVenta bool `json:"actualizar_precio_venta"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecetaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Nombre         string          `json:"nombre"`
	Rendimiento    decimal.Decimal `json:"rendimiento"`
	CostoTotal     decimal.Decimal `json:"costo_total"`
	CostoPorUnidad decimal.Decimal `json:"costo_por_unidad"`
	Activa         bool            `json:"activa"`
}

// IngredienteRecetaResponse shows the cached line cost next to the
// ingredient's live unit cost so the UI can flag staleness.
type IngredienteRecetaResponse struct {
	IngredienteID       string          `json:"ingrediente_id"`
	Nombre              string          `json:"nombre"`
	UnidadMedida        string          `json:"unidad_medida"`
	Cantidad            decimal.Decimal `json:"cantidad"`
	CostoLinea          decimal.Decimal `json:"costo_linea"`
	CostoUnitarioActual decimal.Decimal `json:"costo_unitario_actual"`
	Orden               int             `json:"orden"`
	Notas               *string         `json:"notas"`
}

type RecetaDetalleResponse struct {
	RecetaResponse
	Descripcion              *string                     `json:"descripcion"`
	Instrucciones            *string                     `json:"instrucciones"`
	TiempoPreparacionMinutos *int                        `json:"tiempo_preparacion_minutos"`
	Ingredientes             []IngredienteRecetaResponse `json:"ingredientes"`
}

type UpsertRecetaResponse struct {
	ID             string          `json:"id"`
	CostoTotal     decimal.Decimal `json:"costo_total"`
	CostoPorUnidad decimal.Decimal `json:"costo_por_unidad"`
	PrecioSugerido decimal.Decimal `json:"precio_sugerido"`
}

type RecetaListResponse struct {
	Data []RecetaResponse `json:"data"`
}

type RecalculoResponse struct {
	RecetasRecalculadas int `json:"recetas_recalculadas"`
}
