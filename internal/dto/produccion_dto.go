package dto

import "github.com/shopspring/decimal"

type CrearOrdenRequest struct {
	RecetaID          string          `json:"receta_id"           validate:"required,uuid"`
	CantidadAProducir decimal.Decimal `json:"cantidad_a_producir" validate:"required"`
	Notas             *string         `json:"notas"`
}

type OrdenResponse struct {
	ID                string          `json:"id"`
	NumeroOrden       string          `json:"numero_orden"`
	RecetaID          string          `json:"receta_id"`
	Receta            string          `json:"receta"`
	ProductoID        string          `json:"producto_id"`
	Producto          string          `json:"producto"`
	CantidadAProducir decimal.Decimal `json:"cantidad_a_producir"`
	CantidadProducida decimal.Decimal `json:"cantidad_producida"`
	CostoIngredientes decimal.Decimal `json:"costo_ingredientes"`
	Estado            string          `json:"estado"`
	Notas             *string         `json:"notas"`
	CreatedAt         string          `json:"created_at"`
	FechaCompletada   *string         `json:"fecha_completada"`
}

type OrdenListResponse struct {
	Data []OrdenResponse `json:"data"`
}
