package dto

import "github.com/shopspring/decimal"

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
	Descuento  decimal.Decimal `json:"descuento"`
}

type CrearVentaRequest struct {
	ClienteNombre  *string            `json:"cliente_nombre"`
	ClienteRut     *string            `json:"cliente_rut"`
	MetodoPago     string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta_debito tarjeta_credito transferencia"`
	Notas          *string            `json:"notas"`
	Items          []ItemVentaRequest `json:"items" validate:"required,min=1,dive"`
	DescuentoGlobal decimal.Decimal   `json:"descuento_global"`
	ArqueoID       *string            `json:"arqueo_id" validate:"omitempty,uuid"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	MetodoPago     string              `json:"metodo_pago"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DescuentoTotal decimal.Decimal     `json:"descuento_total"`
	Total          decimal.Decimal     `json:"total"`
	Estado         string              `json:"estado"`
	Items          []ItemVentaResponse `json:"items"`
	CreatedAt      string              `json:"created_at"`
}

type VentaListResponse struct {
	Data []VentaResponse `json:"data"`
}

// ResumenVentasResponse aggregates completed sales per payment method.
type ResumenVentasResponse struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Debito        decimal.Decimal `json:"tarjeta_debito"`
	Credito       decimal.Decimal `json:"tarjeta_credito"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Total         decimal.Decimal `json:"total"`
}
