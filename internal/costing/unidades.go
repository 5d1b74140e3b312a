package costing

import "github.com/shopspring/decimal"

// Unidades de medida soportadas.
const (
	UnidadKg       = "kg"
	UnidadG        = "g"
	UnidadL        = "L"
	UnidadMl       = "ml"
	UnidadUnidades = "unidades"
)

var mil = decimal.NewFromInt(1000)

// ConvertirUnidad rescales a product's stock and unit cost when its unit of
// measure changes (kg↔g, L↔ml). Any other pair, including conversions to or
// from "unidades", leaves both values untouched.
func ConvertirUnidad(unidadAnterior, unidadNueva string, stock, costo decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if unidadAnterior == unidadNueva {
		return stock, costo
	}

	switch {
	case unidadAnterior == UnidadKg && unidadNueva == UnidadG,
		unidadAnterior == UnidadL && unidadNueva == UnidadMl:
		return stock.Mul(mil), costo.Div(mil)
	case unidadAnterior == UnidadG && unidadNueva == UnidadKg,
		unidadAnterior == UnidadMl && unidadNueva == UnidadL:
		return stock.Div(mil), costo.Mul(mil)
	}
	return stock, costo
}

// UnidadValida reports whether u is one of the supported units.
func UnidadValida(u string) bool {
	switch u {
	case UnidadKg, UnidadG, UnidadL, UnidadMl, UnidadUnidades:
		return true
	}
	return false
}
