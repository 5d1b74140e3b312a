// Package costing holds the pure cost arithmetic for recipes: line costs,
// batch totals, cost per yield unit and margin-based suggested pricing.
// No I/O: every function operates on decimals passed in by the caller.
package costing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrRendimientoInvalido is returned when a recipe yield is zero or negative.
// Callers validate yield before persisting; this guard is the last line.
var ErrRendimientoInvalido = errors.New("el rendimiento debe ser mayor a 0")

var cien = decimal.NewFromInt(100)

// Linea is one ingredient line as seen by the ledger: quantity per batch and
// the ingredient's unit cost as read at computation time.
type Linea struct {
	Cantidad      decimal.Decimal
	CostoUnitario decimal.Decimal
}

// CostoLinea returns cantidad * costoUnitario at full precision.
func CostoLinea(cantidad, costoUnitario decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(costoUnitario)
}

// CostoTotal sums the line costs of all ingredient lines.
func CostoTotal(lineas []Linea) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(CostoLinea(l.Cantidad, l.CostoUnitario))
	}
	return total
}

// CostoPorUnidad divides the batch cost by the recipe yield.
func CostoPorUnidad(costoTotal, rendimiento decimal.Decimal) (decimal.Decimal, error) {
	if rendimiento.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrRendimientoInvalido
	}
	return costoTotal.Div(rendimiento), nil
}

// PrecioSugerido derives a sale price from cost and desired margin percent.
// For margen < 100: round(costo / (1 - margen/100)). At margen >= 100 the
// divisor would be <= 0, so the historical costo*2 fallback applies.
// This is the only step that rounds to whole currency units; intermediate
// sums keep full decimal precision.
func PrecioSugerido(costoPorUnidad, margen decimal.Decimal) decimal.Decimal {
	if margen.LessThan(cien) {
		divisor := decimal.NewFromInt(1).Sub(margen.Div(cien))
		return costoPorUnidad.Div(divisor).Round(0)
	}
	return costoPorUnidad.Mul(decimal.NewFromInt(2)).Round(0)
}
