package dto

import "github.com/shopspring/decimal"

type AbrirCajaRequest struct {
	MontoInicial  decimal.Decimal `json:"monto_inicial" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

type CerrarCajaRequest struct {
	MontoFinalReal decimal.Decimal `json:"monto_final_real" validate:"min=0"`
	Observaciones  *string         `json:"observaciones"`
}

type ArqueoResponse struct {
	ID             string           `json:"id"`
	UsuarioID      string           `json:"usuario_id"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoFinalReal *decimal.Decimal `json:"monto_final_real"`
	Estado         string           `json:"estado"`
	Observaciones  *string          `json:"observaciones"`
	FechaApertura  string           `json:"fecha_apertura"`
	FechaCierre    *string          `json:"fecha_cierre"`
}

// ResumenCajaResponse is the per-method sales summary for one shift.
type ResumenCajaResponse struct {
	ArqueoID string                `json:"arqueo_id"`
	Ventas   ResumenVentasResponse `json:"ventas"`
}
