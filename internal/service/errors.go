package service

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio. Los handlers los mapean a códigos HTTP; ningún error
// de GORM cruza la frontera de un servicio sin traducirse a uno de estos
// (o envolverse como fallo de dependencia).
var (
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrRecetaNoEncontrada   = errors.New("receta no encontrada")
	ErrOrdenNoEncontrada    = errors.New("orden no encontrada")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")

	// Conflictos de estado
	ErrOrdenNoPendiente = errors.New("la orden ya no está pendiente")
	ErrVentaYaAnulada   = errors.New("la venta ya está anulada")
	ErrCajaYaAbierta    = errors.New("ya tienes una sesión de caja abierta")
	ErrCajaNoAbierta    = errors.New("no hay una sesión de caja abierta")

	// Autenticación
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
	ErrEmailEnUso            = errors.New("el email ya está registrado")
	ErrCategoriaNoEncontrada = errors.New("categoría no encontrada")

	// Validación
	ErrRecetaSinIngredientes = errors.New("la receta debe tener al menos un ingrediente")
	ErrRecetaIncompleta      = errors.New("la receta no tiene ingredientes configurados")
	ErrCantidadInvalida      = errors.New("la cantidad debe ser mayor a 0")
	ErrMargenInvalido        = errors.New("el margen debe estar entre 0 y 100")
	ErrTipoIngrediente       = errors.New("el producto no puede usarse como ingrediente")
	ErrTipoDestino           = errors.New("el producto no puede ser destino de una receta")
)

// StockInsuficienteError names every short ingredient. It is always raised
// before any stock mutation: the validation pass completes first.
type StockInsuficienteError struct {
	Faltantes []string
}

func (e *StockInsuficienteError) Error() string {
	return "stock insuficiente para: " + strings.Join(e.Faltantes, ", ")
}

// MutacionParcialError reports a failure during the mutation pass after some
// per-product writes already applied. There is no rollback past a committed
// fallback write; the operator must reconcile.
type MutacionParcialError struct {
	Aplicados int
	Causa     error
}

func (e *MutacionParcialError) Error() string {
	return fmt.Sprintf("mutación de stock incompleta (%d escrituras aplicadas): %v", e.Aplicados, e.Causa)
}

func (e *MutacionParcialError) Unwrap() error { return e.Causa }

// DependenciaError wraps a failing store call that is not a domain condition.
type DependenciaError struct {
	Op    string
	Causa error
}

func (e *DependenciaError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Causa)
}

func (e *DependenciaError) Unwrap() error { return e.Causa }
