package service

import (
	"context"

	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService is the single inventory ledger: every stock_actual mutation in
// the system (sale, annulment, production consumption/output, manual
// adjustment) goes through here, so the check-and-set discipline and the
// movement trail live in exactly one place.
type StockService interface {
	// DescontarTx removes cantidad from the product's stock inside tx using
	// the conditional atomic decrement. A failed precondition surfaces as
	// StockInsuficienteError; if the primitive itself errors, a read-modify-
	// write fallback applies (non-atomic, logged).
	DescontarTx(ctx context.Context, tx *gorm.DB, tenantID, productoID uuid.UUID, cantidad decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) error

	// ReponerTx adds cantidad back (annulments, production output).
	ReponerTx(ctx context.Context, tx *gorm.DB, tenantID, productoID uuid.UUID, cantidad decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) error

	// Ajustar applies a signed manual delta in its own transaction.
	Ajustar(ctx context.Context, tenantID, productoID uuid.UUID, delta decimal.Decimal, motivo string) (*model.Producto, error)
}

type stockService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewStockService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) StockService {
	return &stockService{productos: productos, movimientos: movimientos}
}

func (s *stockService) DescontarTx(ctx context.Context, tx *gorm.DB, tenantID, productoID uuid.UUID, cantidad decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) error {
	p, err := s.productos.FindByID(ctx, tenantID, productoID)
	if err != nil {
		return ErrProductoNoEncontrado
	}

	ok, err := s.productos.DescontarStockCondTx(tx, tenantID, productoID, cantidad)
	if err != nil {
		// Primitive unavailable or failing: best-effort fallback, vulnerable
		// to lost updates under concurrency. Inherited from the source design.
		log.Warn().
			Str("producto_id", productoID.String()).
			Err(err).
			Msg("decremento condicional falló, usando escritura directa")
		if fbErr := s.productos.SetStockTx(tx, tenantID, productoID, p.StockActual.Sub(cantidad)); fbErr != nil {
			return &DependenciaError{Op: "descontar stock de " + p.Nombre, Causa: fbErr}
		}
	} else if !ok {
		return &StockInsuficienteError{Faltantes: []string{p.Nombre}}
	}

	return s.registrar(tx, tenantID, p, cantidad.Neg(), tipo, motivo, referenciaID)
}

func (s *stockService) ReponerTx(ctx context.Context, tx *gorm.DB, tenantID, productoID uuid.UUID, cantidad decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) error {
	p, err := s.productos.FindByID(ctx, tenantID, productoID)
	if err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.productos.IncrementarStockTx(tx, tenantID, productoID, cantidad); err != nil {
		return &DependenciaError{Op: "reponer stock de " + p.Nombre, Causa: err}
	}
	return s.registrar(tx, tenantID, p, cantidad, tipo, motivo, referenciaID)
}

func (s *stockService) Ajustar(ctx context.Context, tenantID, productoID uuid.UUID, delta decimal.Decimal, motivo string) (*model.Producto, error) {
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if delta.IsNegative() {
			return s.DescontarTx(ctx, tx, tenantID, productoID, delta.Abs(), model.MovAjusteManual, motivo, nil)
		}
		return s.ReponerTx(ctx, tx, tenantID, productoID, delta, model.MovAjusteManual, motivo, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.productos.FindByID(ctx, tenantID, productoID)
}

// registrar appends the immutable movement record. StockAnterior comes from
// the read done before the mutation in the same unit of work.
func (s *stockService) registrar(tx *gorm.DB, tenantID uuid.UUID, p *model.Producto, delta decimal.Decimal, tipo, motivo string, referenciaID *uuid.UUID) error {
	mov := &model.MovimientoStock{
		TenantID:      tenantID,
		ProductoID:    p.ID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: p.StockActual,
		StockNuevo:    p.StockActual.Add(delta),
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	if err := s.movimientos.CreateTx(tx, mov); err != nil {
		return &DependenciaError{Op: "registrar movimiento de stock", Causa: err}
	}
	return nil
}
