package service

import (
	"context"
	"fmt"
	"time"

	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProduccionService drives the production order lifecycle:
// pendiente → completada (consume ingredients, add output to stock) or
// pendiente → cancelada. Completed and cancelled orders are terminal.
type ProduccionService interface {
	Crear(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.OrdenResponse, error)
	Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrdenResponse, error)
	Completar(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrdenResponse, error)
	Cancelar(ctx context.Context, tenantID, id uuid.UUID) error
}

type produccionService struct {
	ordenes   repository.ProduccionRepository
	recetas   repository.RecetaRepository
	productos repository.ProductoRepository
	stock     StockService
}

func NewProduccionService(ordenes repository.ProduccionRepository, recetas repository.RecetaRepository, productos repository.ProductoRepository, stock StockService) ProduccionService {
	return &produccionService{ordenes: ordenes, recetas: recetas, productos: productos, stock: stock}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *produccionService) Crear(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	if req.CantidadAProducir.LessThanOrEqual(decimal.Zero) {
		return nil, ErrCantidadInvalida
	}

	recetaID, err := uuid.Parse(req.RecetaID)
	if err != nil {
		return nil, fmt.Errorf("receta_id inválido: %w", err)
	}
	receta, err := s.recetas.FindByID(ctx, tenantID, recetaID)
	if err != nil {
		return nil, ErrRecetaNoEncontrada
	}

	numero, err := s.siguienteNumero(ctx, tenantID)
	if err != nil {
		return nil, &DependenciaError{Op: "numerar orden", Causa: err}
	}

	orden := &model.OrdenProduccion{
		TenantID:          tenantID,
		NumeroOrden:       numero,
		RecetaID:          receta.ID,
		ProductoID:        receta.ProductoID,
		CantidadAProducir: req.CantidadAProducir,
		Estado:            model.OrdenPendiente,
		Notas:             req.Notas,
		UsuarioID:         usuarioID,
	}
	if err := s.ordenes.Create(ctx, orden); err != nil {
		return nil, &DependenciaError{Op: "crear orden", Causa: err}
	}

	orden.Receta = receta
	orden.Producto = receta.Producto
	resp := ordenToResponse(orden)
	return &resp, nil
}

// siguienteNumero builds OP-YYYYMMDD-NNN from the count of the tenant's
// orders created since local midnight. Count-then-insert, so two concurrent
// creations can collide on NNN; the sequence restarts each day.
func (s *produccionService) siguienteNumero(ctx context.Context, tenantID uuid.UUID) (string, error) {
	ahora := time.Now()
	medianoche := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	hoy, err := s.ordenes.ContarDesde(ctx, tenantID, medianoche)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OP-%s-%03d", ahora.Format("20060102"), hoy+1), nil
}

// ── Completar ─────────────────────────────────────────────────────────────────
// Two phases: a pure validation pass over every ingredient line (collecting
// ALL shortages, touching nothing), then the mutation pass inside one
// transaction. Ingredient needs scale by factor = cantidad_a_producir /
// rendimiento.

func (s *produccionService) Completar(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.ordenes.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	if orden.Estado != model.OrdenPendiente {
		return nil, ErrOrdenNoPendiente
	}
	if orden.Receta == nil || len(orden.Receta.Ingredientes) == 0 {
		return nil, ErrRecetaIncompleta
	}
	if orden.Receta.Rendimiento.LessThanOrEqual(decimal.Zero) {
		return nil, ErrRecetaIncompleta
	}

	factor := orden.CantidadAProducir.Div(orden.Receta.Rendimiento)

	ids := make([]uuid.UUID, 0, len(orden.Receta.Ingredientes))
	for _, linea := range orden.Receta.Ingredientes {
		ids = append(ids, linea.IngredienteID)
	}
	ingredientes, err := s.productos.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, &DependenciaError{Op: "cargar ingredientes", Causa: err}
	}
	porID := make(map[uuid.UUID]*model.Producto, len(ingredientes))
	for i := range ingredientes {
		porID[ingredientes[i].ID] = &ingredientes[i]
	}

	// Pasada de validación: se acumulan todos los faltantes antes de
	// rechazar, para que el operador vea la lista completa de una vez.
	var faltantes []string
	for _, linea := range orden.Receta.Ingredientes {
		ing, ok := porID[linea.IngredienteID]
		if !ok {
			return nil, ErrRecetaIncompleta
		}
		necesaria := linea.Cantidad.Mul(factor)
		if ing.StockActual.LessThan(necesaria) {
			faltantes = append(faltantes, fmt.Sprintf(
				"%s: necesita %s %s, disponible %s",
				ing.Nombre, necesaria.String(), ing.UnidadMedida, ing.StockActual.String()))
		}
	}
	if len(faltantes) > 0 {
		return nil, &StockInsuficienteError{Faltantes: faltantes}
	}

	motivo := "Producción " + orden.NumeroOrden
	costoIngredientes := orden.Receta.CostoTotal.Mul(factor)

	txErr := runTx(ctx, s.ordenes.DB(), func(tx *gorm.DB) error {
		for i, linea := range orden.Receta.Ingredientes {
			necesaria := linea.Cantidad.Mul(factor)
			if err := s.stock.DescontarTx(ctx, tx, tenantID, linea.IngredienteID, necesaria, model.MovProduccionConsumo, motivo, &orden.ID); err != nil {
				return &MutacionParcialError{Aplicados: i, Causa: err}
			}
		}
		if err := s.stock.ReponerTx(ctx, tx, tenantID, orden.ProductoID, orden.CantidadAProducir, model.MovProduccionIngreso, motivo, &orden.ID); err != nil {
			return &MutacionParcialError{Aplicados: len(orden.Receta.Ingredientes), Causa: err}
		}
		return s.ordenes.CompletarTx(tx, tenantID, orden.ID, orden.CantidadAProducir, costoIngredientes)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("orden", orden.NumeroOrden).
		Str("costo_ingredientes", costoIngredientes.String()).
		Msg("orden de producción completada")

	completada, err := s.ordenes.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	resp := ordenToResponse(completada)
	return &resp, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func (s *produccionService) Cancelar(ctx context.Context, tenantID, id uuid.UUID) error {
	rows, err := s.ordenes.CancelarSiPendiente(ctx, tenantID, id)
	if err != nil {
		return &DependenciaError{Op: "cancelar orden", Causa: err}
	}
	if rows == 0 {
		if _, err := s.ordenes.FindByID(ctx, tenantID, id); err != nil {
			return ErrOrdenNoEncontrada
		}
		return ErrOrdenNoPendiente
	}
	return nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *produccionService) Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.OrdenResponse, error) {
	ordenes, err := s.ordenes.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrdenResponse, 0, len(ordenes))
	for i := range ordenes {
		out = append(out, ordenToResponse(&ordenes[i]))
	}
	return out, nil
}

func (s *produccionService) Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.ordenes.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrOrdenNoEncontrada
	}
	resp := ordenToResponse(orden)
	return &resp, nil
}

func ordenToResponse(o *model.OrdenProduccion) dto.OrdenResponse {
	resp := dto.OrdenResponse{
		ID:                o.ID.String(),
		NumeroOrden:       o.NumeroOrden,
		RecetaID:          o.RecetaID.String(),
		ProductoID:        o.ProductoID.String(),
		CantidadAProducir: o.CantidadAProducir,
		CantidadProducida: o.CantidadProducida,
		CostoIngredientes: o.CostoIngredientes,
		Estado:            o.Estado,
		Notas:             o.Notas,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
	if o.Receta != nil {
		resp.Receta = o.Receta.Nombre
	}
	if o.Producto != nil {
		resp.Producto = o.Producto.Nombre
	}
	if o.FechaCompletada != nil {
		f := o.FechaCompletada.Format(time.RFC3339)
		resp.FechaCompletada = &f
	}
	return resp
}
