package service

import (
	"context"
	"fmt"

	"migapos/internal/costing"
	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecetaService owns recipe definitions and their derived cost fields, and
// runs the cost propagation that keeps them in sync when an ingredient's
// unit cost changes.
type RecetaService interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, req dto.UpsertRecetaRequest, recetaID *uuid.UUID) (*dto.UpsertRecetaResponse, error)
	Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.RecetaResponse, error)
	Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.RecetaDetalleResponse, error)
	Eliminar(ctx context.Context, tenantID, id uuid.UUID) error

	// RecalcularPorIngrediente re-costs every recipe that references the
	// ingredient and pushes the new derived cost onto each target product.
	// Returns how many recipes were recalculated. Not transactional across
	// recipes: on failure, already-recalculated recipes stay updated.
	RecalcularPorIngrediente(ctx context.Context, tenantID, ingredienteID uuid.UUID) (int, error)
}

type recetaService struct {
	recetas   repository.RecetaRepository
	productos repository.ProductoRepository
}

func NewRecetaService(recetas repository.RecetaRepository, productos repository.ProductoRepository) RecetaService {
	return &recetaService{recetas: recetas, productos: productos}
}

// ── Upsert ────────────────────────────────────────────────────────────────────
// Creates or replaces a recipe. The ingredient list is replaced wholesale
// (delete-all then reinsert, never a diff), line costs are computed from the
// ingredients' live unit costs, and the derived cost fields are pushed onto
// the target product. Runs as one transaction.

func (s *recetaService) Upsert(ctx context.Context, tenantID uuid.UUID, req dto.UpsertRecetaRequest, recetaID *uuid.UUID) (*dto.UpsertRecetaResponse, error) {
	if req.Rendimiento.LessThanOrEqual(decimal.Zero) {
		return nil, costing.ErrRendimientoInvalido
	}
	if len(req.Ingredientes) == 0 {
		return nil, ErrRecetaSinIngredientes
	}

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}

	destino, err := s.productos.FindByID(ctx, tenantID, productoID)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	if !destino.PuedeSerDestinoReceta() {
		return nil, ErrTipoDestino
	}

	// Resolver ingredientes y sus costos actuales antes de tocar nada.
	ingredienteIDs := make([]uuid.UUID, 0, len(req.Ingredientes))
	for _, ing := range req.Ingredientes {
		if ing.Cantidad.LessThanOrEqual(decimal.Zero) {
			return nil, ErrCantidadInvalida
		}
		id, err := uuid.Parse(ing.IngredienteID)
		if err != nil {
			return nil, fmt.Errorf("ingrediente_id inválido: %w", err)
		}
		ingredienteIDs = append(ingredienteIDs, id)
	}

	productos, err := s.productos.FindByIDs(ctx, tenantID, ingredienteIDs)
	if err != nil {
		return nil, &DependenciaError{Op: "cargar ingredientes", Causa: err}
	}
	costos := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		costos[productos[i].ID] = &productos[i]
	}
	for _, id := range ingredienteIDs {
		p, ok := costos[id]
		if !ok {
			return nil, ErrProductoNoEncontrado
		}
		if !p.PuedeSerIngrediente() {
			return nil, ErrTipoIngrediente
		}
	}

	margen := decimal.Zero
	if req.MargenDeseado != nil {
		margen = *req.MargenDeseado
		if margen.IsNegative() || margen.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrMargenInvalido
		}
	}

	// Costeo: líneas a costo vivo, total, por unidad, precio sugerido.
	lineas := make([]model.RecetaIngrediente, 0, len(req.Ingredientes))
	costoTotal := decimal.Zero
	for i, ing := range req.Ingredientes {
		costoLinea := costing.CostoLinea(ing.Cantidad, costos[ingredienteIDs[i]].CostoUnitario)
		costoTotal = costoTotal.Add(costoLinea)
		lineas = append(lineas, model.RecetaIngrediente{
			TenantID:      tenantID,
			IngredienteID: ingredienteIDs[i],
			Cantidad:      ing.Cantidad,
			CostoLinea:    costoLinea,
			Orden:         ing.Orden,
			Notas:         ing.Notas,
		})
	}

	costoPorUnidad, err := costing.CostoPorUnidad(costoTotal, req.Rendimiento)
	if err != nil {
		return nil, err
	}
	precioSugerido := costing.PrecioSugerido(costoPorUnidad, margen)

	var id uuid.UUID
	txErr := runTx(ctx, s.recetas.DB(), func(tx *gorm.DB) error {
		header := &model.Receta{
			TenantID:                 tenantID,
			ProductoID:               productoID,
			Nombre:                   req.Nombre,
			Descripcion:              req.Descripcion,
			Instrucciones:            req.Instrucciones,
			Rendimiento:              req.Rendimiento,
			TiempoPreparacionMinutos: req.TiempoPreparacionMinutos,
			Activa:                   true,
		}
		if recetaID != nil {
			header.ID = *recetaID
			if _, err := s.recetas.FindByIDTx(tx, tenantID, *recetaID); err != nil {
				return ErrRecetaNoEncontrada
			}
			if err := s.recetas.UpdateHeaderTx(tx, header); err != nil {
				return err
			}
		} else if err := s.recetas.CreateTx(tx, header); err != nil {
			return err
		}
		id = header.ID

		// Reemplazo total de líneas: borrar e insertar, nunca diff.
		if err := s.recetas.DeleteIngredientesTx(tx, id); err != nil {
			return err
		}
		for i := range lineas {
			lineas[i].RecetaID = id
		}
		if err := s.recetas.InsertIngredientesTx(tx, lineas); err != nil {
			return err
		}

		if err := s.recetas.UpdateCostosTx(tx, id, costoTotal, costoPorUnidad); err != nil {
			return err
		}

		// Empujar costo derivado y margen al producto terminado. El costo
		// unitario general queda igualado al costo de receta (comportamiento
		// heredado: un producto con receta no mantiene costo manual aparte).
		campos := map[string]interface{}{
			"tiene_receta":    true,
			"costo_receta":    costoPorUnidad,
			"precio_sugerido": precioSugerido,
			"costo_unitario":  costoPorUnidad,
			"margen_deseado":  margen,
		}
		if req.ActualizarPrecioVenta {
			campos["precio_venta"] = precioSugerido
		}
		return s.productos.UpdateCamposTx(tx, tenantID, productoID, campos)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.UpsertRecetaResponse{
		ID:             id.String(),
		CostoTotal:     costoTotal,
		CostoPorUnidad: costoPorUnidad,
		PrecioSugerido: precioSugerido,
	}, nil
}

// ── RecalcularPorIngrediente ──────────────────────────────────────────────────

func (s *recetaService) RecalcularPorIngrediente(ctx context.Context, tenantID, ingredienteID uuid.UUID) (int, error) {
	ids, err := s.recetas.RecetaIDsPorIngrediente(ctx, tenantID, ingredienteID)
	if err != nil {
		return 0, &DependenciaError{Op: "buscar recetas afectadas", Causa: err}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	// Secuencial y sin rollback entre recetas: un fallo en la receta N deja
	// 1..N-1 actualizadas y omite el resto.
	for n, recetaID := range ids {
		if err := s.recalcularReceta(ctx, tenantID, recetaID); err != nil {
			return n, fmt.Errorf("recalculando receta %s: %w", recetaID, err)
		}
	}

	log.Info().
		Str("ingrediente_id", ingredienteID.String()).
		Int("recetas", len(ids)).
		Msg("recetas recalculadas por cambio de costo")
	return len(ids), nil
}

// recalcularReceta re-reads the recipe's lines at their ingredients' current
// unit costs, rewrites line and recipe costs, and refreshes the target
// product's derived fields. precio_venta is never touched here; only the
// upsert's explicit push flag may overwrite it.
func (s *recetaService) recalcularReceta(ctx context.Context, tenantID, recetaID uuid.UUID) error {
	return runTx(ctx, s.recetas.DB(), func(tx *gorm.DB) error {
		receta, err := s.recetas.FindByIDTx(tx, tenantID, recetaID)
		if err != nil {
			return ErrRecetaNoEncontrada
		}

		costoTotal := decimal.Zero
		for _, linea := range receta.Ingredientes {
			costoVivo := decimal.Zero
			if linea.Ingrediente != nil {
				costoVivo = linea.Ingrediente.CostoUnitario
			}
			costoLinea := costing.CostoLinea(linea.Cantidad, costoVivo)
			costoTotal = costoTotal.Add(costoLinea)
			if err := s.recetas.UpdateCostoLineaTx(tx, recetaID, linea.IngredienteID, costoLinea); err != nil {
				return err
			}
		}

		costoPorUnidad, err := costing.CostoPorUnidad(costoTotal, receta.Rendimiento)
		if err != nil {
			return err
		}
		if err := s.recetas.UpdateCostosTx(tx, recetaID, costoTotal, costoPorUnidad); err != nil {
			return err
		}

		destino, err := s.productos.FindByID(ctx, tenantID, receta.ProductoID)
		if err != nil {
			return ErrProductoNoEncontrado
		}
		precioSugerido := costing.PrecioSugerido(costoPorUnidad, destino.MargenDeseado)

		return s.productos.UpdateCamposTx(tx, tenantID, receta.ProductoID, map[string]interface{}{
			"costo_receta":    costoPorUnidad,
			"precio_sugerido": precioSugerido,
			"costo_unitario":  costoPorUnidad,
		})
	})
}

// ── Lecturas y borrado ────────────────────────────────────────────────────────

func (s *recetaService) Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.RecetaResponse, error) {
	recetas, err := s.recetas.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecetaResponse, 0, len(recetas))
	for i := range recetas {
		out = append(out, recetaToResponse(&recetas[i]))
	}
	return out, nil
}

func (s *recetaService) Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.RecetaDetalleResponse, error) {
	receta, err := s.recetas.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrRecetaNoEncontrada
	}

	resp := &dto.RecetaDetalleResponse{
		RecetaResponse:           recetaToResponse(receta),
		Descripcion:              receta.Descripcion,
		Instrucciones:            receta.Instrucciones,
		TiempoPreparacionMinutos: receta.TiempoPreparacionMinutos,
	}
	for _, linea := range receta.Ingredientes {
		item := dto.IngredienteRecetaResponse{
			IngredienteID: linea.IngredienteID.String(),
			Cantidad:      linea.Cantidad,
			CostoLinea:    linea.CostoLinea,
			Orden:         linea.Orden,
			Notas:         linea.Notas,
		}
		// Costo vivo junto al snapshot para que la UI marque líneas
		// desactualizadas.
		if linea.Ingrediente != nil {
			item.Nombre = linea.Ingrediente.Nombre
			item.UnidadMedida = linea.Ingrediente.UnidadMedida
			item.CostoUnitarioActual = linea.Ingrediente.CostoUnitario
		}
		resp.Ingredientes = append(resp.Ingredientes, item)
	}
	return resp, nil
}

func (s *recetaService) Eliminar(ctx context.Context, tenantID, id uuid.UUID) error {
	// Soft delete: nunca se borran datos y no cascada a órdenes existentes.
	return s.recetas.SoftDelete(ctx, tenantID, id)
}

func recetaToResponse(r *model.Receta) dto.RecetaResponse {
	resp := dto.RecetaResponse{
		ID:             r.ID.String(),
		ProductoID:     r.ProductoID.String(),
		Nombre:         r.Nombre,
		Rendimiento:    r.Rendimiento,
		CostoTotal:     r.CostoTotal,
		CostoPorUnidad: r.CostoPorUnidad,
		Activa:         r.Activa,
	}
	if r.Producto != nil {
		resp.Producto = r.Producto.Nombre
	}
	return resp
}
