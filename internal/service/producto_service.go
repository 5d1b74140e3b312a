package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"migapos/internal/costing"
	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const catalogoPOSTTL = 5 * time.Minute

// ProductoService manages the product catalog. A unit cost change on an
// ingredient is the trigger that fans out recipe recalculation; a unit of
// measure change rescales stock and cost in tandem.
type ProductoService interface {
	Crear(ctx context.Context, tenantID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, tenantID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductoResponse, error)
	CatalogoPOS(ctx context.Context, tenantID uuid.UUID) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	AjustarStock(ctx context.Context, tenantID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, tenantID, id uuid.UUID) error
	Movimientos(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
	HistorialCostos(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.HistorialCostoResponse, error)
}

type productoService struct {
	productos   repository.ProductoRepository
	ventas      repository.VentaRepository
	movimientos repository.MovimientoStockRepository
	historial   repository.HistorialCostoRepository
	recetas     RecetaService
	stock       StockService
	rdb         *redis.Client
}

func NewProductoService(
	productos repository.ProductoRepository,
	ventas repository.VentaRepository,
	movimientos repository.MovimientoStockRepository,
	historial repository.HistorialCostoRepository,
	recetas RecetaService,
	stock StockService,
	rdb *redis.Client,
) ProductoService {
	return &productoService{
		productos:   productos,
		ventas:      ventas,
		movimientos: movimientos,
		historial:   historial,
		recetas:     recetas,
		stock:       stock,
		rdb:         rdb,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *productoService) Crear(ctx context.Context, tenantID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	tipo := req.Tipo
	if tipo == "" {
		tipo = model.TipoProductoTerminado
	}
	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = costing.UnidadUnidades
	}

	p := &model.Producto{
		TenantID:      tenantID,
		Nombre:        req.Nombre,
		Codigo:        req.Codigo,
		CostoUnitario: req.CostoUnitario,
		PrecioVenta:   req.PrecioVenta,
		StockActual:   req.StockActual,
		StockMinimo:   req.StockMinimo,
		UnidadMedida:  unidad,
		Tipo:          tipo,
		Activo:        true,
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &catID
	}
	if req.MargenDeseado != nil {
		p.MargenDeseado = *req.MargenDeseado
	}

	if err := s.productos.Create(ctx, p); err != nil {
		return nil, &DependenciaError{Op: "crear producto", Causa: err}
	}
	s.invalidarCatalogo(ctx, tenantID)
	resp := productoToResponse(p)
	return &resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *productoService) Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	costoAnterior := p.CostoUnitario
	nuevoStock := p.StockActual
	nuevoCosto := req.CostoUnitario
	motivoCosto := "manual"

	// Cambio de unidad: reescala stock y costo a la par (kg↔g, L↔ml).
	if req.UnidadMedida != "" && req.UnidadMedida != p.UnidadMedida {
		nuevoStock, nuevoCosto = costing.ConvertirUnidad(p.UnidadMedida, req.UnidadMedida, p.StockActual, req.CostoUnitario)
		p.UnidadMedida = req.UnidadMedida
		motivoCosto = "conversion_unidad"
	}

	p.Nombre = req.Nombre
	p.Codigo = req.Codigo
	p.CostoUnitario = nuevoCosto
	p.PrecioVenta = req.PrecioVenta
	p.StockActual = nuevoStock
	p.StockMinimo = req.StockMinimo
	if req.Tipo != "" {
		p.Tipo = req.Tipo
	}
	if req.MargenDeseado != nil {
		p.MargenDeseado = *req.MargenDeseado
	}
	p.CategoriaID = nil
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		p.CategoriaID = &catID
	}

	if err := s.productos.Update(ctx, p); err != nil {
		return nil, &DependenciaError{Op: "actualizar producto", Causa: err}
	}
	s.invalidarCatalogo(ctx, tenantID)

	// La propagación dispara solo con cambio real de valor (comparación
	// decimal, no textual). Las recetas recalculadas quedan escritas aunque
	// falle una intermedia.
	if !nuevoCosto.Equal(costoAnterior) {
		if err := s.historial.Create(ctx, &model.HistorialCosto{
			TenantID:     tenantID,
			ProductoID:   p.ID,
			CostoAntes:   costoAnterior,
			CostoDespues: nuevoCosto,
			Motivo:       motivoCosto,
		}); err != nil {
			log.Error().Err(err).Str("producto_id", p.ID.String()).Msg("no se pudo registrar historial de costo")
		}

		n, err := s.recetas.RecalcularPorIngrediente(ctx, tenantID, p.ID)
		if err != nil {
			log.Error().Err(err).
				Str("producto_id", p.ID.String()).
				Int("recalculadas", n).
				Msg("propagación de costos incompleta")
			return nil, &MutacionParcialError{Aplicados: n, Causa: err}
		}
		if n > 0 {
			log.Info().Str("producto", p.Nombre).Int("recetas", n).Msg("costos propagados")
		}
	}

	resp := productoToResponse(p)
	return &resp, nil
}

// ── Stock / borrado ───────────────────────────────────────────────────────────

func (s *productoService) AjustarStock(ctx context.Context, tenantID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.stock.Ajustar(ctx, tenantID, id, req.Delta, req.Motivo)
	if err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx, tenantID)
	resp := productoToResponse(p)
	return &resp, nil
}

// Eliminar hard-deletes only when no sale references the product; otherwise
// it deactivates, keeping sale history intact.
func (s *productoService) Eliminar(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, tenantID, id); err != nil {
		return ErrProductoNoEncontrado
	}
	refs, err := s.ventas.ContarPorProducto(ctx, id)
	if err != nil {
		return &DependenciaError{Op: "verificar referencias de venta", Causa: err}
	}

	if refs > 0 {
		err = s.productos.SoftDelete(ctx, tenantID, id)
	} else {
		err = s.productos.HardDelete(ctx, tenantID, id)
	}
	if err != nil {
		return &DependenciaError{Op: "eliminar producto", Causa: err}
	}
	s.invalidarCatalogo(ctx, tenantID)
	return nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *productoService) Listar(ctx context.Context, tenantID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.productos.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// CatalogoPOS serves the sellable catalog, cached in Redis per tenant. Any
// write to the catalog invalidates the key; a cache miss or Redis outage
// falls through to Postgres.
func (s *productoService) CatalogoPOS(ctx context.Context, tenantID uuid.UUID) ([]dto.ProductoResponse, error) {
	key := catalogoKey(tenantID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var out []dto.ProductoResponse
			if json.Unmarshal(cached, &out) == nil {
				return out, nil
			}
		}
	}

	productos, err := s.productos.ListCatalogoPOS(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToResponse(&productos[i]))
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, key, raw, catalogoPOSTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear catálogo POS")
			}
		}
	}
	return out, nil
}

func (s *productoService) Movimientos(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	movs, err := s.movimientos.ListPorProducto(ctx, tenantID, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *productoService) HistorialCostos(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.HistorialCostoResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	hist, err := s.historial.ListPorProducto(ctx, tenantID, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialCostoResponse, 0, len(hist))
	for _, h := range hist {
		out = append(out, dto.HistorialCostoResponse{
			ID:           h.ID.String(),
			ProductoID:   h.ProductoID.String(),
			CostoAntes:   h.CostoAntes,
			CostoDespues: h.CostoDespues,
			Motivo:       h.Motivo,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func catalogoKey(tenantID uuid.UUID) string {
	return "catalogo_pos:" + tenantID.String()
}

func (s *productoService) invalidarCatalogo(ctx context.Context, tenantID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoKey(tenantID)).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar catálogo POS")
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:             p.ID.String(),
		Nombre:         p.Nombre,
		Codigo:         p.Codigo,
		CostoUnitario:  p.CostoUnitario,
		PrecioVenta:    p.PrecioVenta,
		PrecioSugerido: p.PrecioSugerido,
		CostoReceta:    p.CostoReceta,
		MargenDeseado:  p.MargenDeseado,
		StockActual:    p.StockActual,
		StockMinimo:    p.StockMinimo,
		UnidadMedida:   p.UnidadMedida,
		Tipo:           p.Tipo,
		TieneReceta:    p.TieneReceta,
		Activo:         p.Activo,
	}
	if p.CategoriaID != nil {
		cid := p.CategoriaID.String()
		resp.CategoriaID = &cid
	}
	return resp
}
