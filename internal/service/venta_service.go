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

// VentaService runs the POS checkout: one transaction creates the sale with
// its frozen-price lines and discounts stock per item. Annulment restores
// stock and flips estado, never deleting the record.
type VentaService interface {
	Crear(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, tenantID, id uuid.UUID, motivo string) (*dto.VentaResponse, error)
	Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.VentaResponse, error)
	// Recientes lists all tenant sales; RecientesPropias only the caller's.
	// The router decides which one a role may reach.
	Recientes(ctx context.Context, tenantID uuid.UUID, limit int) ([]dto.VentaResponse, error)
	RecientesPropias(ctx context.Context, tenantID, usuarioID uuid.UUID, limit int) ([]dto.VentaResponse, error)
}

type ventaService struct {
	ventas    repository.VentaRepository
	productos repository.ProductoRepository
	stock     StockService
}

func NewVentaService(ventas repository.VentaRepository, productos repository.ProductoRepository, stock StockService) VentaService {
	return &ventaService{ventas: ventas, productos: productos, stock: stock}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *ventaService) Crear(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Cantidad.LessThanOrEqual(decimal.Zero) {
			return nil, ErrCantidadInvalida
		}
		id, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		ids = append(ids, id)
	}

	productos, err := s.productos.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, &DependenciaError{Op: "cargar productos", Causa: err}
	}
	porID := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		porID[productos[i].ID] = &productos[i]
	}

	// Precio congelado al momento de la venta, tomado del catálogo, no del
	// request.
	subtotal := decimal.Zero
	descuentoTotal := req.DescuentoGlobal
	detalles := make([]model.VentaDetalle, 0, len(req.Items))
	for i, item := range req.Items {
		p, ok := porID[ids[i]]
		if !ok || !p.Activo {
			return nil, ErrProductoNoEncontrado
		}
		if !p.PuedeSerDestinoReceta() {
			// Solo producto_terminado/ambos son vendibles.
			return nil, ErrTipoDestino
		}
		lineaSubtotal := p.PrecioVenta.Mul(item.Cantidad).Sub(item.Descuento)
		subtotal = subtotal.Add(p.PrecioVenta.Mul(item.Cantidad))
		descuentoTotal = descuentoTotal.Add(item.Descuento)
		detalles = append(detalles, model.VentaDetalle{
			ProductoID:     ids[i],
			Cantidad:       item.Cantidad,
			PrecioUnitario: p.PrecioVenta,
			Descuento:      item.Descuento,
			Subtotal:       lineaSubtotal,
		})
	}

	venta := &model.Venta{
		TenantID:       tenantID,
		UsuarioID:      usuarioID,
		ClienteNombre:  req.ClienteNombre,
		ClienteRut:     req.ClienteRut,
		MetodoPago:     req.MetodoPago,
		Subtotal:       subtotal,
		DescuentoTotal: descuentoTotal,
		Total:          subtotal.Sub(descuentoTotal),
		Estado:         "completada",
		Notas:          req.Notas,
		Detalles:       detalles,
	}
	if req.ArqueoID != nil {
		arqueoID, err := uuid.Parse(*req.ArqueoID)
		if err != nil {
			return nil, fmt.Errorf("arqueo_id inválido: %w", err)
		}
		venta.ArqueoID = &arqueoID
	}

	txErr := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		if err := s.ventas.CreateTx(tx, venta); err != nil {
			return &DependenciaError{Op: "crear venta", Causa: err}
		}
		for i, det := range venta.Detalles {
			err := s.stock.DescontarTx(ctx, tx, tenantID, det.ProductoID, det.Cantidad,
				model.MovVenta, "Venta", &venta.ID)
			if err != nil {
				return &MutacionParcialError{Aplicados: i, Causa: err}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", venta.Total.String()).
		Str("metodo_pago", venta.MetodoPago).
		Msg("venta registrada")

	resp := ventaToResponse(venta, porID)
	return &resp, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────

func (s *ventaService) Anular(ctx context.Context, tenantID, id uuid.UUID, motivo string) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	if venta.Estado != "completada" {
		return nil, ErrVentaYaAnulada
	}

	txErr := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		for i, det := range venta.Detalles {
			err := s.stock.ReponerTx(ctx, tx, tenantID, det.ProductoID, det.Cantidad,
				model.MovRestoreAnulacion, "Anulación: "+motivo, &venta.ID)
			if err != nil {
				return &MutacionParcialError{Aplicados: i, Causa: err}
			}
		}
		return s.ventas.UpdateEstadoTx(tx, tenantID, id, "anulada")
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("venta_id", id.String()).Str("motivo", motivo).Msg("venta anulada")

	venta.Estado = "anulada"
	resp := ventaToResponse(venta, nil)
	return &resp, nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *ventaService) Detalle(ctx context.Context, tenantID, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	resp := ventaToResponse(venta, nil)
	return &resp, nil
}

func (s *ventaService) Recientes(ctx context.Context, tenantID uuid.UUID, limit int) ([]dto.VentaResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	ventas, err := s.ventas.Recientes(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	return ventasToResponses(ventas), nil
}

func (s *ventaService) RecientesPropias(ctx context.Context, tenantID, usuarioID uuid.UUID, limit int) ([]dto.VentaResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	ventas, err := s.ventas.RecientesPorUsuario(ctx, tenantID, usuarioID, limit)
	if err != nil {
		return nil, err
	}
	return ventasToResponses(ventas), nil
}

func ventasToResponses(ventas []model.Venta) []dto.VentaResponse {
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, ventaToResponse(&ventas[i], nil))
	}
	return out
}

func ventaToResponse(v *model.Venta, productos map[uuid.UUID]*model.Producto) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:             v.ID.String(),
		MetodoPago:     v.MetodoPago,
		Subtotal:       v.Subtotal,
		DescuentoTotal: v.DescuentoTotal,
		Total:          v.Total,
		Estado:         v.Estado,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
	}
	for _, det := range v.Detalles {
		item := dto.ItemVentaResponse{
			ProductoID:     det.ProductoID.String(),
			Cantidad:       det.Cantidad,
			PrecioUnitario: det.PrecioUnitario,
			Descuento:      det.Descuento,
			Subtotal:       det.Subtotal,
		}
		if det.Producto != nil {
			item.Producto = det.Producto.Nombre
		} else if p, ok := productos[det.ProductoID]; ok {
			item.Producto = p.Nombre
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
