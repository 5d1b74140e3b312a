package service

import (
	"context"
	"time"

	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CajaService manages cash register shifts (arqueos). One open shift per
// user; the close summary comes from the sales linked to the shift.
type CajaService interface {
	Abrir(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ArqueoResponse, error)
	Cerrar(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error)
	Actual(ctx context.Context, tenantID, usuarioID uuid.UUID) (*dto.ArqueoResponse, error)
	Resumen(ctx context.Context, tenantID, arqueoID uuid.UUID) (*dto.ResumenCajaResponse, error)
	Historial(ctx context.Context, tenantID uuid.UUID, limit int) ([]dto.ArqueoResponse, error)
}

type cajaService struct {
	arqueos repository.CajaRepository
	ventas  repository.VentaRepository
}

func NewCajaService(arqueos repository.CajaRepository, ventas repository.VentaRepository) CajaService {
	return &cajaService{arqueos: arqueos, ventas: ventas}
}

func (s *cajaService) Abrir(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.ArqueoResponse, error) {
	if _, err := s.arqueos.FindAbiertoPorUsuario(ctx, tenantID, usuarioID); err == nil {
		return nil, ErrCajaYaAbierta
	}

	arqueo := &model.ArqueoCaja{
		TenantID:      tenantID,
		UsuarioID:     usuarioID,
		MontoInicial:  req.MontoInicial,
		Estado:        "abierto",
		Observaciones: req.Observaciones,
		FechaApertura: time.Now(),
	}
	if err := s.arqueos.Create(ctx, arqueo); err != nil {
		return nil, &DependenciaError{Op: "abrir caja", Causa: err}
	}
	resp := arqueoToResponse(arqueo)
	return &resp, nil
}

func (s *cajaService) Cerrar(ctx context.Context, tenantID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.ArqueoResponse, error) {
	arqueo, err := s.arqueos.FindAbiertoPorUsuario(ctx, tenantID, usuarioID)
	if err != nil {
		return nil, ErrCajaNoAbierta
	}

	ahora := time.Now()
	arqueo.Estado = "cerrado"
	arqueo.MontoFinalReal = &req.MontoFinalReal
	arqueo.FechaCierre = &ahora
	if req.Observaciones != nil {
		arqueo.Observaciones = req.Observaciones
	}
	if err := s.arqueos.Update(ctx, arqueo); err != nil {
		return nil, &DependenciaError{Op: "cerrar caja", Causa: err}
	}
	resp := arqueoToResponse(arqueo)
	return &resp, nil
}

func (s *cajaService) Actual(ctx context.Context, tenantID, usuarioID uuid.UUID) (*dto.ArqueoResponse, error) {
	arqueo, err := s.arqueos.FindAbiertoPorUsuario(ctx, tenantID, usuarioID)
	if err != nil {
		return nil, ErrCajaNoAbierta
	}
	resp := arqueoToResponse(arqueo)
	return &resp, nil
}

func (s *cajaService) Resumen(ctx context.Context, tenantID, arqueoID uuid.UUID) (*dto.ResumenCajaResponse, error) {
	if _, err := s.arqueos.FindByID(ctx, tenantID, arqueoID); err != nil {
		return nil, ErrCajaNoAbierta
	}
	porMetodo, err := s.ventas.ResumenPorMetodo(ctx, tenantID, arqueoID)
	if err != nil {
		return nil, &DependenciaError{Op: "resumen de ventas", Causa: err}
	}

	resumen := dto.ResumenVentasResponse{
		Efectivo:      porMetodo[model.PagoEfectivo],
		Debito:        porMetodo[model.PagoDebito],
		Credito:       porMetodo[model.PagoCredito],
		Transferencia: porMetodo[model.PagoTransferencia],
	}
	resumen.Total = decimal.Sum(resumen.Efectivo, resumen.Debito, resumen.Credito, resumen.Transferencia)

	return &dto.ResumenCajaResponse{
		ArqueoID: arqueoID.String(),
		Ventas:   resumen,
	}, nil
}

func (s *cajaService) Historial(ctx context.Context, tenantID uuid.UUID, limit int) ([]dto.ArqueoResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	arqueos, err := s.arqueos.Historial(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArqueoResponse, 0, len(arqueos))
	for i := range arqueos {
		out = append(out, arqueoToResponse(&arqueos[i]))
	}
	return out, nil
}

func arqueoToResponse(a *model.ArqueoCaja) dto.ArqueoResponse {
	resp := dto.ArqueoResponse{
		ID:            a.ID.String(),
		UsuarioID:     a.UsuarioID.String(),
		MontoInicial:  a.MontoInicial,
		Estado:        a.Estado,
		Observaciones: a.Observaciones,
		FechaApertura: a.FechaApertura.Format(time.RFC3339),
	}
	if a.MontoFinalReal != nil {
		m := *a.MontoFinalReal
		resp.MontoFinalReal = &m
	}
	if a.FechaCierre != nil {
		f := a.FechaCierre.Format(time.RFC3339)
		resp.FechaCierre = &f
	}
	return resp
}
