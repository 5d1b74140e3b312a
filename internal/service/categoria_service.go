package service

import (
	"context"

	"migapos/internal/dto"
	"migapos/internal/model"
	"migapos/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService interface {
	Crear(ctx context.Context, tenantID uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, tenantID, id uuid.UUID) error
}

type categoriaService struct {
	categorias repository.CategoriaRepository
}

func NewCategoriaService(categorias repository.CategoriaRepository) CategoriaService {
	return &categoriaService{categorias: categorias}
}

func (s *categoriaService) Crear(ctx context.Context, tenantID uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c := &model.Categoria{TenantID: tenantID, Nombre: req.Nombre, Activo: true}
	if err := s.categorias.Create(ctx, c); err != nil {
		return nil, &DependenciaError{Op: "crear categoría", Causa: err}
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Listar(ctx context.Context, tenantID uuid.UUID) ([]dto.CategoriaResponse, error) {
	categorias, err := s.categorias.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, tenantID, id uuid.UUID, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.categorias.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, ErrCategoriaNoEncontrada
	}
	c.Nombre = req.Nombre
	if err := s.categorias.Update(ctx, c); err != nil {
		return nil, &DependenciaError{Op: "actualizar categoría", Causa: err}
	}
	resp := categoriaToResponse(c)
	return &resp, nil
}

func (s *categoriaService) Eliminar(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.categorias.FindByID(ctx, tenantID, id); err != nil {
		return ErrCategoriaNoEncontrada
	}
	return s.categorias.SoftDelete(ctx, tenantID, id)
}

func categoriaToResponse(c *model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID.String(), Nombre: c.Nombre, Activo: c.Activo}
}
