package repository

import (
	"context"

	"migapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaRepository interface {
	Create(ctx context.Context, c *model.Categoria) error
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Categoria, error)
	Update(ctx context.Context, c *model.Categoria) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Categoria, error)
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Create(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Categoria, error) {
	var categorias []model.Categoria
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND activo = true", tenantID).
		Order("nombre ASC").
		Find(&categorias).Error
	return categorias, err
}

func (r *categoriaRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) Update(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("activo", false).Error
}
