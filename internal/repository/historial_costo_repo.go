package repository

import (
	"context"

	"migapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialCostoRepository appends immutable cost-change records.
type HistorialCostoRepository interface {
	Create(ctx context.Context, h *model.HistorialCosto) error
	ListPorProducto(ctx context.Context, tenantID, productoID uuid.UUID, limit int) ([]model.HistorialCosto, error)
}

type historialCostoRepo struct{ db *gorm.DB }

func NewHistorialCostoRepository(db *gorm.DB) HistorialCostoRepository {
	return &historialCostoRepo{db: db}
}

func (r *historialCostoRepo) Create(ctx context.Context, h *model.HistorialCosto) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialCostoRepo) ListPorProducto(ctx context.Context, tenantID, productoID uuid.UUID, limit int) ([]model.HistorialCosto, error) {
	var hist []model.HistorialCosto
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND producto_id = ?", tenantID, productoID).
		Order("created_at DESC").
		Limit(limit).
		Find(&hist).Error
	return hist, err
}
