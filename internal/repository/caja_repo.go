package repository

import (
	"context"

	"migapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, a *model.ArqueoCaja) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ArqueoCaja, error)
	// FindAbiertoPorUsuario returns gorm.ErrRecordNotFound when the user has
	// no open shift.
	FindAbiertoPorUsuario(ctx context.Context, tenantID, usuarioID uuid.UUID) (*model.ArqueoCaja, error)
	Update(ctx context.Context, a *model.ArqueoCaja) error
	Historial(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.ArqueoCaja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, a *model.ArqueoCaja) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ArqueoCaja, error) {
	var a model.ArqueoCaja
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *cajaRepo) FindAbiertoPorUsuario(ctx context.Context, tenantID, usuarioID uuid.UUID) (*model.ArqueoCaja, error) {
	var a model.ArqueoCaja
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND usuario_id = ? AND estado = ?", tenantID, usuarioID, "abierto").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *cajaRepo) Update(ctx context.Context, a *model.ArqueoCaja) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *cajaRepo) Historial(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.ArqueoCaja, error) {
	var arqueos []model.ArqueoCaja
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("fecha_apertura DESC").
		Limit(limit).
		Find(&arqueos).Error
	return arqueos, err
}
