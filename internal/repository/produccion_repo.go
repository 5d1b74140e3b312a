package repository

import (
	"context"
	"time"

	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProduccionRepository interface {
	Create(ctx context.Context, o *model.OrdenProduccion) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.OrdenProduccion, error)
	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.OrdenProduccion, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.OrdenProduccion, error)

	// ContarDesde counts the tenant's orders created at or after the given
	// instant. Feeds the OP-YYYYMMDD-NNN same-day sequence.
	ContarDesde(ctx context.Context, tenantID uuid.UUID, desde time.Time) (int64, error)

	// CancelarSiPendiente is a compare-and-set: the update only applies while
	// estado='pendiente'. Returns the number of rows affected; zero means
	// another actor already resolved the order.
	CancelarSiPendiente(ctx context.Context, tenantID, id uuid.UUID) (int64, error)

	// CompletarTx records the terminal transition with the completion snapshot.
	CompletarTx(tx *gorm.DB, tenantID, id uuid.UUID, cantidadProducida, costoIngredientes decimal.Decimal) error

	DB() *gorm.DB
}

type produccionRepo struct{ db *gorm.DB }

func NewProduccionRepository(db *gorm.DB) ProduccionRepository { return &produccionRepo{db: db} }

func (r *produccionRepo) Create(ctx context.Context, o *model.OrdenProduccion) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *produccionRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

func (r *produccionRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	return r.find(tx, tenantID, id)
}

func (r *produccionRepo) find(db *gorm.DB, tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	var o model.OrdenProduccion
	err := db.
		Preload("Receta").
		Preload("Receta.Ingredientes").
		Preload("Producto").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *produccionRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.OrdenProduccion, error) {
	var ordenes []model.OrdenProduccion
	err := r.db.WithContext(ctx).
		Preload("Receta").
		Preload("Producto").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&ordenes).Error
	return ordenes, err
}

func (r *produccionRepo) ContarDesde(ctx context.Context, tenantID uuid.UUID, desde time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrdenProduccion{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, desde).
		Count(&count).Error
	return count, err
}

func (r *produccionRepo) CancelarSiPendiente(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.OrdenProduccion{}).
		Where("id = ? AND tenant_id = ? AND estado = ?", id, tenantID, model.OrdenPendiente).
		Update("estado", model.OrdenCancelada)
	return res.RowsAffected, res.Error
}

func (r *produccionRepo) CompletarTx(tx *gorm.DB, tenantID, id uuid.UUID, cantidadProducida, costoIngredientes decimal.Decimal) error {
	ahora := time.Now()
	return tx.Model(&model.OrdenProduccion{}).
		Where("id = ? AND tenant_id = ? AND estado = ?", id, tenantID, model.OrdenPendiente).
		Updates(map[string]interface{}{
			"estado":             model.OrdenCompletada,
			"cantidad_producida": cantidadProducida,
			"costo_ingredientes": costoIngredientes,
			"fecha_completada":   ahora,
		}).Error
}

func (r *produccionRepo) DB() *gorm.DB { return r.db }
