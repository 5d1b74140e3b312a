package repository

import (
	"context"

	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Venta, error)
	Recientes(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Venta, error)
	RecientesPorUsuario(ctx context.Context, tenantID, usuarioID uuid.UUID, limit int) ([]model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, tenantID, id uuid.UUID, estado string) error

	// ContarPorProducto guards hard product deletion.
	ContarPorProducto(ctx context.Context, productoID uuid.UUID) (int64, error)

	// ResumenPorMetodo sums completed sales per payment method for a shift.
	ResumenPorMetodo(ctx context.Context, tenantID, arqueoID uuid.UUID) (map[string]decimal.Decimal, error)

	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Detalles.Producto").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) Recientes(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) RecientesPorUsuario(ctx context.Context, tenantID, usuarioID uuid.UUID, limit int) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("tenant_id = ? AND usuario_id = ?", tenantID, usuarioID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, tenantID, id uuid.UUID, estado string) error {
	return tx.Model(&model.Venta{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("estado", estado).Error
}

func (r *ventaRepo) ContarPorProducto(ctx context.Context, productoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VentaDetalle{}).
		Where("producto_id = ?", productoID).
		Count(&count).Error
	return count, err
}

func (r *ventaRepo) ResumenPorMetodo(ctx context.Context, tenantID, arqueoID uuid.UUID) (map[string]decimal.Decimal, error) {
	type fila struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("tenant_id = ? AND arqueo_id = ? AND estado = ?", tenantID, arqueoID, "completada").
		Group("metodo_pago").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	resumen := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		resumen[f.MetodoPago] = f.Total
	}
	return resumen, nil
}

func (r *ventaRepo) DB() *gorm.DB { return r.db }
