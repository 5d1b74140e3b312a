package repository

import (
	"context"

	"migapos/internal/dto"
	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository is the data access contract for products. Services
// depend on this interface, not on the concrete GORM implementation, so unit
// tests can swap in in-memory stubs. Every query is tenant-scoped.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Producto, error)
	// FindByIDs batch-loads products; missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Producto, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListCatalogoPOS(ctx context.Context, tenantID uuid.UUID) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// UpdateCamposTx writes an arbitrary set of columns inside a tx. Used by
	// the costing engine to push derived fields (costo_receta, precio_sugerido,
	// costo_unitario, …) onto the product.
	UpdateCamposTx(tx *gorm.DB, tenantID, id uuid.UUID, campos map[string]interface{}) error

	// DescontarStockCondTx is the atomic check-and-set decrement:
	// UPDATE … SET stock_actual = stock_actual - ? WHERE stock_actual >= ?.
	// Returns (false, nil) when the precondition fails (insufficient stock).
	DescontarStockCondTx(tx *gorm.DB, tenantID, id uuid.UUID, cantidad decimal.Decimal) (bool, error)

	// IncrementarStockTx adds delta (may be negative) without a stock guard.
	// It is also the non-atomic fallback target for stores lacking the
	// conditional primitive.
	IncrementarStockTx(tx *gorm.DB, tenantID, id uuid.UUID, delta decimal.Decimal) error

	// SetStockTx overwrites stock_actual directly (read-modify-write fallback).
	SetStockTx(tx *gorm.DB, tenantID, id uuid.UUID, stock decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("tenant_id = ?", tenantID)

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// sin filtro
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.BajoStock {
		q = q.Where("stock_actual < stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

// ListCatalogoPOS returns active sellable products (producto_terminado|ambos).
func (r *productoRepo) ListCatalogoPOS(ctx context.Context, tenantID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND activo = true AND tipo IN ?", tenantID,
			[]string{model.TipoProductoTerminado, model.TipoAmbos}).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("activo", false).Error
}

func (r *productoRepo) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Producto{}).Error
}

func (r *productoRepo) UpdateCamposTx(tx *gorm.DB, tenantID, id uuid.UUID, campos map[string]interface{}) error {
	return tx.Model(&model.Producto{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(campos).Error
}

func (r *productoRepo) DescontarStockCondTx(tx *gorm.DB, tenantID, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND tenant_id = ? AND stock_actual >= ?", id, tenantID, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productoRepo) IncrementarStockTx(tx *gorm.DB, tenantID, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, tenantID, id uuid.UUID, stock decimal.Decimal) error {
	return tx.Model(&model.Producto{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("stock_actual", stock).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
