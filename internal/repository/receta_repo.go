package repository

import (
	"context"

	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecetaRepository owns recipes and their ingredient lines. The ingredient
// list is replaced wholesale on every edit (DeleteIngredientesTx followed by
// InsertIngredientesTx), never a diff.
type RecetaRepository interface {
	CreateTx(tx *gorm.DB, r *model.Receta) error
	UpdateHeaderTx(tx *gorm.DB, r *model.Receta) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Receta, error)
	// FindByIDTx re-reads a recipe with its lines inside a transaction.
	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Receta, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Receta, error)
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	DeleteIngredientesTx(tx *gorm.DB, recetaID uuid.UUID) error
	InsertIngredientesTx(tx *gorm.DB, lineas []model.RecetaIngrediente) error
	UpdateCostoLineaTx(tx *gorm.DB, recetaID, ingredienteID uuid.UUID, costo decimal.Decimal) error
	UpdateCostosTx(tx *gorm.DB, recetaID uuid.UUID, total, porUnidad decimal.Decimal) error

	// RecetaIDsPorIngrediente returns the distinct ids of recipes that
	// reference the ingredient, tenant-scoped. Feeds the propagation engine.
	RecetaIDsPorIngrediente(ctx context.Context, tenantID, ingredienteID uuid.UUID) ([]uuid.UUID, error)

	DB() *gorm.DB
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) CreateTx(tx *gorm.DB, rec *model.Receta) error {
	return tx.Create(rec).Error
}

func (r *recetaRepo) UpdateHeaderTx(tx *gorm.DB, rec *model.Receta) error {
	return tx.Model(&model.Receta{}).
		Where("id = ? AND tenant_id = ?", rec.ID, rec.TenantID).
		Updates(map[string]interface{}{
			"producto_id":                rec.ProductoID,
			"nombre":                     rec.Nombre,
			"descripcion":                rec.Descripcion,
			"instrucciones":              rec.Instrucciones,
			"rendimiento":                rec.Rendimiento,
			"tiempo_preparacion_minutos": rec.TiempoPreparacionMinutos,
			"activa":                     rec.Activa,
		}).Error
}

func (r *recetaRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Receta, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

func (r *recetaRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Receta, error) {
	return r.find(tx, tenantID, id)
}

func (r *recetaRepo) find(db *gorm.DB, tenantID, id uuid.UUID) (*model.Receta, error) {
	var rec model.Receta
	err := db.
		Preload("Ingredientes", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Ingredientes.Ingrediente").
		Preload("Producto").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recetaRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("tenant_id = ?", tenantID).
		Order("nombre ASC").
		Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Receta{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("activa", false).Error
}

func (r *recetaRepo) DeleteIngredientesTx(tx *gorm.DB, recetaID uuid.UUID) error {
	return tx.Where("receta_id = ?", recetaID).Delete(&model.RecetaIngrediente{}).Error
}

func (r *recetaRepo) InsertIngredientesTx(tx *gorm.DB, lineas []model.RecetaIngrediente) error {
	if len(lineas) == 0 {
		return nil
	}
	return tx.Create(&lineas).Error
}

func (r *recetaRepo) UpdateCostoLineaTx(tx *gorm.DB, recetaID, ingredienteID uuid.UUID, costo decimal.Decimal) error {
	return tx.Model(&model.RecetaIngrediente{}).
		Where("receta_id = ? AND ingrediente_id = ?", recetaID, ingredienteID).
		Update("costo_linea", costo).Error
}

func (r *recetaRepo) UpdateCostosTx(tx *gorm.DB, recetaID uuid.UUID, total, porUnidad decimal.Decimal) error {
	return tx.Model(&model.Receta{}).
		Where("id = ?", recetaID).
		Updates(map[string]interface{}{
			"costo_total":      total,
			"costo_por_unidad": porUnidad,
		}).Error
}

func (r *recetaRepo) RecetaIDsPorIngrediente(ctx context.Context, tenantID, ingredienteID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.RecetaIngrediente{}).
		Distinct("receta_id").
		Where("tenant_id = ? AND ingrediente_id = ?", tenantID, ingredienteID).
		Pluck("receta_id", &ids).Error
	return ids, err
}

func (r *recetaRepo) DB() *gorm.DB { return r.db }
