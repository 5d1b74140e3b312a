package infra

import (
	"fmt"

	"migapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for every model, plus the idempotent SQL patches AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.Receta{},
		&model.RecetaIngrediente{},
		&model.OrdenProduccion{},
		&model.ArqueoCaja{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.MovimientoStock{},
		&model.HistorialCosto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Una sola línea por ingrediente dentro de una receta; la edición
		// reemplaza el set completo, así que el par debe ser único.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_receta_ingrediente_unico') THEN
		    CREATE UNIQUE INDEX idx_receta_ingrediente_unico
		        ON receta_ingredientes (receta_id, ingrediente_id);
		  END IF;
		END $$`,
		// Un arqueo abierto por usuario.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_arqueo_abierto_por_usuario') THEN
		    CREATE UNIQUE INDEX idx_arqueo_abierto_por_usuario
		        ON arqueos_caja (tenant_id, usuario_id)
		        WHERE estado = 'abierto';
		  END IF;
		END $$`,
		// Consulta frecuente del listado de movimientos por producto.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_producto_fecha') THEN
		    CREATE INDEX idx_movimientos_producto_fecha
		        ON movimientos_stock (producto_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
