package router

import (
	"time"

	"migapos/internal/config"
	"migapos/internal/handler"
	"migapos/internal/middleware"
	"migapos/internal/repository"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	produccionRepo := repository.NewProduccionRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	historialRepo := repository.NewHistorialCostoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	stockSvc := service.NewStockService(productoRepo, movimientoRepo)
	recetaSvc := service.NewRecetaService(recetaRepo, productoRepo)
	productoSvc := service.NewProductoService(productoRepo, ventaRepo, movimientoRepo, historialRepo, recetaSvc, stockSvc, rdb)
	produccionSvc := service.NewProduccionService(produccionRepo, recetaRepo, productoRepo, stockSvc)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, stockSvc)
	cajaSvc := service.NewCajaService(cajaRepo, ventaRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	recetasH := handler.NewRecetasHandler(recetaSvc)
	produccionH := handler.NewProduccionHandler(produccionSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes, gated per capability
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Inventario: lectura para todos los roles, escritura solo admin
		v1.GET("/productos", middleware.RequirePermission("inventory.view"), productosH.Listar)
		v1.GET("/productos/catalogo", middleware.RequirePermission("inventory.view"), productosH.CatalogoPOS)
		v1.GET("/productos/:id", middleware.RequirePermission("inventory.view"), productosH.Detalle)
		v1.GET("/productos/:id/movimientos", middleware.RequirePermission("inventory.view"), productosH.Movimientos)
		v1.GET("/productos/:id/historial-costos", middleware.RequirePermission("inventory.view"), productosH.HistorialCostos)
		v1.POST("/productos", middleware.RequirePermission("inventory.create"), productosH.Crear)
		v1.PUT("/productos/:id", middleware.RequirePermission("inventory.edit"), productosH.Actualizar)
		v1.PATCH("/productos/:id/stock", middleware.RequirePermission("inventory.adjust_stock"), productosH.AjustarStock)
		v1.DELETE("/productos/:id", middleware.RequirePermission("inventory.delete"), productosH.Eliminar)

		// Recetas: panadero puede ver, solo admin administra
		v1.GET("/recetas", middleware.RequirePermission("recipes.view"), recetasH.Listar)
		v1.GET("/recetas/:id", middleware.RequirePermission("recipes.view"), recetasH.Detalle)
		recetas := v1.Group("/recetas", middleware.RequirePermission("recipes.manage"))
		{
			recetas.POST("", recetasH.Crear)
			recetas.PUT("/:id", recetasH.Actualizar)
			recetas.DELETE("/:id", recetasH.Eliminar)
		}
		v1.POST("/ingredientes/:id/recalcular", middleware.RequirePermission("recipes.manage"), recetasH.Recalcular)

		// Producción: admin y panadero
		prod := v1.Group("/produccion", middleware.RequirePermission("production.manage"))
		{
			prod.POST("", produccionH.Crear)
			prod.POST("/:id/completar", produccionH.Completar)
			prod.POST("/:id/cancelar", produccionH.Cancelar)
		}
		v1.GET("/produccion", middleware.RequirePermission("production.view"), produccionH.Listar)
		v1.GET("/produccion/:id", middleware.RequirePermission("production.view"), produccionH.Detalle)

		// Ventas: cajero y admin venden, solo admin anula
		v1.POST("/ventas", middleware.RequirePermission("sales.create"), ventasH.Crear)
		v1.GET("/ventas", middleware.RequirePermission("sales.view_own"), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequirePermission("sales.view_own"), ventasH.Detalle)
		v1.POST("/ventas/:id/anular", middleware.RequirePermission("sales.annul"), ventasH.Anular)

		// Caja
		caja := v1.Group("/caja", middleware.RequirePermission("sales.create"))
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/actual", cajaH.Actual)
		}
		v1.GET("/caja/:id/resumen", middleware.RequirePermission("sales.view_all"), cajaH.Resumen)
		v1.GET("/caja/historial", middleware.RequirePermission("sales.view_all"), cajaH.Historial)

		// Categorías: lectura general, escritura admin
		v1.GET("/categorias", middleware.RequirePermission("inventory.view"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequirePermission("inventory.edit"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		// Usuarios: solo admin
		usuarios := v1.Group("/usuarios", middleware.RequirePermission("users.manage"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	return r
}
