package router

import (
	"time"

	"forrapos/internal/config"
	"forrapos/internal/handler"
	"forrapos/internal/middleware"
	"forrapos/internal/model"
	"forrapos/internal/repository"
	"forrapos/internal/service"
	"forrapos/internal/worker"

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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	presentacionRepo := repository.NewPresentacionRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, movimientoRepo)
	presentacionSvc := service.NewPresentacionService(presentacionRepo, productoRepo, rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, presentacionRepo, movimientoRepo, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, presentacionRepo, productoRepo, movimientoRepo, usuarioRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	presentacionesH := handler.NewPresentacionesHandler(presentacionSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	consultaH := handler.NewConsultaPreciosHandler(presentacionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.POST("/v1/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Price check by scan code — open so the floor scanner works without login
	r.GET("/v1/precio/:codigo", consultaH.PorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		vendedores := middleware.RequireRole(model.RolAdmin, model.RolVendedor)
		soloAdmin := middleware.RequireRole(model.RolAdmin)

		v1.POST("/ventas", vendedores, ventasH.RegistrarVenta)
		v1.GET("/ventas", vendedores, ventasH.ListarVentas)
		v1.GET("/ventas/productos", vendedores, ventasH.Catalogo)
		v1.GET("/ventas/:id", vendedores, ventasH.ObtenerVenta)

		v1.GET("/productos", vendedores, productosH.Listar)
		v1.GET("/productos/:id", vendedores, productosH.Obtener)
		v1.GET("/productos/:id/presentaciones", vendedores, presentacionesH.ListarPorProducto)
		prods := v1.Group("/productos", soloAdmin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		pres := v1.Group("/presentaciones", soloAdmin)
		{
			pres.POST("", presentacionesH.Crear)
			pres.PUT("/:id", presentacionesH.Actualizar)
			pres.DELETE("/:id", presentacionesH.Eliminar)
		}

		inv := v1.Group("/inventario", soloAdmin)
		{
			inv.POST("/ajustar", inventarioH.AjustarStock)
		}
		v1.GET("/inventario/movimientos", vendedores, inventarioH.ListarMovimientos)

		v1.GET("/categorias", vendedores, categoriasH.Listar)
		v1.POST("/categorias", soloAdmin, categoriasH.Crear)

		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
		}
	}

	return r
}
