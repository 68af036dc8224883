package router

import (
	"github.com/gin-gonic/gin"

	"vendora/internal/config"
	"vendora/internal/domain"
	"vendora/internal/handler"
	"vendora/internal/middleware"
	"vendora/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	catalogH *handler.CatalogHandler,
	productH *handler.ProductHandler,
	draftH *handler.DraftHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
	mediaH *handler.MediaHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Public media delivery
	r.GET("/"+cfg.Storage.FilesPrefix+"/*key", mediaH.Serve)
	r.GET("/temp/:id/:filename", mediaH.RedirectTemp)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Public browsing
	v1.GET("/products", productH.List)
	v1.GET("/products/:id", productH.GetByID)
	v1.GET("/categories", catalogH.ListCategories)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Cart and checkout
	cart := protected.Group("/cart")
	cart.GET("", cartH.Get)
	cart.PUT("/items", cartH.AddItem)
	cart.DELETE("/items/:productID", cartH.RemoveItem)
	cart.DELETE("", cartH.Clear)

	orders := protected.Group("/orders")
	orders.POST("/checkout", orderH.Checkout)
	orders.GET("", orderH.ListMine)
	orders.GET("/:id", orderH.GetByID)

	// Admin routes - marketplace management
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))

	admin.POST("/suppliers", catalogH.CreateSupplier)
	admin.GET("/suppliers", catalogH.ListSuppliers)
	admin.GET("/suppliers/:id", catalogH.GetSupplier)
	admin.PUT("/suppliers/:id", catalogH.UpdateSupplier)
	admin.DELETE("/suppliers/:id", catalogH.DeleteSupplier)
	admin.GET("/suppliers/:id/catalogs", catalogH.ListCatalogs)
	admin.GET("/suppliers/:id/drafts", draftH.ListBySupplier)

	admin.POST("/catalogs", catalogH.CreateCatalog)
	admin.DELETE("/catalogs/:id", catalogH.DeleteCatalog)

	admin.POST("/categories", catalogH.CreateCategory)
	admin.DELETE("/categories/:id", catalogH.DeleteCategory)

	admin.PUT("/products/:id", productH.Update)
	admin.DELETE("/products/:id", productH.Delete)
	admin.PUT("/products/:id/images/:imageID/main", productH.SetMainImage)
	admin.DELETE("/products/:id/images/:imageID", productH.DeleteImage)

	admin.POST("/drafts", draftH.Create)
	admin.GET("/drafts/:id", draftH.GetByID)
	admin.PUT("/drafts/:id", draftH.Update)
	admin.POST("/drafts/:id/images", draftH.UploadImages)
	admin.POST("/drafts/:id/publish", draftH.Publish)
	admin.POST("/drafts/:id/discard", draftH.Discard)

	admin.POST("/storage/cleanup", draftH.CleanupOrphans)
	admin.GET("/orders", orderH.ListAll)
	admin.GET("/orders/export", orderH.Export)
	admin.PUT("/orders/:id/status", orderH.UpdateStatus)

	return r
}
