package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/internal/api/handlers"
	"github.com/imoveis/catalog/internal/api/middleware"
	"github.com/imoveis/catalog/internal/platform/metrics"
)

// LocalUploadsPath is where images written by media.LocalStore are served.
const LocalUploadsPath = "/uploads"

type Router struct {
	engine         *gin.Engine
	authMiddleware *middleware.AuthMiddleware
	authHandler    *handlers.AuthHandler
	listingHandler *handlers.ListingHandler
	contactHandler *handlers.ContactHandler
	uploadHandler  *handlers.UploadHandler
	log            *zap.Logger
	metrics        *metrics.Metrics
	uploadsDir     string
}

func NewRouter(
	issuer middleware.SessionIssuer,
	authHandler *handlers.AuthHandler,
	listingHandler *handlers.ListingHandler,
	contactHandler *handlers.ContactHandler,
	uploadHandler *handlers.UploadHandler,
	log *zap.Logger,
	m *metrics.Metrics,
) *Router {
	return &Router{
		authMiddleware: middleware.NewAuthMiddleware(issuer),
		authHandler:    authHandler,
		listingHandler: listingHandler,
		contactHandler: contactHandler,
		uploadHandler:  uploadHandler,
		log:            log,
		metrics:        m,
	}
}

// ServeLocalUploads exposes a directory of uploaded images under
// LocalUploadsPath.
func (r *Router) ServeLocalUploads(dir string) {
	r.uploadsDir = dir
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.ClientInfo())
	r.engine.Use(middleware.RequestLogger(r.log, r.metrics))
	r.engine.Use(middleware.ErrorHandler())

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
	if r.uploadsDir != "" {
		r.engine.Static(LocalUploadsPath, r.uploadsDir)
	}

	api := r.engine.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	listings := api.Group("/listings")
	{
		listings.GET("", r.listingHandler.Search)
		listings.GET("/types", r.listingHandler.Types)
		listings.GET("/:id", r.listingHandler.Get)
	}

	// Public contact form
	contact := api.Group("/contact")
	{
		contact.GET("/draft", r.contactHandler.Draft)
		contact.POST("", r.contactHandler.Submit)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/auth/me", r.authHandler.Me)

		admin := protected.Group("/admin")
		{
			admin.GET("/listings", r.listingHandler.List)
			admin.POST("/listings", r.listingHandler.Create)
			admin.GET("/listings/:id", r.listingHandler.Get)
			admin.PUT("/listings/:id", r.listingHandler.Update)
			admin.DELETE("/listings/:id", r.listingHandler.Delete)

			admin.GET("/contacts", r.contactHandler.List)
			admin.POST("/contacts/:id/read", r.contactHandler.MarkRead)
			admin.DELETE("/contacts/:id", r.contactHandler.Delete)

			if r.uploadHandler != nil {
				admin.POST("/uploads", r.uploadHandler.Upload)
			}
		}
	}
}
