package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/config"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers"
	"github.com/ahavlova/portfolio-backend/internal/http/middleware"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	sessions *service.SessionManager,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	galleryHandler *handlers.GalleryHandler,
	selectionHandler *handlers.SelectionHandler,
	mediaHandler *handlers.MediaHandler,
	invoiceHandler *handlers.InvoiceHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.Session(sessions))
	r.Use(middleware.Locale(cfg.DefaultLocale))
	// Страницы админки закрыты на уровне прокси через эти редиректы.
	for _, l := range []string{"cs", "en"} {
		r.Use(middleware.PageGate("/"+l+"/admin", "/"+l+"/login"))
	}

	r.GET("/health", healthHandler.Check)

	// Локальное хранилище: приём прямых загрузок и раздача файлов.
	r.PUT("/media/upload", mediaHandler.DirectPut)
	r.GET("/media/*filepath", mediaHandler.ServeFile)

	api := r.Group("/api")

	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/login", authRateLimit, authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/session", authHandler.Session)

	// Публичный сайт
	api.GET("/projects", projectHandler.PublicTree)
	api.GET("/projects/:slug", projectHandler.GetBySlug)

	// Клиентские галереи по ссылке. Фотографии видны только знающим ключ,
	// отметки привязаны к идентификатору клиента из браузера.
	clientRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.GET("/galleries/:hash", clientRateLimit, galleryHandler.GetByShareHash)
	api.GET("/selections", clientRateLimit, selectionHandler.Seed)
	api.POST("/selections/like", clientRateLimit, selectionHandler.ToggleLike)
	api.POST("/selections/comment", clientRateLimit, selectionHandler.Comment)

	// Админка
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/projects", projectHandler.AdminTree)
		admin.POST("/projects", projectHandler.Create)
		admin.PATCH("/projects/:id/name", projectHandler.Rename)
		admin.PUT("/projects/order", projectHandler.Reorder)
		admin.PUT("/projects/:id/parent", projectHandler.Move)
		admin.POST("/projects/:id/visibility", projectHandler.ToggleVisibility)
		admin.PATCH("/projects/:id/title-style", projectHandler.SetTitleStyle)
		admin.PATCH("/projects/:id/descriptions", projectHandler.SetDescriptions)
		admin.PATCH("/projects/:id/main-image", projectHandler.SetMainImage)
		admin.DELETE("/projects/:id", projectHandler.Delete)
		admin.POST("/projects/:id/photos", mediaHandler.CommitProjectPhotos)
		admin.DELETE("/projects/:id/photos", projectHandler.DeletePhoto)

		admin.POST("/galleries", galleryHandler.Create)
		admin.GET("/galleries", galleryHandler.List)
		admin.GET("/galleries/:id", galleryHandler.GetByID)
		admin.DELETE("/galleries/:id", galleryHandler.Delete)
		admin.POST("/galleries/:id/photos", galleryHandler.CommitPhotos)
		admin.DELETE("/galleries/photos", galleryHandler.DeletePhoto)
		admin.GET("/galleries/:id/selections", galleryHandler.Selections)
		admin.GET("/galleries/:id/export", galleryHandler.LightroomExport)

		admin.POST("/media/upload-urls", mediaHandler.SignUploads)
		admin.POST("/media/upload", mediaHandler.UploadBatch)

		admin.POST("/invoices", invoiceHandler.Assemble)
		admin.POST("/invoices/qr", invoiceHandler.PaymentQR)

		admin.GET("/ws", wsHandler.Handle)
	}

	return r
}
