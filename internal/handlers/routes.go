package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authMiddleware "picxury_api/internal/middleware"
	"picxury_api/internal/services"
)

// Dependencies are the collaborators the HTTP API is built from
type Dependencies struct {
	DB       *gorm.DB
	Cache    *services.RedisCache
	Store    services.FileStore
	Verifier authMiddleware.TokenVerifier
	Queue    services.TaskEnqueuer
	Payments services.PaymentGatewayClient

	AppURL           string
	CatalogCacheTTL  time.Duration
	PhotoServiceID   uint
	MaxLoginAttempts int
	LoginWindow      time.Duration
}

// RegisterRoutes mounts the public and photographer API on e
func RegisterRoutes(e *echo.Echo, deps Dependencies) {
	var limiter services.AttemptLimiter
	if deps.Cache != nil {
		limiter = deps.Cache
	}

	albumService := services.NewAlbumService(deps.DB, deps.Store, limiter, services.AlbumOptions{
		PhotoServiceID:   deps.PhotoServiceID,
		MaxLoginAttempts: deps.MaxLoginAttempts,
		LoginWindow:      deps.LoginWindow,
	})

	sessionHandler := NewPhotoSessionHandler(services.NewPhotoSessionService(deps.DB), deps.Store)
	albumHandler := NewAlbumHandler(albumService)
	notificationHandler := NewNotificationHandler(services.NewNotificationService(deps.DB, deps.Queue))
	clientHandler := NewClientHandler(services.NewClientService(deps.DB))
	financeHandler := NewFinanceHandler(services.NewFinanceService(deps.DB))
	paymentHandler := NewPaymentHandler(services.NewPaymentService(deps.DB, deps.Payments), deps.AppURL)
	catalogHandler := NewCatalogHandler(deps.DB, deps.Cache, deps.CatalogCacheTTL)
	contactHandler := NewContactHandler(deps.Queue)

	api := e.Group("/api")

	// Public routes
	api.POST("/photo-sessions", sessionHandler.Book)
	api.PUT("/photo-sessions/:photoSessionId/confirm-photo-selection", sessionHandler.ConfirmPhotoSelection)
	api.POST("/album", albumHandler.Login)
	api.GET("/album/:albumId/photos/select", albumHandler.SelectPhotos)
	api.PUT("/album/:albumId/photos/:photoId/select", albumHandler.UpdatePhotoSelection)
	api.POST("/album/:albumId/payments", paymentHandler.InitiatePayment)
	api.POST("/payments/midtrans/callback", paymentHandler.MidtransCallback)
	api.GET("/photo-session-types", catalogHandler.SessionTypes)
	api.GET("/photographer/:photographerId/services", catalogHandler.PhotographerServices)
	api.POST("/contact-us", contactHandler.Send)

	// Photographer routes
	protected := api.Group("/photographer/:photographerId",
		authMiddleware.RequireAuth(deps.Verifier, deps.DB),
		authMiddleware.RequireOwnPhotographer("photographerId"),
	)

	protected.GET("/photo-sessions", sessionHandler.List)
	protected.PUT("/photo-sessions/:photoSessionId/update-general-info", sessionHandler.UpdateGeneralInfo)
	protected.PUT("/photo-sessions/:photoSessionId/update-date-time-location", sessionHandler.UpdateDateAndLocation)
	protected.PUT("/photo-sessions/:photoSessionId/cancel", sessionHandler.Cancel)
	protected.PUT("/photo-sessions/:photoSessionId/restore", sessionHandler.Restore)

	protected.GET("/notifications", notificationHandler.List)
	protected.GET("/notifications/:notificationId", notificationHandler.Show)
	protected.PUT("/notifications/:notificationId/decision", notificationHandler.Decide)

	protected.GET("/clients", clientHandler.List)
	protected.PUT("/clients/:clientId/update", clientHandler.Update)

	protected.PUT("/albums/:albumId/update-code", albumHandler.UpdateCode)
	protected.GET("/album/:albumId/photos", albumHandler.Show)
	protected.POST("/album/:albumId/photos", albumHandler.UploadPhoto)
	protected.DELETE("/album/:albumId/photos", albumHandler.RemovePhoto)

	protected.GET("/financial-movements", financeHandler.Overview)
	protected.POST("/financial-movements", financeHandler.Create)
	protected.DELETE("/financial-movements/:movementId", financeHandler.Delete)
}
