package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/config"
	"github.com/phishguard/backend/internal/handler"
	"github.com/phishguard/backend/internal/middleware"
	"github.com/phishguard/backend/internal/service"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	phishingHandler     *handler.PhishingHandler
	notificationHandler *handler.NotificationHandler
	healthHandler       *handler.HealthHandler

	sessionService *service.SessionService
	validMw        *middleware.ValidationMiddleware
	Config         *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	phishing *handler.PhishingHandler,
	notification *handler.NotificationHandler,
	health *handler.HealthHandler,

	sessionService *service.SessionService,
	validMw *middleware.ValidationMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         auth,
		userHandler:         user,
		phishingHandler:     phishing,
		notificationHandler: notification,
		healthHandler:       health,

		sessionService: sessionService,
		validMw:        validMw,
		Config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestContextMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RequestTimeoutMiddleware(r.Config.App.Timeout))
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.phishingRoutes(v1)
			r.notificationRoutes(v1)
		}
	}

	return router
}
