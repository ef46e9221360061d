package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/middleware"
)

func (r *Router) notificationRoutes(version *gin.RouterGroup) {
	notifications := version.Group("/notifications")
	{
		notifications.Use(middleware.RequireSession(r.sessionService))
		{
			notifications.GET("", r.notificationHandler.List)
			notifications.POST("/register",
				r.validMw.ValidateRequestBody(func() interface{} { return &dto.RegisterDeviceRequest{} }),
				r.notificationHandler.RegisterDevice,
			)
		}
	}
}
