package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/middleware"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	me := version.Group("/me")
	{
		me.Use(middleware.RequireSession(r.sessionService))
		{
			me.GET("", r.userHandler.Profile)

			me.GET("/trusted-users", r.userHandler.ListTrusted)
			me.POST("/trusted-users",
				r.validMw.ValidateRequestBody(func() interface{} { return &dto.AddTrustedUserRequest{} }),
				r.userHandler.AddTrusted,
			)
			me.DELETE("/trusted-users/:id", r.userHandler.RemoveTrusted)
		}
	}
}
