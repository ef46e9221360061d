package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/middleware"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		auth.POST("/signup",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.SignupRequest{} }),
			r.authHandler.Signup,
		)
		auth.POST("/login",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.LoginRequest{} }),
			r.authHandler.Login,
		)

		protected := auth.Group("")
		protected.Use(middleware.RequireSession(r.sessionService))
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.GET("/me", r.authHandler.Me)
			protected.POST("/me",
				r.validMw.ValidateRequestBody(func() interface{} { return &dto.UpdateProfileRequest{} }),
				r.authHandler.UpdateMe,
			)
		}
	}
}
