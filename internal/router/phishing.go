package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/middleware"
)

func (r *Router) phishingRoutes(version *gin.RouterGroup) {
	// Submission is authenticated by pre-shared key inside the handler,
	// not by user session: it is called by the analysis service.
	version.POST("/submit-phishing",
		r.validMw.ValidateRequestBody(func() interface{} { return &dto.SubmitVerdictRequest{} }),
		r.phishingHandler.Submit,
	)

	protected := version.Group("")
	protected.Use(middleware.RequireSession(r.sessionService))
	{
		protected.POST("/check-phishing",
			r.validMw.ValidateRequestBody(func() interface{} { return &dto.CheckURLRequest{} }),
			r.phishingHandler.Check,
		)
		protected.GET("/blocked-phishing", r.phishingHandler.Blocked)
		protected.GET("/phishing-code/:code", r.phishingHandler.ResolveCode)
	}
}
