package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/service"
	ctxutil "github.com/phishguard/backend/pkg/context"
)

// RequireSession validates the bearer token through the session
// manager and attaches the resolved user to the request. Everything
// downstream can assume an authenticated user.
func RequireSession(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.MsgUnauthorized})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		token := parts[len(parts)-1]

		user, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": constants.MsgUnauthorized})
			return
		}

		c.Set(constants.GinKeyUser, user)
		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyToken, token)

		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID))

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireSession.
func CurrentUser(c *gin.Context) (*dto.UserResponse, bool) {
	value, exists := c.Get(constants.GinKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*dto.UserResponse)
	return user, ok
}

// CurrentUserID returns the authenticated user's ID.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// SessionToken returns the raw token the request authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(constants.GinKeyToken)
}
