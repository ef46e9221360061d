package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/middleware"
	"github.com/phishguard/backend/internal/service"
	"github.com/phishguard/backend/pkg/logger"
)

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	response, err := h.userService.Signup(c.Request.Context(), req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Warn("Signup failed",
			zap.String("email", req.Email),
			zap.Int("http_status", status),
			zap.Error(err),
		)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	logger.LogAuth(response.User.ID, "signup", c.ClientIP(), true)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"session": response.Token,
		"user":    response.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	response, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.LogAuth(0, "login", c.ClientIP(), false)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	logger.LogAuth(response.User.ID, "login", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": response.Token,
		"user":    response.User,
	})
}

// Logout evicts the cached session entry; the durable session row is
// retained as history.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)

	if err := h.sessionService.Invalidate(c.Request.Context(), token); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to log out", ""))
		return
	}

	if userID, ok := middleware.CurrentUserID(c); ok {
		logger.LogAuth(userID, "logout", c.ClientIP(), true)
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logged out"))
}

// UpdateMe applies partial profile changes for the authenticated user.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.GetLogger().Warn("Profile update failed",
			zap.Uint("user_id", userID),
			zap.Int("http_status", status),
			zap.Error(err),
		)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
