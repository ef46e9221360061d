package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/middleware"
	"github.com/phishguard/backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile returns the caller's identity and trusted contacts.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"user":          profile.User,
		"trusted_users": profile.TrustedUsers,
	})
}

func (h *UserHandler) ListTrusted(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	trusted, err := h.userService.ListTrusted(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"trusted_users": trusted,
	})
}

func (h *UserHandler) AddTrusted(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	var req dto.AddTrustedUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.userService.AddTrusted(c.Request.Context(), userID, req.TrustedUserEmail); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Trusted user added"))
}

func (h *UserHandler) RemoveTrusted(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	trustedID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", ""))
		return
	}

	if err := h.userService.RemoveTrusted(c.Request.Context(), userID, uint(trustedID)); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Trusted user removed"))
}
