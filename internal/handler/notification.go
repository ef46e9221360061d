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

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid limit", ""))
			return
		}
		limit = parsed
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
	})
}

func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	var req dto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.notificationService.RegisterDevice(c.Request.Context(), userID, req.Token); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Device registered"))
}
