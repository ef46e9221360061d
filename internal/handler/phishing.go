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

type PhishingHandler struct {
	phishingService *service.PhishingService
	submitToken     string
}

func NewPhishingHandler(phishingService *service.PhishingService, submitToken string) *PhishingHandler {
	return &PhishingHandler{
		phishingService: phishingService,
		submitToken:     submitToken,
	}
}

// Check classifies a URL for the authenticated user. The service never
// errors out; degraded results come back as success=false with HTTP 200
// so the extension can always parse the body.
func (h *PhishingHandler) Check(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	var req dto.CheckURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	response := h.phishingService.CheckURL(c.Request.Context(), userID, req.URL)
	c.JSON(http.StatusOK, response)
}

// Submit accepts a verdict from the analysis service, authenticated by
// a pre-shared key rather than a user session.
func (h *PhishingHandler) Submit(c *gin.Context) {
	if c.GetHeader(constants.HeaderXAPIKey) != h.submitToken || h.submitToken == "" {
		logger.GetLogger().Warn("Verdict submission with bad api key",
			zap.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   constants.MsgUnauthorized,
		})
		return
	}

	var req dto.SubmitVerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.phishingService.SubmitVerdict(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   apperrors.GetErrorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Blocked lists the caller's block history.
func (h *PhishingHandler) Blocked(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
		return
	}

	events, err := h.phishingService.BlockedEvents(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "Failed to fetch phishing history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    events,
	})
}

// ResolveCode maps a one-time verification code back to its URL.
func (h *PhishingHandler) ResolveCode(c *gin.Context) {
	code := c.Param("code")

	url, err := h.phishingService.ResolveCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}
