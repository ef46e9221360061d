package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/pkg/redis"
)

type HealthHandler struct {
	db          *gorm.DB
	redisClient redis.Client
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db *gorm.DB, redisClient redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// HealthCheck reports database and cache connectivity. The cache being
// down degrades the status but the service stays up.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	if sqlDB, err := h.db.DB(); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = HealthCheck{Status: "down", Message: err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = HealthCheck{Status: "down", Message: err.Error()}
	} else {
		response.Checks["database"] = HealthCheck{Status: "up"}
	}

	if !h.redisClient.IsEnabled() {
		response.Checks["cache"] = HealthCheck{Status: "disabled"}
	} else if err := h.redisClient.Ping(ctx); err != nil {
		if response.Status == "healthy" {
			response.Status = "degraded"
		}
		response.Checks["cache"] = HealthCheck{Status: "down", Message: err.Error()}
	} else {
		response.Checks["cache"] = HealthCheck{Status: "up"}
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
