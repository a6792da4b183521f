package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Thanhbi2612/Dreamlens/internal/dto"
	"github.com/Thanhbi2612/Dreamlens/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Version reported by the root endpoint
const Version = "1.0.0"

// HealthHandler liveness endpoints
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates the health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root service banner
func (h *HealthHandler) Root(c *gin.Context) {
	utils.OK(c, gin.H{
		"message": "Dreamlens backend is running",
		"version": Version,
		"status":  "healthy",
	})
}

// Health pings the database
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		utils.JSON(c, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	utils.OK(c, dto.HealthResponse{Status: "healthy", Database: "connected"})
}
