package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/medingen/catalog_api/internal/utils"
)

// HealthHandler reports service and database connectivity status.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth handles GET /api/health (also mounted at /health)
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.Error(c, 503, "DB_UNAVAILABLE", "Database connection is not working")
		return
	}

	utils.Success(c, 200, "Server and database connection are working", gin.H{
		"status": "ok",
	})
}
