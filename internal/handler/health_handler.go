package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/warefront/catalog_api/internal/utils"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth pings the database and reports overall status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "up"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "down"
	}

	code := 200
	if dbStatus == "down" {
		code = 503
	}
	utils.Success(c, code, "Health check", gin.H{
		"status":   "ok",
		"database": dbStatus,
	})
}
