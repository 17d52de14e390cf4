package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gastoncarriquiry/menu-maker/store"
	"github.com/gastoncarriquiry/menu-maker/version"
)

// HealthHandler reports process liveness and store connectivity.
type HealthHandler struct {
	store store.UserStore
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(st store.UserStore) *HealthHandler {
	return &HealthHandler{store: st}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	database := "connected"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		database = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Menu Maker Backend is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}

// Welcome handles GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Menu Maker API",
		"version": version.String(),
	})
}
