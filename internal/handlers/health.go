package handlers

import (
	"time"

	"caregate/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	cache *cache.Store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *cache.Store) *HealthHandler {
	return &HealthHandler{cache: store}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"cached_keys": h.cache.Len(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}
