package handlers

import (
	"log"
	"time"

	"caregate/internal/models"
	"caregate/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler issues development tokens
type AuthHandler struct {
	issuer *auth.TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// DevToken issues a short-lived all-scopes token for local development.
// Registered only outside production.
// GET /auth/dev-token
func (h *AuthHandler) DevToken(c *fiber.Ctx) error {
	token, err := h.issuer.Issue("demo-operator", models.AllScopes, 4*time.Hour)
	if err != nil {
		log.Printf("❌ [AUTH] Failed to issue dev token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}
