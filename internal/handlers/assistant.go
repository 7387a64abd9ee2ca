package handlers

import (
	"caregate/internal/logging"
	"caregate/internal/middleware"
	"caregate/internal/models"
	"caregate/internal/orchestrator"

	"github.com/gofiber/fiber/v2"
)

// AssistantHandler handles natural-language operator queries
type AssistantHandler struct {
	orc *orchestrator.Orchestrator
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(orc *orchestrator.Orchestrator) *AssistantHandler {
	return &AssistantHandler{orc: orc}
}

// Query classifies and executes an operator prompt
// POST /assistant/query
func (h *AssistantHandler) Query(c *fiber.Ctx) error {
	var req models.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.SessionID) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id must be at least 3 characters",
		})
	}
	if len(req.Prompt) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "prompt must be at least 2 characters",
		})
	}

	res := h.orc.Handle(c.Context(), req.SessionID, req.Prompt, middleware.GrantedScopes(c))

	logging.WithSession(req.SessionID, string(res.Intent)).Info("assistant query handled",
		"state", string(res.State),
		"source", res.Source,
	)

	// Failures are part of the structured response shape, not HTTP errors.
	return c.JSON(models.QueryResponse{
		SessionID: req.SessionID,
		Intent:    res.Intent,
		Success:   res.Success(),
		Source:    res.Source,
		Message:   res.Message,
		Data:      res.Data,
	})
}
