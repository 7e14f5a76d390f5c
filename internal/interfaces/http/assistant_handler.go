package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/assistant"
	"github.com/jhoicas/comercio-api/internal/application/dto"
)

// AssistantHandler maneja el asistente conversacional.
type AssistantHandler struct {
	uc *assistant.UseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *assistant.UseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Chat planifica y ejecuta una herramienta a partir del mensaje libre del usuario.
// La identidad del actor sale del token, nunca del cuerpo.
// POST /api/assistant/chat
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var in dto.ChatRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := assistant.Actor{
		UserID:   GetUserID(c),
		ClientID: GetClientID(c),
		Role:     GetRole(c),
	}
	resp, err := h.uc.Chat(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
