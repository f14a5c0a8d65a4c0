package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "collegecart/internal/log"
	"collegecart/internal/services"
)

type AssistantHandler struct {
	Assistant *services.AssistantService
}

type askReq struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	var req askReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" || len(msg) > 2000 {
		return fiber.NewError(fiber.StatusBadRequest, "message must be 1-2000 characters")
	}
	reply, err := h.Assistant.Ask(c.UserContext(), msg)
	if err != nil {
		if errors.Is(err, services.ErrAssistantUnavailable) {
			applog.Error(c, "assistant.upstream.fail", err, nil)
			return fiber.NewError(fiber.StatusBadGateway, "assistant unavailable")
		}
		return err
	}
	return c.JSON(fiber.Map{"reply": reply})
}
