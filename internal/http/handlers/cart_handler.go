package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "collegecart/internal/log"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cart": cv})
}

type cartAddReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing productId")
	}
	if err := h.Cart.Add(currentUser(c).ID, id, req.Quantity); err != nil {
		return err
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusCreated)
}

type cartQtyReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQty(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	var req cartQtyReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Cart.UpdateQty(currentUser(c).ID, id, req.Quantity); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	if err := h.Cart.Remove(currentUser(c).ID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(currentUser(c).ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
