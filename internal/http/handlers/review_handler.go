package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "collegecart/internal/log"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewReq struct {
	SellerID  string `json:"sellerId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	sellerID, ok := validate.ID(req.SellerID)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing sellerId")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing productId")
	}
	if !validate.Rating(req.Rating) {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > 500 {
		comment = comment[:500]
	}

	rv, err := h.Reviews.Create(currentUser(c).ID, sellerID, productID, req.Rating, comment)
	if err != nil {
		return err
	}
	applog.Audit(c, "review.create", map[string]any{"review_id": rv.ID, "seller_id": sellerID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": rv})
}

func (h *ReviewHandler) ForProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	reviews, err := h.Reviews.ForProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ReviewHandler) ForSeller(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	reviews, err := h.Reviews.ForSeller(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}
