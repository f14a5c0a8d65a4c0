package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "collegecart/internal/log"
	"collegecart/internal/repos"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type createOrderReq struct {
	Items []services.LineInput `json:"items"`
}

// Create places an order from explicit line items. The delivery code is
// dispatched through the notification sink and deliberately absent from
// the response body.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req createOrderReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	u := currentUser(c)
	order, err := h.Order.Create(u.ID, req.Items)
	if err != nil {
		applog.Security(c, "order.create.fail", map[string]any{"error": err.Error()})
		return err
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id": order.ID, "total": order.Total, "items": len(order.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":         order,
		"transactionId": order.TransactionID,
	})
}

type verifyReq struct {
	OrderID string `json:"orderId"`
	OTP     string `json:"otp"`
}

func parseVerify(c *fiber.Ctx) (string, string, error) {
	var req verifyReq
	if err := c.BodyParser(&req); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	id, ok := validate.ID(req.OrderID)
	if !ok {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "missing orderId")
	}
	otp, ok := validate.OTP(req.OTP)
	if !ok {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "otp must be 6 digits")
	}
	return id, otp, nil
}

// Verify is the generic redemption path: buyer or any participating
// seller may close out the whole order.
func (h *OrderHandler) Verify(c *fiber.Ctx) error {
	id, otp, err := parseVerify(c)
	if err != nil {
		return err
	}
	order, err := h.Order.Verify(id, otp, services.VerifyScope{ActorID: currentUser(c).ID})
	if err != nil {
		applog.Security(c, "order.verify.fail", map[string]any{"order_id": id})
		return err
	}
	applog.Audit(c, "order.verify", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"order": order})
}

// CompleteDelivery is the seller-scoped path: marks only the caller's
// line items and promotes the order when everything is delivered.
func (h *OrderHandler) CompleteDelivery(c *fiber.Ctx) error {
	id, otp, err := parseVerify(c)
	if err != nil {
		return err
	}
	order, err := h.Order.Verify(id, otp, services.VerifyScope{
		SellerScoped: true,
		ActorID:      currentUser(c).ID,
	})
	if err != nil {
		applog.Security(c, "order.delivery.fail", map[string]any{"order_id": id})
		return err
	}
	applog.Audit(c, "order.delivery.complete", map[string]any{
		"order_id": id, "status": order.Status,
	})
	return c.JSON(fiber.Map{"order": order})
}

type regenerateReq struct {
	OrderID string `json:"orderId"`
}

func (h *OrderHandler) RegenerateOTP(c *fiber.Ctx) error {
	var req regenerateReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	id, ok := validate.ID(req.OrderID)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing orderId")
	}
	order, err := h.Order.Regenerate(id, currentUser(c).ID)
	if err != nil {
		applog.Security(c, "order.otp.regenerate.fail", map[string]any{"order_id": id})
		return err
	}
	applog.Audit(c, "order.otp.regenerate", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"order": order})
}

func (h *OrderHandler) BuyerOrders(c *fiber.Ctx) error {
	orders, err := h.Order.BuyerOrders(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) SellerOrders(c *fiber.Ctx) error {
	orders, err := h.Order.SellerOrders(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) PendingDeliveries(c *fiber.Ctx) error {
	orders, err := h.Order.PendingDeliveries(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deliveries": orders})
}

func (h *OrderHandler) DeliveryHistory(c *fiber.Ctx) error {
	f := repos.SellerFilter{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := validate.OrderStatus(raw)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		f.Status = status
	}
	orders, err := h.Order.DeliveryHistory(currentUser(c).ID, f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deliveries": orders})
}

func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Order.Stats(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
