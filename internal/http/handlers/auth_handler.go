package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "collegecart/internal/log"
	"collegecart/internal/services"
	"collegecart/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Hostel     string `json:"hostel"`
	RoomNumber string `json:"roomNumber"`
	Phone      string `json:"phone"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return fiber.NewError(fiber.StatusBadRequest, "invalid email")
	}
	if !validate.Password(req.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "password must be 8-64 chars with upper, lower and digit")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid name")
	}
	hostel, ok := validate.Hostel(req.Hostel)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hostel")
	}
	room, ok := validate.Room(req.RoomNumber)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid room number")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone")
	}

	u, err := h.Auth.Register(email, req.Password, name, hostel, room, phone)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}
	token, u, err := h.Auth.Login(email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"token": token, "user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := bearerToken(c); tok != "" {
		_ = h.Auth.Logout(tok)
	}
	applog.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}

type profileReq struct {
	Name       string `json:"name"`
	Hostel     string `json:"hostel"`
	RoomNumber string `json:"roomNumber"`
	Phone      string `json:"phone"`
}

// UpdateProfile edits the caller's profile. Placed orders keep their
// address snapshot; this only affects future checkouts.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid name")
	}
	hostel, ok := validate.Hostel(req.Hostel)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hostel")
	}
	room, ok := validate.Room(req.RoomNumber)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid room number")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone")
	}
	out, err := h.Auth.UpdateProfile(u.ID, name, hostel, room, phone)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.profile.update", nil)
	return c.JSON(fiber.Map{"user": out})
}
