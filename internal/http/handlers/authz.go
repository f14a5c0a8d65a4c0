package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"collegecart/internal/domain"
	applog "collegecart/internal/log"
	"collegecart/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// AttachUser resolves the bearer token to a user for logging and
// optional-auth routes. It never rejects.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if u, err := auth.CurrentUser(tok); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, _ := c.Locals("user").(*domain.User); u != nil {
			return c.Next()
		}
		tok := bearerToken(c)
		if tok == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
		}
		u, err := auth.CurrentUser(tok)
		if err != nil || u == nil {
			applog.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
