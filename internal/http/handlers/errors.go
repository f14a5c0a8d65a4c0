package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"collegecart/internal/domain"
	applog "collegecart/internal/log"
)

// ErrorHandler maps the service error taxonomy onto HTTP statuses with a
// flat {"message": ...} body. Internal detail is echoed only outside
// production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := "Something went wrong. Please try again."

		var ve *domain.ValidationError
		var fe *fiber.Error
		switch {
		case errors.As(err, &ve):
			status, msg = fiber.StatusBadRequest, ve.Error()
		case errors.Is(err, domain.ErrNotFound):
			status, msg = fiber.StatusNotFound, "not found"
		case errors.Is(err, domain.ErrInvalidOTP):
			status, msg = fiber.StatusBadRequest, "invalid OTP"
		case errors.Is(err, domain.ErrExpiredOTP):
			status, msg = fiber.StatusBadRequest, "OTP expired"
		case errors.Is(err, domain.ErrForbidden):
			status, msg = fiber.StatusForbidden, "forbidden"
		case errors.Is(err, domain.ErrConflict):
			status, msg = fiber.StatusConflict, "conflict"
		case errors.Is(err, domain.ErrBadCreds):
			status, msg = fiber.StatusUnauthorized, "invalid email or password"
		case errors.Is(err, domain.ErrLocked):
			status, msg = fiber.StatusLocked, "account temporarily locked"
		case errors.As(err, &fe):
			status, msg = fe.Code, fe.Message
		}

		if status >= 500 {
			applog.Error(c, "server.error", err, nil)
		}

		body := fiber.Map{"message": msg}
		if !production && status >= 500 {
			body["detail"] = err.Error()
		}
		return c.Status(status).JSON(body)
	}
}
