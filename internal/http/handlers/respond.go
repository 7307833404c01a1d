package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"paddyseed/internal/domain"
)

// ok writes the success envelope used across the API.
func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func okMsg(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// respondErr maps the domain error taxonomy to HTTP statuses.
func respondErr(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "not authorized for this resource")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPaymentFailed):
		return fail(c, fiber.StatusBadGateway, "payment provider error")
	default:
		return fail(c, fiber.StatusInternalServerError, "server error")
	}
}

func pageParams(c *fiber.Ctx) (limit, offset int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return limit, (page - 1) * limit
}
