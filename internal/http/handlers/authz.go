package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"paddyseed/internal/domain"
	applog "paddyseed/internal/log"
	"paddyseed/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireUser authenticates the bearer token and stores the trusted identity
// in locals for handlers and the logger.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return fail(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return fail(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid or expired token")
		}
		if u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return fail(c, fiber.StatusForbidden, "admin access required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
