package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "paddyseed/internal/log"
	"paddyseed/internal/services"
	"paddyseed/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	email, okEmail := validate.Email(req.Email)
	if !okEmail || !validate.Password(req.Password) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, expires, u, err := h.Auth.Login(email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, fiber.Map{
		"token":     token,
		"expiresAt": expires,
		"user":      u,
	})
}
