package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperr.Validation("username and password are required")
	}

	token, expires, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return err
	}

	applog.Audit(c, "auth.login.success", map[string]any{"username": req.Username})
	return c.JSON(loginResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
}
