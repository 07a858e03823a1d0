package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

const claimsKey = "claims"

// RequireAuth validates the bearer token and stashes its claims in the
// request context. Missing or bad tokens answer Unauthorized.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperr.Unauthorized("missing Authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return apperr.Unauthorized("Authorization header must be a Bearer token")
		}
		claims, err := auth.Verify(parts[1])
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return err
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireAdmin runs after RequireAuth and rejects non-admin tokens with
// Forbidden: the token is valid, the scope is not.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cl := ClaimsFrom(c)
		if cl == nil {
			return apperr.Unauthorized("missing Authorization header")
		}
		if cl.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"account_id": cl.AccountID})
			return apperr.Forbidden("admin scope required")
		}
		return c.Next()
	}
}

func ClaimsFrom(c *fiber.Ctx) *services.Claims {
	cl, _ := c.Locals(claimsKey).(*services.Claims)
	return cl
}

// mustOwnCustomer allows the owning customer or an admin through.
func mustOwnCustomer(c *fiber.Ctx, customerID string) error {
	cl := ClaimsFrom(c)
	if cl == nil {
		return apperr.Unauthorized("missing Authorization header")
	}
	if cl.Role == domain.RoleAdmin || cl.CustomerID == customerID {
		return nil
	}
	applog.Security(c, "access.denied.owner", map[string]any{"customer_id": customerID})
	return apperr.Forbidden("not your resource")
}
