package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
)

// ErrorHandler is the app-wide Fiber error handler. Every error response
// carries a stable code and a human-readable message; causes are logged,
// never serialized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ae := apperr.From(err); ae != nil {
		switch ae.Kind {
		case apperr.KindInternal:
			applog.Error(c, "server.error", err, nil)
		case apperr.KindUnauthorized, apperr.KindForbidden:
			applog.Security(c, "access.denied", map[string]any{"reason": ae.Message})
		}
		return errJSON(c, ae.HTTPStatus(), string(ae.Kind), ae.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errJSON(c, fe.Code, codeForStatus(fe.Code), fe.Message)
	}

	applog.Error(c, "server.error", err, nil)
	return errJSON(c, fiber.StatusInternalServerError, string(apperr.KindInternal), "something went wrong")
}

func errJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"code": code, "message": message},
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return string(apperr.KindValidation)
	case fiber.StatusUnauthorized:
		return string(apperr.KindUnauthorized)
	case fiber.StatusForbidden:
		return string(apperr.KindForbidden)
	case fiber.StatusNotFound:
		return string(apperr.KindNotFound)
	case fiber.StatusConflict:
		return string(apperr.KindConflict)
	case fiber.StatusTooManyRequests:
		return string(apperr.KindTooManyRequests)
	default:
		return string(apperr.KindInternal)
	}
}

// parseBody decodes a JSON body, answering Validation on garbage.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("malformed request body")
	}
	return nil
}
