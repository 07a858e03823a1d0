// Package apperr defines the error taxonomy every handler speaks.
// Stable codes map one-to-one onto HTTP statuses so persistence errors
// never leak through a response body.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindTooManyRequests   Kind = "too_many_requests"
	KindInternal          Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, logged but never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict, KindInsufficientStock:
		return fiber.StatusConflict
	case KindTooManyRequests:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func InsufficientStock(productID string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: "insufficient stock for product " + productID}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// From pulls the taxonomy error out of a chain, or nil if none is there.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	ae := From(err)
	return ae != nil && ae.Kind == k
}
