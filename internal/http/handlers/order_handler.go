package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	} `json:"items"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// POST /orders/:customer_id
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	customerID, ok := validate.ID(c.Params("customer_id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, customerID); err != nil {
		return err
	}

	var req placeOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reqs := make([]repos.ItemReq, 0, len(req.Items))
	for _, it := range req.Items {
		reqs = append(reqs, repos.ItemReq{ProductID: it.ProductID, Qty: it.Qty})
	}

	o, err := h.Orders.Place(customerID, reqs)
	if err != nil {
		if apperr.IsKind(err, apperr.KindInsufficientStock) {
			applog.Security(c, "order.place.oversell", map[string]any{"customer_id": customerID})
		}
		return err
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.Total})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /orders/:order_id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderID, ok := validate.ID(c.Params("order_id"))
	if !ok {
		return apperr.Validation("invalid order id")
	}
	o, err := h.Orders.Get(orderID)
	if err != nil {
		return err
	}
	if err := mustOwnCustomer(c, o.CustomerID); err != nil {
		return err
	}
	return c.JSON(o)
}

// PUT /orders/:order_id/status  (admin)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, ok := validate.ID(c.Params("order_id"))
	if !ok {
		return apperr.Validation("invalid order id")
	}
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))

	o, err := h.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return err
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": orderID, "status": status})
	return c.JSON(o)
}
