package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CustomerHandler struct {
	Customers *services.CustomerService
	Orders    *services.OrderService
}

type customerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// POST /customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req customerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == nil || req.Email == nil || req.Phone == nil {
		return apperr.Validation("name, email and phone are required")
	}
	name, ok := validate.Name(*req.Name)
	if !ok {
		return apperr.Validation("invalid name")
	}
	email, ok := validate.Email(*req.Email)
	if !ok {
		return apperr.Validation("invalid email")
	}
	phone, ok := validate.Phone(*req.Phone)
	if !ok {
		return apperr.Validation("invalid phone number")
	}

	cust, err := h.Customers.Create(name, email, phone)
	if err != nil {
		return err
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// GET /customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, id); err != nil {
		return err
	}
	cust, err := h.Customers.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(cust)
}

// PUT /customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, id); err != nil {
		return err
	}

	var req customerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	upd := services.CustomerUpdate{}
	if req.Name != nil {
		name, ok := validate.Name(*req.Name)
		if !ok {
			return apperr.Validation("invalid name")
		}
		upd.Name = &name
	}
	if req.Email != nil {
		email, ok := validate.Email(*req.Email)
		if !ok {
			return apperr.Validation("invalid email")
		}
		upd.Email = &email
	}
	if req.Phone != nil {
		phone, ok := validate.Phone(*req.Phone)
		if !ok {
			return apperr.Validation("invalid phone number")
		}
		upd.Phone = &phone
	}

	cust, err := h.Customers.Update(id, upd)
	if err != nil {
		return err
	}
	applog.Audit(c, "customer.update", map[string]any{"customer_id": id})
	return c.JSON(cust)
}

// DELETE /customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, id); err != nil {
		return err
	}
	if err := h.Customers.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "customer.delete", map[string]any{"customer_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /customers/:id/orders
func (h *CustomerHandler) ListOrders(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, id); err != nil {
		return err
	}
	orders, err := h.Orders.ListForCustomer(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"orders": orders})
}
