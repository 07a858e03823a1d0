package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AccountHandler struct {
	Accounts *services.AccountService
}

type accountRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
}

// POST /customers/:id/accounts
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	customerID, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid customer id")
	}
	if err := mustOwnCustomer(c, customerID); err != nil {
		return err
	}

	var req accountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Username == nil || req.Password == nil {
		return apperr.Validation("username and password are required")
	}
	username, ok := validate.Username(*req.Username)
	if !ok {
		return apperr.Validation("username must be 3-32 characters (letters, digits, . _ -)")
	}
	if !validate.Password(*req.Password) {
		return apperr.Validation("password must be 8-64 characters mixing case, digits and symbols")
	}

	a, err := h.Accounts.Create(customerID, username, *req.Password)
	if err != nil {
		return err
	}
	applog.Audit(c, "account.create", map[string]any{"account_id": a.ID, "customer_id": customerID})
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GET /customers/accounts/:id
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid account id")
	}
	a, err := h.Accounts.Get(id)
	if err != nil {
		return err
	}
	if err := mustOwnCustomer(c, a.CustomerID); err != nil {
		return err
	}
	return c.JSON(a)
}

// PUT /customers/accounts/:id
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid account id")
	}
	a, err := h.Accounts.Get(id)
	if err != nil {
		return err
	}
	if err := mustOwnCustomer(c, a.CustomerID); err != nil {
		return err
	}

	var req accountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	upd := services.AccountUpdate{Active: req.Active}
	if req.Username != nil {
		username, ok := validate.Username(*req.Username)
		if !ok {
			return apperr.Validation("username must be 3-32 characters (letters, digits, . _ -)")
		}
		upd.Username = &username
	}
	if req.Password != nil {
		if !validate.Password(*req.Password) {
			return apperr.Validation("password must be 8-64 characters mixing case, digits and symbols")
		}
		upd.Password = req.Password
	}

	a, err = h.Accounts.Update(id, upd)
	if err != nil {
		return err
	}
	applog.Audit(c, "account.update", map[string]any{"account_id": id})
	return c.JSON(a)
}

// DELETE /customers/accounts/:id
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid account id")
	}
	a, err := h.Accounts.Get(id)
	if err != nil {
		return err
	}
	if err := mustOwnCustomer(c, a.CustomerID); err != nil {
		return err
	}
	if err := h.Accounts.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "account.delete", map[string]any{"account_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
