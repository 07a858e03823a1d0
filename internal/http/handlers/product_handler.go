package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperr"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// POST /products  (admin)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == nil || req.Price == nil {
		return apperr.Validation("name and price are required")
	}
	name, ok := validate.Name(*req.Name)
	if !ok {
		return apperr.Validation("invalid name")
	}
	if *req.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	stock := 0
	if req.Stock != nil {
		if *req.Stock < 0 {
			return apperr.Validation("stock must not be negative")
		}
		stock = *req.Stock
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	p, err := h.Catalog.Create(name, description, *req.Price, stock)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid product id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// PUT /products/:id  (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid product id")
	}

	var req productRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	upd := services.ProductUpdate{Description: req.Description}
	if req.Name != nil {
		name, ok := validate.Name(*req.Name)
		if !ok {
			return apperr.Validation("invalid name")
		}
		upd.Name = &name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apperr.Validation("price must not be negative")
		}
		upd.Price = req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return apperr.Validation("stock must not be negative")
		}
		upd.Stock = req.Stock
	}

	p, err := h.Catalog.Update(id, upd)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /products/:id  (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.Validation("invalid product id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /products?page=&page_size=&name=&min_price=&max_price=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"), 1)
	pageSize := validate.PageSize(c.Query("page_size"), 20)

	f := repos.ListFilter{Name: strings.ToLower(strings.TrimSpace(c.Query("name")))}
	if v := c.Query("min_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return apperr.Validation("invalid min_price")
		}
		f.MinPrice = n
	}
	if v := c.Query("max_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return apperr.Validation("invalid max_price")
		}
		f.MaxPrice = n
	}

	products, err := h.Catalog.List(c.UserContext(), page, pageSize, f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"products":  products,
	})
}
