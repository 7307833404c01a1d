package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "paddyseed/internal/log"
	"paddyseed/internal/services"
	"paddyseed/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	products, err := h.Catalog.List(c.Query("category"), limit, offset)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(products), "data": products})
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, fiber.StatusOK, p)
}

// GET /api/v1/products/admin/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.Catalog.LowStock()
	if err != nil {
		applog.Error(c, "products.lowstock.fail", err, nil)
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(products), "data": products})
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// PUT /api/v1/products/:id/stock (admin catalog management)
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.Catalog.SetStock(id, req.Stock); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "products.stock.set", map[string]any{"product_id": id, "stock": req.Stock})
	return okMsg(c, fiber.StatusOK, "stock updated", nil)
}
