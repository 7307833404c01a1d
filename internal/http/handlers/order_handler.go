package handlers

import (
	"github.com/gofiber/fiber/v2"

	"paddyseed/internal/domain"
	applog "paddyseed/internal/log"
	"paddyseed/internal/repos"
	"paddyseed/internal/services"
	"paddyseed/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /api/v1/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var in services.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	order, err := h.Orders.Create(u.ID, in)
	if err != nil {
		applog.Security(c, "order.create.fail", map[string]any{"error": err.Error()})
		return respondErr(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
	})
	return okMsg(c, fiber.StatusCreated, "Order created successfully", order)
}

// GET /api/v1/orders (own orders)
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	u := currentUser(c)
	limit, offset := pageParams(c)
	orders, err := h.Orders.ListByUser(u.ID, limit, offset)
	if err != nil {
		applog.Error(c, "order.list.fail", err, nil)
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(orders), "data": orders})
}

// GET /api/v1/orders/:id (owner or admin)
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	order, err := h.Orders.Get(id, currentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, fiber.StatusOK, order)
}

// PUT /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	order, err := h.Orders.Cancel(id, currentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return okMsg(c, fiber.StatusOK, "Order cancelled successfully", order)
}

type statusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
	TrackingURL    string `json:"trackingUrl"`
	AdminNotes     string `json:"adminNotes"`
}

// PUT /api/v1/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	order, err := h.Orders.UpdateStatus(id, repos.StatusUpdate{
		Status:         domain.OrderStatus(req.Status),
		TrackingNumber: req.TrackingNumber,
		TrackingURL:    req.TrackingURL,
		AdminNotes:     req.AdminNotes,
	})
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": id, "status": req.Status})
	return okMsg(c, fiber.StatusOK, "Order status updated successfully", order)
}

// GET /api/v1/orders/admin/all (admin)
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	orders, total, err := h.Orders.ListAll(limit, offset)
	if err != nil {
		applog.Error(c, "order.list.all.fail", err, nil)
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"total":   total,
		"data":    orders,
	})
}

// GET /api/v1/orders/admin/stats (admin)
func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Orders.Stats()
	if err != nil {
		applog.Error(c, "order.stats.fail", err, nil)
		return respondErr(c, err)
	}
	return ok(c, fiber.StatusOK, stats)
}
