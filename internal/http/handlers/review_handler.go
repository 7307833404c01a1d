package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "paddyseed/internal/log"
	"paddyseed/internal/services"
	"paddyseed/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /api/v1/reviews/product/:productId (public, approved only)
func (h *ReviewHandler) ListForProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("productId"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid product id")
	}
	limit, offset := pageParams(c)
	reviews, err := h.Reviews.ListByProduct(id, limit, offset)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
}

// POST /api/v1/reviews
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	review, err := h.Reviews.Submit(u.ID, in)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "review.create", map[string]any{"review_id": review.ID, "product_id": review.ProductID})
	return okMsg(c, fiber.StatusCreated, "Review added successfully", review)
}

// PUT /api/v1/reviews/:id (owner or admin)
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	review, err := h.Reviews.Update(id, currentUser(c), in)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "review.update", map[string]any{"review_id": id})
	return okMsg(c, fiber.StatusOK, "Review updated successfully", review)
}

// DELETE /api/v1/reviews/:id (owner or admin)
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	if err := h.Reviews.Delete(id, currentUser(c)); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	return okMsg(c, fiber.StatusOK, "Review deleted successfully", nil)
}

// GET /api/v1/reviews (admin)
func (h *ReviewHandler) ListAll(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	reviews, err := h.Reviews.ListAll(limit, offset)
	if err != nil {
		applog.Error(c, "review.list.fail", err, nil)
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
}

type moderateRequest struct {
	IsApproved    *bool  `json:"isApproved"`
	AdminResponse string `json:"adminResponse"`
}

// PUT /api/v1/reviews/:id/moderate (admin)
func (h *ReviewHandler) Moderate(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid review id")
	}
	var req moderateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.IsApproved == nil {
		return fail(c, fiber.StatusBadRequest, "isApproved must be a boolean")
	}
	u := currentUser(c)
	review, err := h.Reviews.Moderate(id, u.ID, *req.IsApproved, req.AdminResponse)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "review.moderate", map[string]any{"review_id": id, "approved": *req.IsApproved})
	return okMsg(c, fiber.StatusOK, "Review moderated successfully", review)
}
