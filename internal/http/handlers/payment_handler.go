package handlers

import (
	"crypto/hmac"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	applog "paddyseed/internal/log"
	"paddyseed/internal/payments"
	"paddyseed/internal/services"
	"paddyseed/internal/validate"
)

type PaymentHandler struct {
	Payments      *services.PaymentService
	WebhookSecret string
}

type intentRequest struct {
	OrderID string `json:"orderId"`
}

// POST /api/v1/payments/intent
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req intentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if _, okID := validate.ID(req.OrderID); !okID {
		return fail(c, fiber.StatusBadRequest, "valid order ID is required")
	}
	intent, err := h.Payments.CreateIntent(c.UserContext(), req.OrderID, currentUser(c))
	if err != nil {
		applog.Error(c, "payment.intent.fail", err, map[string]any{"order_id": req.OrderID})
		return respondErr(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

type confirmRequest struct {
	OrderID         string `json:"orderId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// POST /api/v1/payments/confirm
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if _, okID := validate.ID(req.OrderID); !okID || req.PaymentIntentID == "" {
		return fail(c, fiber.StatusBadRequest, "order ID and payment intent ID are required")
	}
	order, err := h.Payments.Confirm(c.UserContext(), req.OrderID, req.PaymentIntentID, currentUser(c))
	if err != nil {
		applog.Error(c, "payment.confirm.fail", err, map[string]any{"order_id": req.OrderID})
		return respondErr(c, err)
	}
	applog.Audit(c, "payment.confirm", map[string]any{"order_id": req.OrderID})
	return okMsg(c, fiber.StatusOK, "Payment confirmed successfully", order)
}

// GET /api/v1/payments/status/:orderId
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("orderId"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "invalid order id")
	}
	info, err := h.Payments.Status(c.UserContext(), id, currentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	return ok(c, fiber.StatusOK, info)
}

type refundRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

// POST /api/v1/payments/refund (admin)
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	var req refundRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if _, okID := validate.ID(req.OrderID); !okID {
		return fail(c, fiber.StatusBadRequest, "valid order ID is required")
	}
	order, err := h.Payments.Refund(c.UserContext(), req.OrderID, req.Amount)
	if err != nil {
		applog.Error(c, "payment.refund.fail", err, map[string]any{"order_id": req.OrderID})
		return respondErr(c, err)
	}
	applog.Audit(c, "payment.refund", map[string]any{"order_id": req.OrderID, "amount": req.Amount})
	return okMsg(c, fiber.StatusOK, "Refund processed successfully", order)
}

// POST /api/v1/payments/webhook — asynchronous provider notifications.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	if h.WebhookSecret != "" {
		sig := c.Get("X-Webhook-Secret")
		if !hmac.Equal([]byte(sig), []byte(h.WebhookSecret)) {
			applog.Security(c, "payment.webhook.bad_signature", nil)
			return fail(c, fiber.StatusUnauthorized, "invalid webhook signature")
		}
	}
	var ev payments.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid webhook payload")
	}
	if err := h.Payments.HandleEvent(ev); err != nil {
		applog.Error(c, "payment.webhook.fail", err, map[string]any{"type": ev.Type})
		return respondErr(c, err)
	}
	applog.Info(c, "payment.webhook", map[string]any{"type": ev.Type})
	return c.JSON(fiber.Map{"received": true})
}
