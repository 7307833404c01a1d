package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPaymentIntentConfirmFlow(t *testing.T) {
	env := newTestApp(t)
	orderID := env.createOrder(t, env.ashaToken(t))

	respIntent, err := env.app.Test(jsonReq("POST", "/api/v1/payments/intent", map[string]any{
		"orderId": orderID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respIntent.StatusCode != http.StatusOK {
		t.Fatalf("intent: expected 200, got %d", respIntent.StatusCode)
	}
	intentBody := decodeBody(t, respIntent)
	data, _ := intentBody["data"].(map[string]any)
	intentID, _ := data["paymentIntentId"].(string)
	if intentID == "" || data["clientSecret"].(string) == "" {
		t.Fatalf("intent fields missing: %v", intentBody)
	}
	// 1162.00 INR in minor units
	if got := env.gateway.intents[intentID].Amount; got != 116200 {
		t.Fatalf("intent amount = %d, want 116200", got)
	}

	// confirming before the provider settles must fail and change nothing
	respEarly, err := env.app.Test(jsonReq("POST", "/api/v1/payments/confirm", map[string]any{
		"orderId":         orderID,
		"paymentIntentId": intentID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respEarly.StatusCode != http.StatusBadGateway {
		t.Fatalf("early confirm: expected 502, got %d", respEarly.StatusCode)
	}

	env.gateway.settle(intentID)
	respConfirm, err := env.app.Test(jsonReq("POST", "/api/v1/payments/confirm", map[string]any{
		"orderId":         orderID,
		"paymentIntentId": intentID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respConfirm.StatusCode != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", respConfirm.StatusCode)
	}
	confirmed := decodeBody(t, respConfirm)
	order, _ := confirmed["data"].(map[string]any)
	if order["paymentStatus"].(string) != "paid" || order["status"].(string) != "confirmed" {
		t.Fatalf("order not paid+confirmed: %v %v", order["paymentStatus"], order["status"])
	}

	// paying a paid order again is a conflict
	respAgain, err := env.app.Test(jsonReq("POST", "/api/v1/payments/intent", map[string]any{
		"orderId": orderID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respAgain.StatusCode != http.StatusConflict {
		t.Fatalf("second intent: expected 409, got %d", respAgain.StatusCode)
	}
}

func TestPaymentIntentRequiresOwnership(t *testing.T) {
	env := newTestApp(t)
	orderID := env.createOrder(t, env.ashaToken(t))

	resp, err := env.app.Test(jsonReq("POST", "/api/v1/payments/intent", map[string]any{
		"orderId": orderID,
	}, env.raviToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestPaymentWebhookConfirmsOrder(t *testing.T) {
	env := newTestApp(t)
	orderID := env.createOrder(t, env.ashaToken(t))

	payload := `{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_hook","status":"succeeded","metadata":{"orderId":"` + orderID + `"}}}}`
	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", testWebhookSecret)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d", resp.StatusCode)
	}

	respOrder, err := env.app.Test(jsonReq("GET", "/api/v1/orders/"+orderID, nil, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, respOrder)
	data, _ := body["data"].(map[string]any)
	if data["paymentStatus"].(string) != "paid" || data["status"].(string) != "confirmed" {
		t.Fatalf("webhook did not settle order: %v %v", data["paymentStatus"], data["status"])
	}
	if data["paymentId"].(string) != "pi_hook" {
		t.Fatalf("paymentId = %v", data["paymentId"])
	}
}

func TestPaymentWebhookRejectsBadSignature(t *testing.T) {
	env := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", strings.NewReader(`{"type":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "wrong")
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPaymentRefundIsAdminOnlyAndNeedsSettledPayment(t *testing.T) {
	env := newTestApp(t)
	orderID := env.createOrder(t, env.ashaToken(t))

	// customers cannot refund, even their own orders
	respUser, err := env.app.Test(jsonReq("POST", "/api/v1/payments/refund", map[string]any{
		"orderId": orderID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respUser.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", respUser.StatusCode)
	}

	// unpaid order cannot be refunded
	respUnpaid, err := env.app.Test(jsonReq("POST", "/api/v1/payments/refund", map[string]any{
		"orderId": orderID,
	}, env.adminToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respUnpaid.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 refunding unpaid order, got %d", respUnpaid.StatusCode)
	}

	// settle through an intent, then refund
	respIntent, err := env.app.Test(jsonReq("POST", "/api/v1/payments/intent", map[string]any{
		"orderId": orderID,
	}, env.ashaToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	intentBody := decodeBody(t, respIntent)
	data, _ := intentBody["data"].(map[string]any)
	intentID := data["paymentIntentId"].(string)
	env.gateway.settle(intentID)
	if resp, err := env.app.Test(jsonReq("POST", "/api/v1/payments/confirm", map[string]any{
		"orderId":         orderID,
		"paymentIntentId": intentID,
	}, env.ashaToken(t))); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm failed: %v %d", err, resp.StatusCode)
	}

	respRefund, err := env.app.Test(jsonReq("POST", "/api/v1/payments/refund", map[string]any{
		"orderId": orderID,
	}, env.adminToken(t)))
	if err != nil {
		t.Fatal(err)
	}
	if respRefund.StatusCode != http.StatusOK {
		t.Fatalf("refund: expected 200, got %d", respRefund.StatusCode)
	}
	refunded := decodeBody(t, respRefund)
	order, _ := refunded["data"].(map[string]any)
	if order["paymentStatus"].(string) != "refunded" || order["status"].(string) != "refunded" {
		t.Fatalf("order not refunded: %v %v", order["paymentStatus"], order["status"])
	}
	if len(env.gateway.refunds) != 1 || env.gateway.refunds[0] != intentID {
		t.Fatalf("gateway refunds = %v", env.gateway.refunds)
	}
}
