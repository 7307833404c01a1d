package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"paddyseed/internal/auth"
	"paddyseed/internal/config"
	"paddyseed/internal/http/handlers"
	"paddyseed/internal/payments"
	"paddyseed/internal/repos"
	"paddyseed/internal/services"
)

const testWebhookSecret = "whsec_test"

// stubGateway stands in for the payment provider so API tests stay offline.
type stubGateway struct {
	intents map[string]*payments.Intent
	refunds []string
	seq     int
}

func newStubGateway() *stubGateway {
	return &stubGateway{intents: map[string]*payments.Intent{}}
}

func (g *stubGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	g.seq++
	in := &payments.Intent{
		ID:           fmt.Sprintf("pi_%d", g.seq),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.seq),
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     currency,
		Metadata:     metadata,
	}
	g.intents[in.ID] = in
	return in, nil
}

func (g *stubGateway) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	in, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", id)
	}
	return in, nil
}

func (g *stubGateway) RefundPayment(_ context.Context, paymentID string, amount int64) (*payments.Refund, error) {
	g.refunds = append(g.refunds, paymentID)
	return &payments.Refund{ID: "re_1", Amount: amount, Status: "succeeded"}, nil
}

func (g *stubGateway) settle(id string) {
	if in, ok := g.intents[id]; ok {
		in.Status = payments.IntentSucceeded
	}
}

type apiEnv struct {
	app     *fiber.App
	db      *sqlx.DB
	tokens  *auth.Service
	gateway *stubGateway
}

// newTestApp builds the full route table against a seeded temp-file database.
// Rate limiters are left out so tests can hammer endpoints freely.
func newTestApp(t *testing.T) *apiEnv {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewService("test-secret", time.Hour)
	authSvc := services.NewAuthService(repos.NewUserRepo(db), tokens)
	gw := newStubGateway()
	cfg := config.Config{WebhookSecret: testWebhookSecret}

	deps := handlers.NewDeps(db, cfg, authSvc, gw)
	app := fiber.New()
	api := app.Group("/api/v1")

	api.Post("/auth/login", deps.AuthHandler.Login)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/admin/low-stock", handlers.RequireAdmin(authSvc), deps.ProductHandler.LowStock)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Put("/products/:id/stock", handlers.RequireAdmin(authSvc), deps.ProductHandler.SetStock)

	api.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Create)
	api.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.ListMine)
	api.Get("/orders/admin/all", handlers.RequireAdmin(authSvc), deps.OrderHandler.ListAll)
	api.Get("/orders/admin/stats", handlers.RequireAdmin(authSvc), deps.OrderHandler.Stats)
	api.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.Get)
	api.Put("/orders/:id/cancel", handlers.RequireUser(authSvc), deps.OrderHandler.Cancel)
	api.Put("/orders/:id/status", handlers.RequireAdmin(authSvc), deps.OrderHandler.UpdateStatus)

	api.Post("/payments/intent", handlers.RequireUser(authSvc), deps.PaymentHandler.CreateIntent)
	api.Post("/payments/confirm", handlers.RequireUser(authSvc), deps.PaymentHandler.Confirm)
	api.Get("/payments/status/:orderId", handlers.RequireUser(authSvc), deps.PaymentHandler.Status)
	api.Post("/payments/refund", handlers.RequireAdmin(authSvc), deps.PaymentHandler.Refund)
	api.Post("/payments/webhook", deps.PaymentHandler.Webhook)

	api.Get("/reviews/product/:productId", deps.ReviewHandler.ListForProduct)
	api.Get("/reviews", handlers.RequireAdmin(authSvc), deps.ReviewHandler.ListAll)
	api.Post("/reviews", handlers.RequireUser(authSvc), deps.ReviewHandler.Create)
	api.Put("/reviews/:id/moderate", handlers.RequireAdmin(authSvc), deps.ReviewHandler.Moderate)
	api.Put("/reviews/:id", handlers.RequireUser(authSvc), deps.ReviewHandler.Update)
	api.Delete("/reviews/:id", handlers.RequireUser(authSvc), deps.ReviewHandler.Delete)

	return &apiEnv{app: app, db: db, tokens: tokens, gateway: gw}
}

func (e *apiEnv) tokenFor(t *testing.T, id, email, role string) string {
	t.Helper()
	tok, _, err := e.tokens.GenerateToken(id, email, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func (e *apiEnv) ashaToken(t *testing.T) string {
	return e.tokenFor(t, "u-asha", "asha@paddyseed.test", "user")
}

func (e *apiEnv) raviToken(t *testing.T) string {
	return e.tokenFor(t, "u-ravi", "ravi@paddyseed.test", "user")
}

func (e *apiEnv) adminToken(t *testing.T) string {
	return e.tokenFor(t, "u-admin", "admin@paddyseed.test", "admin")
}

func jsonReq(method, path string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeBody reads the standard {"success": ..., "data": ...} envelope.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

// sampleOrderBody is a valid two-unit wildflower honey order.
func sampleOrderBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product": "honey-wild-500", "quantity": 2},
		},
		"shippingAddress": map[string]any{
			"name":    "Asha Rao",
			"phone":   "9876543210",
			"street":  "12 Lake Road",
			"city":    "Pune",
			"state":   "MH",
			"zipCode": "411001",
		},
		"paymentMethod":  "online",
		"shippingMethod": "standard",
	}
}

// createOrder places an order through the API and returns its id.
func (e *apiEnv) createOrder(t *testing.T, token string) string {
	t.Helper()
	resp, err := e.app.Test(jsonReq("POST", "/api/v1/orders", sampleOrderBody(), token))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order: status %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data, _ := body["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("order id missing in %v", body)
	}
	return id
}
