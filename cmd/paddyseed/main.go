package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"paddyseed/internal/auth"
	"paddyseed/internal/config"
	"paddyseed/internal/http/handlers"
	applog "paddyseed/internal/log"
	"paddyseed/internal/payments"
	"paddyseed/internal/repos"
	"paddyseed/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	tokens := auth.NewService(cfg.JWTSecret, 24*time.Hour)
	authSvc := services.NewAuthService(userRepo, tokens)

	// Payment collaborator
	gateway := payments.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, authSvc, gateway)
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/admin/low-stock", handlers.RequireAdmin(authSvc), deps.ProductHandler.LowStock)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Put("/products/:id/stock", handlers.RequireAdmin(authSvc), deps.ProductHandler.SetStock)

	// Orders
	api.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Create)
	api.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.ListMine)
	api.Get("/orders/admin/all", handlers.RequireAdmin(authSvc), deps.OrderHandler.ListAll)
	api.Get("/orders/admin/stats", handlers.RequireAdmin(authSvc), deps.OrderHandler.Stats)
	api.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.Get)
	api.Put("/orders/:id/cancel", handlers.RequireUser(authSvc), deps.OrderHandler.Cancel)
	api.Put("/orders/:id/status", handlers.RequireAdmin(authSvc), deps.OrderHandler.UpdateStatus)

	// Payments
	api.Post("/payments/intent", handlers.RequireUser(authSvc), deps.PaymentHandler.CreateIntent)
	api.Post("/payments/confirm", handlers.RequireUser(authSvc), deps.PaymentHandler.Confirm)
	api.Get("/payments/status/:orderId", handlers.RequireUser(authSvc), deps.PaymentHandler.Status)
	api.Post("/payments/refund", handlers.RequireAdmin(authSvc), deps.PaymentHandler.Refund)
	api.Post("/payments/webhook", deps.PaymentHandler.Webhook)

	// Reviews
	api.Get("/reviews/product/:productId", deps.ReviewHandler.ListForProduct)
	api.Get("/reviews", handlers.RequireAdmin(authSvc), deps.ReviewHandler.ListAll)
	api.Post("/reviews", handlers.RequireUser(authSvc), deps.ReviewHandler.Create)
	api.Put("/reviews/:id/moderate", handlers.RequireAdmin(authSvc), deps.ReviewHandler.Moderate)
	api.Put("/reviews/:id", handlers.RequireUser(authSvc), deps.ReviewHandler.Update)
	api.Delete("/reviews/:id", handlers.RequireUser(authSvc), deps.ReviewHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
