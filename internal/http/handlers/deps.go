package handlers

import (
	"github.com/jmoiron/sqlx"

	"paddyseed/internal/config"
	"paddyseed/internal/payments"
	"paddyseed/internal/repos"
	"paddyseed/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	PaymentHandler *PaymentHandler
	ReviewHandler  *ReviewHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, gateway payments.Gateway) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	orderSvc := services.NewOrderService(db, orderRepo, prodRepo)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	paymentSvc := services.NewPaymentService(gateway, orderSvc)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: auth},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc},
		PaymentHandler: &PaymentHandler{Payments: paymentSvc, WebhookSecret: cfg.WebhookSecret},
		ReviewHandler:  &ReviewHandler{Reviews: reviewSvc},
	}
}
