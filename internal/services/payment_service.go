package services

import (
	"context"
	"fmt"
	"math"

	"paddyseed/internal/domain"
	"paddyseed/internal/payments"
)

type PaymentService struct {
	Gateway payments.Gateway
	Orders  *OrderService
}

func NewPaymentService(gw payments.Gateway, orders *OrderService) *PaymentService {
	return &PaymentService{Gateway: gw, Orders: orders}
}

// minorUnits converts a currency amount to the provider's integer minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateIntent opens a payment intent for the order total. Only the order's
// owner may start a payment, and already-paid orders are rejected.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID string, requester *domain.User) (*payments.Intent, error) {
	o, err := s.Orders.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.ID != o.UserID {
		return nil, domain.ErrForbidden
	}
	if o.PaymentStatus == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: order is already paid", domain.ErrConflict)
	}
	return s.Gateway.CreateIntent(ctx, minorUnits(o.Total), o.Currency, map[string]string{
		"orderId":     o.ID,
		"orderNumber": o.OrderNumber,
	})
}

// Confirm verifies the intent with the provider and, if it succeeded, marks
// the order paid and confirmed in one update.
func (s *PaymentService) Confirm(ctx context.Context, orderID, intentID string, requester *domain.User) (*domain.Order, error) {
	o, err := s.Orders.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.ID != o.UserID {
		return nil, domain.ErrForbidden
	}
	intent, err := s.Gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != payments.IntentSucceeded {
		return nil, fmt.Errorf("%w: payment not completed", domain.ErrPaymentFailed)
	}
	return s.Orders.MarkPaid(orderID, intentID)
}

// Status reports the order's payment state plus any provider-side detail.
type PaymentStatusInfo struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PaymentID     string               `json:"paymentId,omitempty"`
	Provider      *payments.Intent     `json:"provider,omitempty"`
}

func (s *PaymentService) Status(ctx context.Context, orderID string, requester *domain.User) (*PaymentStatusInfo, error) {
	o, err := s.Orders.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(o.UserID) {
		return nil, domain.ErrForbidden
	}
	info := &PaymentStatusInfo{PaymentStatus: o.PaymentStatus, PaymentID: o.PaymentID}
	if o.PaymentID != "" {
		// Best effort; a provider outage should not hide the local state.
		if intent, err := s.Gateway.GetIntent(ctx, o.PaymentID); err == nil {
			info.Provider = intent
		}
	}
	return info, nil
}

// Refund reverses a paid order: the provider refund is issued first, then
// paymentStatus and status both move to refunded.
func (s *PaymentService) Refund(ctx context.Context, orderID string, amount float64) (*domain.Order, error) {
	o, err := s.Orders.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != domain.PaymentPaid || o.PaymentID == "" {
		return nil, fmt.Errorf("%w: order has no settled payment to refund", domain.ErrInvalidTransition)
	}
	var minor int64
	if amount > 0 {
		minor = minorUnits(amount)
	}
	if _, err := s.Gateway.RefundPayment(ctx, o.PaymentID, minor); err != nil {
		return nil, err
	}
	if err := s.Orders.Orders.MarkRefunded(orderID); err != nil {
		return nil, err
	}
	return s.Orders.Orders.Get(orderID)
}

// HandleEvent applies an asynchronous provider notification. A succeeded
// intent confirms the order; a failed one only flags the payment.
func (s *PaymentService) HandleEvent(ev payments.Event) error {
	orderID := ev.Data.Object.Metadata["orderId"]
	if orderID == "" {
		return domain.Invalid("metadata.orderId", "event carries no order reference")
	}
	switch ev.Type {
	case "payment_intent.succeeded":
		_, err := s.Orders.MarkPaid(orderID, ev.Data.Object.ID)
		return err
	case "payment_intent.payment_failed":
		return s.Orders.MarkPaymentFailed(orderID)
	default:
		// Unhandled event types are acknowledged without action.
		return nil
	}
}
