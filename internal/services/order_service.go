package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"paddyseed/internal/domain"
	"paddyseed/internal/repos"
	"paddyseed/internal/validate"
)

// Pricing rules: flat 18% GST, free shipping above 1000 currency units,
// flat 100 otherwise.
const (
	TaxRate           = 0.18
	FreeShippingAbove = 1000.0
	FlatShippingFee   = 100.0
)

type OrderItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type OrderInput struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress domain.Address   `json:"shippingAddress"`
	BillingAddress  *domain.Address  `json:"billingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	ShippingMethod  string           `json:"shippingMethod"`
	Notes           string           `json:"notes"`
	IsGift          bool             `json:"isGift"`
	GiftMessage     string           `json:"giftMessage"`
}

type OrderService struct {
	db       *sqlx.DB
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
}

func NewOrderService(db *sqlx.DB, orders *repos.OrderRepo, products *repos.ProductRepo) *OrderService {
	return &OrderService{db: db, Orders: orders, Products: products}
}

// Create places an order for the cart items: it snapshots unit prices,
// computes totals and decrements stock. The whole operation runs in a single
// transaction, so a missing product or an insufficient-stock failure on a
// later item rolls the earlier decrements back. Each decrement is itself a
// guarded conditional update, so two concurrent orders for the last units
// cannot drive stock negative.
func (s *OrderService) Create(userID string, in OrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "at least one item is required")
	}
	for _, it := range in.Items {
		if _, ok := validate.ID(it.ProductID); !ok {
			return nil, domain.Invalid("items.product", "valid product ID is required")
		}
		if it.Quantity < 1 {
			return nil, domain.Invalid("items.quantity", "quantity must be at least 1")
		}
	}
	if err := validate.Address(in.ShippingAddress); err != nil {
		return nil, err
	}
	method := domain.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, domain.Invalid("paymentMethod", "valid payment method is required")
	}
	shipMethod := domain.ShippingMethod(in.ShippingMethod)
	if in.ShippingMethod == "" {
		shipMethod = domain.ShipStandard
	} else if !shipMethod.Valid() {
		return nil, domain.Invalid("shippingMethod", "valid shipping method is required")
	}

	// Carts may list the same product on several lines; merge them so the
	// decrement and the order_items row see one combined quantity.
	byProduct := map[string]int{}
	lines := make([]OrderItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		if i, seen := byProduct[it.ProductID]; seen {
			lines[i].Quantity += it.Quantity
			continue
		}
		byProduct[it.ProductID] = len(lines)
		lines = append(lines, it)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	subtotal := 0.0
	currency := "INR"
	items := make([]domain.OrderItem, 0, len(lines))
	for _, it := range lines {
		p, err := s.Products.GetTx(tx, it.ProductID)
		if err != nil {
			return nil, err
		}
		currency = p.Currency
		if err := s.Products.DecrementStockTx(tx, it.ProductID, it.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w for %s (available: %d)", err, p.Name, p.Stock)
			}
			return nil, err
		}
		lineTotal := p.Price * float64(it.Quantity)
		subtotal += lineTotal
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Total:     lineTotal,
		})
	}

	tax := subtotal * TaxRate
	shippingCost := FlatShippingFee
	if subtotal > FreeShippingAbove {
		shippingCost = 0
	}

	billing := in.ShippingAddress
	if in.BillingAddress != nil {
		billing = *in.BillingAddress
	}
	if in.ShippingAddress.Country == "" {
		in.ShippingAddress.Country = "India"
	}
	if billing.Country == "" {
		billing.Country = "India"
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     domain.NewOrderNumber(time.Now()),
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shippingCost,
		Total:           subtotal + tax + shippingCost,
		Currency:        currency,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   method,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  billing,
		ShippingMethod:  shipMethod,
		Notes:           in.Notes,
		IsGift:          in.IsGift,
		GiftMessage:     in.GiftMessage,
	}

	if err := s.Orders.CreateTx(tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Orders.Get(order.ID)
}

// Get returns an order only to its owner or an admin.
func (s *OrderService) Get(orderID string, requester *domain.User) (*domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(o.UserID) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// Cancel aborts a pending or confirmed order and restores the stock of every
// line item. The status flip and the compensating increments commit together.
func (s *OrderService) Cancel(orderID string, requester *domain.User) (*domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(o.UserID) {
		return nil, domain.ErrForbidden
	}
	if !o.Status.Cancellable() {
		return nil, fmt.Errorf("%w: cannot cancel order in status %q", domain.ErrInvalidTransition, o.Status)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range o.Items {
		if err := s.Products.RestoreStockTx(tx, it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.Orders.CancelTx(tx, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Orders.Get(orderID)
}

// UpdateStatus is the administrative override. Any enum value may be set from
// any other; only the customer cancel path enforces the lifecycle guard.
func (s *OrderService) UpdateStatus(orderID string, u repos.StatusUpdate) (*domain.Order, error) {
	if !u.Status.Valid() {
		return nil, domain.Invalid("status", "valid status is required")
	}
	if err := s.Orders.UpdateStatus(orderID, u); err != nil {
		return nil, err
	}
	return s.Orders.Get(orderID)
}

// MarkPaid applies a payment confirmation: paymentStatus=paid and
// status=confirmed move together.
func (s *OrderService) MarkPaid(orderID, paymentID string) (*domain.Order, error) {
	if err := s.Orders.MarkPaid(orderID, paymentID); err != nil {
		return nil, err
	}
	return s.Orders.Get(orderID)
}

// MarkPaymentFailed records a failed payment; the order status is untouched.
func (s *OrderService) MarkPaymentFailed(orderID string) error {
	return s.Orders.MarkPaymentFailed(orderID)
}

func (s *OrderService) ListByUser(userID string, limit, offset int) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID, limit, offset)
}

func (s *OrderService) ListAll(limit, offset int) ([]domain.Order, int, error) {
	orders, err := s.Orders.ListAll(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Orders.Count()
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

type OrderStats struct {
	StatusStats  []repos.StatusStat `json:"statusStats"`
	TotalOrders  int                `json:"totalOrders"`
	TotalRevenue float64            `json:"totalRevenue"`
}

func (s *OrderService) Stats() (*OrderStats, error) {
	byStatus, err := s.Orders.StatsByStatus()
	if err != nil {
		return nil, err
	}
	total, err := s.Orders.Count()
	if err != nil {
		return nil, err
	}
	revenue, err := s.Orders.Revenue()
	if err != nil {
		return nil, err
	}
	return &OrderStats{StatusStats: byStatus, TotalOrders: total, TotalRevenue: revenue}, nil
}
