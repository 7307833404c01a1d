package domain

import (
	"fmt"
	"math/rand"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

var orderStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

func (s OrderStatus) Valid() bool { return orderStatuses[s] }

// Cancellable reports whether a customer may still cancel the order. Once an
// order is processing or further along, cancellation is forbidden.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodCOD          PaymentMethod = "cod"
	MethodOnline       PaymentMethod = "online"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodUPI          PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCOD, MethodOnline, MethodBankTransfer, MethodUPI:
		return true
	}
	return false
}

type ShippingMethod string

const (
	ShipStandard ShippingMethod = "standard"
	ShipExpress  ShippingMethod = "express"
	ShipPremium  ShippingMethod = "premium"
)

func (m ShippingMethod) Valid() bool {
	switch m {
	case ShipStandard, ShipExpress, ShipPremium:
		return true
	}
	return false
}

// Address is snapshotted onto the order at creation time and never updated
// afterwards, so later profile edits cannot rewrite history.
type Address struct {
	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone"`
	Street  string `db:"street" json:"street"`
	City    string `db:"city" json:"city"`
	State   string `db:"state" json:"state"`
	ZipCode string `db:"zip_code" json:"zipCode"`
	Country string `db:"country" json:"country"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"product"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Total     float64 `db:"total" json:"total"`
}

type Order struct {
	ID              string         `db:"id" json:"id"`
	OrderNumber     string         `db:"order_number" json:"orderNumber"`
	UserID          string         `db:"user_id" json:"user"`
	Items           []OrderItem    `db:"-" json:"items"`
	Subtotal        float64        `db:"subtotal" json:"subtotal"`
	Tax             float64        `db:"tax" json:"tax"`
	ShippingCost    float64        `db:"shipping_cost" json:"shippingCost"`
	Discount        float64        `db:"discount" json:"discount"`
	Total           float64        `db:"total" json:"total"`
	Currency        string         `db:"currency" json:"currency"`
	Status          OrderStatus    `db:"status" json:"status"`
	PaymentStatus   PaymentStatus  `db:"payment_status" json:"paymentStatus"`
	PaymentMethod   PaymentMethod  `db:"payment_method" json:"paymentMethod"`
	PaymentID       string         `db:"payment_id" json:"paymentId,omitempty"`
	ShippingAddress Address        `db:"ship" json:"shippingAddress"`
	BillingAddress  Address        `db:"bill" json:"billingAddress"`
	ShippingMethod  ShippingMethod `db:"shipping_method" json:"shippingMethod"`
	TrackingNumber  string         `db:"tracking_number" json:"trackingNumber,omitempty"`
	TrackingURL     string         `db:"tracking_url" json:"trackingUrl,omitempty"`
	DeliveredAt     *string        `db:"delivered_at" json:"deliveredAt,omitempty"`
	Notes           string         `db:"notes" json:"notes,omitempty"`
	AdminNotes      string         `db:"admin_notes" json:"adminNotes,omitempty"`
	IsGift          bool           `db:"is_gift" json:"isGift"`
	GiftMessage     string         `db:"gift_message" json:"giftMessage,omitempty"`
	CreatedAt       string         `db:"created_at" json:"createdAt"`
	UpdatedAt       string         `db:"updated_at" json:"updatedAt"`
}

// TotalItems sums quantities across all line items.
func (o *Order) TotalItems() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// NewOrderNumber builds the human-readable label printed on invoices:
// "PS" + YYMMDD + a 3-digit random suffix, e.g. PS250115042. It is a display
// label only; lookups always use the order's UUID, which is what actually
// guarantees uniqueness.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("PS%02d%02d%02d%03d",
		now.Year()%100, int(now.Month()), now.Day(), rand.Intn(1000))
}
