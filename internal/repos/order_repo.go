package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"paddyseed/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Flat scan target; address snapshots live in ship_*/bill_* columns.
type orderRow struct {
	ID             string     `db:"id"`
	OrderNumber    string     `db:"order_number"`
	UserID         string     `db:"user_id"`
	Subtotal       float64    `db:"subtotal"`
	Tax            float64    `db:"tax"`
	ShippingCost   float64    `db:"shipping_cost"`
	Discount       float64    `db:"discount"`
	Total          float64    `db:"total"`
	Currency       string     `db:"currency"`
	Status         string     `db:"status"`
	PaymentStatus  string     `db:"payment_status"`
	PaymentMethod  string     `db:"payment_method"`
	PaymentID      string     `db:"payment_id"`
	ShipName       string     `db:"ship_name"`
	ShipPhone      string     `db:"ship_phone"`
	ShipStreet     string     `db:"ship_street"`
	ShipCity       string     `db:"ship_city"`
	ShipState      string     `db:"ship_state"`
	ShipZip        string     `db:"ship_zip_code"`
	ShipCountry    string     `db:"ship_country"`
	BillName       string     `db:"bill_name"`
	BillPhone      string     `db:"bill_phone"`
	BillStreet     string     `db:"bill_street"`
	BillCity       string     `db:"bill_city"`
	BillState      string     `db:"bill_state"`
	BillZip        string     `db:"bill_zip_code"`
	BillCountry    string     `db:"bill_country"`
	ShippingMethod string     `db:"shipping_method"`
	TrackingNumber string     `db:"tracking_number"`
	TrackingURL    string     `db:"tracking_url"`
	DeliveredAt    *string    `db:"delivered_at"`
	Notes          string     `db:"notes"`
	AdminNotes     string     `db:"admin_notes"`
	IsGift         bool       `db:"is_gift"`
	GiftMessage    string     `db:"gift_message"`
	CreatedAt      string     `db:"created_at"`
	UpdatedAt      string     `db:"updated_at"`
}

const orderCols = `id, order_number, user_id, subtotal, tax, shipping_cost, discount, total, currency,
  status, payment_status, payment_method, COALESCE(payment_id,'') AS payment_id,
  ship_name, ship_phone, ship_street, ship_city, ship_state, ship_zip_code, ship_country,
  COALESCE(bill_name,'') AS bill_name, COALESCE(bill_phone,'') AS bill_phone,
  COALESCE(bill_street,'') AS bill_street, COALESCE(bill_city,'') AS bill_city,
  COALESCE(bill_state,'') AS bill_state, COALESCE(bill_zip_code,'') AS bill_zip_code,
  COALESCE(bill_country,'') AS bill_country,
  shipping_method, COALESCE(tracking_number,'') AS tracking_number, COALESCE(tracking_url,'') AS tracking_url,
  delivered_at, COALESCE(notes,'') AS notes, COALESCE(admin_notes,'') AS admin_notes,
  is_gift, COALESCE(gift_message,'') AS gift_message,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:            row.ID,
		OrderNumber:   row.OrderNumber,
		UserID:        row.UserID,
		Subtotal:      row.Subtotal,
		Tax:           row.Tax,
		ShippingCost:  row.ShippingCost,
		Discount:      row.Discount,
		Total:         row.Total,
		Currency:      row.Currency,
		Status:        domain.OrderStatus(row.Status),
		PaymentStatus: domain.PaymentStatus(row.PaymentStatus),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		PaymentID:     row.PaymentID,
		ShippingAddress: domain.Address{
			Name: row.ShipName, Phone: row.ShipPhone, Street: row.ShipStreet,
			City: row.ShipCity, State: row.ShipState, ZipCode: row.ShipZip, Country: row.ShipCountry,
		},
		BillingAddress: domain.Address{
			Name: row.BillName, Phone: row.BillPhone, Street: row.BillStreet,
			City: row.BillCity, State: row.BillState, ZipCode: row.BillZip, Country: row.BillCountry,
		},
		ShippingMethod: domain.ShippingMethod(row.ShippingMethod),
		TrackingNumber: row.TrackingNumber,
		TrackingURL:    row.TrackingURL,
		DeliveredAt:    row.DeliveredAt,
		Notes:          row.Notes,
		AdminNotes:     row.AdminNotes,
		IsGift:         row.IsGift,
		GiftMessage:    row.GiftMessage,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// CreateTx inserts the order header and all line items inside tx, so the
// order lands all-or-nothing together with its stock decrements.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders(
	    id, order_number, user_id, subtotal, tax, shipping_cost, discount, total, currency,
	    status, payment_status, payment_method,
	    ship_name, ship_phone, ship_street, ship_city, ship_state, ship_zip_code, ship_country,
	    bill_name, bill_phone, bill_street, bill_city, bill_state, bill_zip_code, bill_country,
	    shipping_method, notes, is_gift, gift_message, created_at
	  ) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.Tax, o.ShippingCost, o.Discount, o.Total, o.Currency,
		string(o.Status), string(o.PaymentStatus), string(o.PaymentMethod),
		o.ShippingAddress.Name, o.ShippingAddress.Phone, o.ShippingAddress.Street,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.ZipCode, o.ShippingAddress.Country,
		o.BillingAddress.Name, o.BillingAddress.Phone, o.BillingAddress.Street,
		o.BillingAddress.City, o.BillingAddress.State, o.BillingAddress.ZipCode, o.BillingAddress.Country,
		string(o.ShippingMethod), o.Notes, o.IsGift, o.GiftMessage)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, quantity, price, total)
		  VALUES (?,?,?,?,?)`, o.ID, it.ProductID, it.Quantity, it.Price, it.Total); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(id string) (*domain.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o := row.toDomain()
	if o.Items, err = r.items(id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := r.db.Select(&items, `
		SELECT order_id, product_id, quantity, price, total
		FROM order_items WHERE order_id = ?
		ORDER BY product_id`, orderID)
	return items, err
}

func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []orderRow
	err := r.db.Select(&rows, `
		SELECT `+orderCols+` FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.withItems(rows)
}

func (r *OrderRepo) ListAll(limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []orderRow
	err := r.db.Select(&rows, `
		SELECT `+orderCols+` FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.withItems(rows)
}

func (r *OrderRepo) withItems(rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o := row.toDomain()
		items, err := r.items(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}

type StatusUpdate struct {
	Status         domain.OrderStatus
	TrackingNumber string
	TrackingURL    string
	AdminNotes     string
}

// UpdateStatus applies an administrative status change; a delivery stamps
// delivered_at.
func (r *OrderRepo) UpdateStatus(id string, u StatusUpdate) error {
	q := `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP`
	args := []any{string(u.Status)}
	if u.TrackingNumber != "" {
		q += `, tracking_number = ?`
		args = append(args, u.TrackingNumber)
	}
	if u.TrackingURL != "" {
		q += `, tracking_url = ?`
		args = append(args, u.TrackingURL)
	}
	if u.AdminNotes != "" {
		q += `, admin_notes = ?`
		args = append(args, u.AdminNotes)
	}
	if u.Status == domain.StatusDelivered {
		q += `, delivered_at = CURRENT_TIMESTAMP`
	}
	q += ` WHERE id = ?`
	args = append(args, id)

	res, err := r.db.Exec(q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CancelTx flips the order to cancelled inside the same transaction that
// restores the line items' stock. The UPDATE carries the status guard so two
// raced cancellations cannot both flip the order and restock it twice; zero
// affected rows means the order already left a cancellable state.
func (r *OrderRepo) CancelTx(tx *sqlx.Tx, id string) error {
	res, err := tx.Exec(`
		UPDATE orders SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN ('pending','confirmed')`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *OrderRepo) MarkPaid(id, paymentID string) error {
	res, err := r.db.Exec(`
		UPDATE orders SET payment_status = 'paid', status = 'confirmed', payment_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, paymentID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaymentFailed records the failure without touching the order status.
func (r *OrderRepo) MarkPaymentFailed(id string) error {
	_, err := r.db.Exec(`
		UPDATE orders SET payment_status = 'failed', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	return err
}

func (r *OrderRepo) MarkRefunded(id string) error {
	_, err := r.db.Exec(`
		UPDATE orders SET payment_status = 'refunded', status = 'refunded', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	return err
}

type StatusStat struct {
	Status      string  `db:"status" json:"status"`
	Count       int     `db:"count" json:"count"`
	TotalAmount float64 `db:"total_amount" json:"totalAmount"`
}

// StatsByStatus groups orders by status with count and total amount.
func (r *OrderRepo) StatsByStatus() ([]StatusStat, error) {
	var out []StatusStat
	err := r.db.Select(&out, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total),0) AS total_amount
		FROM orders
		GROUP BY status
		ORDER BY status`)
	return out, err
}

// Revenue sums totals over shipped and delivered orders.
func (r *OrderRepo) Revenue() (float64, error) {
	var total float64
	err := r.db.Get(&total, `
		SELECT COALESCE(SUM(total),0) FROM orders
		WHERE status IN ('shipped','delivered')`)
	return total, err
}
