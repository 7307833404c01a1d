package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"paddyseed/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, sku, name, COALESCE(description,'') AS description, category, price, currency,
  COALESCE(unit,'') AS unit, COALESCE(weight,0) AS weight, stock, min_stock, rating, num_reviews,
  active, COALESCE(vendor_id,'') AS vendor_id, COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetTx reads a product inside the caller's transaction, so price and stock
// snapshots share the isolation scope of the guarded decrement.
func (r *ProductRepo) GetTx(tx *sqlx.Tx, id string) (*domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(category string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []domain.Product
	if category != "" {
		err := r.db.Select(&out, `
			SELECT `+productCols+` FROM products
			WHERE active = 1 AND category = ?
			ORDER BY created_at DESC LIMIT ? OFFSET ?`, category, limit, offset)
		return out, err
	}
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE active = 1
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

// ListLowStock returns active products at or below their reorder threshold.
func (r *ProductRepo) ListLowStock() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE active = 1 AND stock <= min_stock
		ORDER BY stock ASC, name`)
	return out, err
}

// DecrementStockTx atomically subtracts qty inside tx if enough stock exists.
// The guarded UPDATE is what keeps stock from ever going negative under
// concurrent orders; zero affected rows means either an unknown product or
// not enough stock, distinguished by a follow-up existence probe.
func (r *ProductRepo) DecrementStockTx(tx *sqlx.Tx, productID string, qty int) error {
	res, err := tx.Exec(`
		UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?`, qty, productID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.Get(&exists, `SELECT COUNT(*) FROM products WHERE id = ?`, productID); err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// RestoreStockTx adds qty back inside tx (order cancellation compensation).
func (r *ProductRepo) RestoreStockTx(tx *sqlx.Tx, productID string, qty int) error {
	_, err := tx.Exec(`
		UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, qty, productID)
	return err
}

// SetRating writes the recomputed review aggregate onto the product.
func (r *ProductRepo) SetRating(productID string, rating float64, numReviews int) error {
	_, err := r.db.Exec(`
		UPDATE products SET rating = ?, num_reviews = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, rating, numReviews, productID)
	return err
}

// UpsertStock sets the absolute stock level for catalog management.
func (r *ProductRepo) UpsertStock(productID string, stock int) error {
	res, err := r.db.Exec(`
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, stock, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
