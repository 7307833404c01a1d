package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"paddyseed/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = `id, user_id, product_id, rating, title, comment, is_approved, is_moderated,
  COALESCE(admin_response,'') AS admin_response, COALESCE(admin_responded_by,'') AS admin_responded_by,
  admin_responded_at, COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ReviewRepo) Create(rv *domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, user_id, product_id, rating, title, comment, is_approved, created_at)
	  VALUES (?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Title, rv.Comment, rv.IsApproved)
	return err
}

func (r *ReviewRepo) Get(id string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.Get(&rv, `SELECT `+reviewCols+` FROM reviews WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Exists reports whether the (user, product) pair already has a review.
func (r *ReviewRepo) Exists(userID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?`, userID, productID)
	return n > 0, err
}

func (r *ReviewRepo) ListByProduct(productID string, approvedOnly bool, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT ` + reviewCols + ` FROM reviews WHERE product_id = ?`
	if approvedOnly {
		q += ` AND is_approved = 1`
	}
	q += ` ORDER BY datetime(created_at) DESC LIMIT ? OFFSET ?`
	var out []domain.Review
	err := r.db.Select(&out, q, productID, limit, offset)
	return out, err
}

func (r *ReviewRepo) ListAll(limit, offset int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.Review
	err := r.db.Select(&out, `
		SELECT `+reviewCols+` FROM reviews
		ORDER BY datetime(created_at) DESC
		LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *ReviewRepo) Update(id string, rating int, title, comment string) error {
	res, err := r.db.Exec(`
		UPDATE reviews SET rating = ?, title = ?, comment = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, rating, title, comment, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Moderate flips approval; a non-empty response is recorded with the acting
// admin and a timestamp.
func (r *ReviewRepo) Moderate(id string, approved bool, response, respondedBy string) error {
	var err error
	if response != "" {
		_, err = r.db.Exec(`
			UPDATE reviews SET is_approved = ?, is_moderated = 1,
			  admin_response = ?, admin_responded_by = ?, admin_responded_at = CURRENT_TIMESTAMP,
			  updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`, approved, response, respondedBy, id)
	} else {
		_, err = r.db.Exec(`
			UPDATE reviews SET is_approved = ?, is_moderated = 1, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`, approved, id)
	}
	return err
}

// AverageForProduct aggregates approved ratings for a product.
func (r *ReviewRepo) AverageForProduct(productID string) (avg float64, count int, err error) {
	var row struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err = r.db.Get(&row, `
		SELECT COALESCE(AVG(rating),0) AS avg, COUNT(*) AS count
		FROM reviews
		WHERE product_id = ? AND is_approved = 1`, productID)
	return row.Avg, row.Count, err
}
