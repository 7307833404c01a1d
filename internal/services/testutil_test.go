package services_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"paddyseed/internal/domain"
	"paddyseed/internal/repos"
	"paddyseed/internal/services"
)

// newTestDB opens a throwaway database with the full schema and demo seed:
// honey-wild-500 (price 450, stock 100) and honey-manuka-250 (price 1200,
// stock 40) among others, plus users u-asha/u-ravi/u-admin.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newOrderService(db *sqlx.DB) *services.OrderService {
	return services.NewOrderService(db, repos.NewOrderRepo(db), repos.NewProductRepo(db))
}

var testAddress = domain.Address{
	Name:    "Asha",
	Phone:   "9876543210",
	Street:  "12 Lake Road",
	City:    "Pune",
	State:   "Maharashtra",
	ZipCode: "411001",
}

var (
	asha  = &domain.User{ID: "u-asha", Email: "asha@paddyseed.test", Role: domain.RoleUser}
	ravi  = &domain.User{ID: "u-ravi", Email: "ravi@paddyseed.test", Role: domain.RoleUser}
	admin = &domain.User{ID: "u-admin", Email: "admin@paddyseed.test", Role: domain.RoleAdmin}
)

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		t.Fatalf("stock query: %v", err)
	}
	return n
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
