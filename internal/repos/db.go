package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (users/products)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('user','vendor','admin')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  sku TEXT UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL CHECK (category IN ('honey','sherry','organic','premium','gift-set','accessories')),
  price NUMERIC NOT NULL CHECK (price >= 0),
  currency TEXT NOT NULL DEFAULT 'INR',
  unit TEXT DEFAULT 'kg',
  weight NUMERIC DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  min_stock INTEGER NOT NULL DEFAULT 10 CHECK (min_stock >= 0),
  rating NUMERIC NOT NULL DEFAULT 0,
  num_reviews INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  vendor_id TEXT REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_active   ON products(active);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  user_id TEXT NOT NULL REFERENCES users(id),
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL DEFAULT 0,
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','processing','shipped','delivered','cancelled','refunded')),
  payment_status TEXT NOT NULL DEFAULT 'pending'
    CHECK (payment_status IN ('pending','paid','failed','refunded')),
  payment_method TEXT NOT NULL CHECK (payment_method IN ('cod','online','bank-transfer','upi')),
  payment_id TEXT DEFAULT '',
  ship_name TEXT NOT NULL,
  ship_phone TEXT NOT NULL,
  ship_street TEXT NOT NULL,
  ship_city TEXT NOT NULL,
  ship_state TEXT NOT NULL,
  ship_zip_code TEXT NOT NULL,
  ship_country TEXT NOT NULL DEFAULT 'India',
  bill_name TEXT,
  bill_phone TEXT,
  bill_street TEXT,
  bill_city TEXT,
  bill_state TEXT,
  bill_zip_code TEXT,
  bill_country TEXT DEFAULT 'India',
  shipping_method TEXT NOT NULL DEFAULT 'standard' CHECK (shipping_method IN ('standard','express','premium')),
  tracking_number TEXT DEFAULT '',
  tracking_url TEXT DEFAULT '',
  delivered_at TEXT,
  notes TEXT DEFAULT '',
  admin_notes TEXT DEFAULT '',
  is_gift INTEGER NOT NULL DEFAULT 0,
  gift_message TEXT DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Reviews (one per user+product pair)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  title TEXT NOT NULL,
  comment TEXT NOT NULL,
  is_approved INTEGER NOT NULL DEFAULT 1,
  is_moderated INTEGER NOT NULL DEFAULT 0,
  admin_response TEXT DEFAULT '',
  admin_responded_by TEXT DEFAULT '',
  admin_responded_at TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/products")

	hash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-asha',  'asha@paddyseed.test',  'Asha',  ?, 'user'),
	  ('u-ravi',  'ravi@paddyseed.test',  'Ravi',  ?, 'user'),
	  ('u-farm',  'farm@paddyseed.test',  'Farm Vendor', ?, 'vendor'),
	  ('u-admin', 'admin@paddyseed.test', 'Admin', ?, 'admin')`,
		hash("Passw0rd!"), hash("Passw0rd!"), hash("Passw0rd!"), hash("Passw0rd!"))

	tx.MustExec(`INSERT INTO products(id,sku,name,description,category,price,unit,weight,stock,min_stock,vendor_id) VALUES
	  ('honey-wild-500','PS-HONEY-1','Wildflower Honey 500g','Raw wildflower honey from the Western Ghats.','honey',450,'g',500,100,10,'u-farm'),
	  ('honey-manuka-250','PS-PREMIUM-2','Manuka Honey 250g','High-grade manuka honey.','premium',1200,'g',250,40,5,'u-farm'),
	  ('sherry-classic','PS-SHERRY-3','Classic Sherry 750ml','Barrel-aged sherry.','sherry',850,'ml',750,25,5,'u-farm'),
	  ('gift-sampler','PS-GIFT-SET-4','Honey Sampler Gift Set','Four seasonal honeys in a gift box.','gift-set',999,'piece',1,15,3,'u-farm')`)

	return tx.Commit()
}
