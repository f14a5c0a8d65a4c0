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
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & bearer sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  hostel TEXT NOT NULL DEFAULT '',
  room_number TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  login_attempts INTEGER NOT NULL DEFAULT 0,
  locked_until TEXT,
  rating_avg NUMERIC NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  token TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Listings
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL CHECK (category IN
    ('electronics','books','clothing','furniture','sports','stationery','cycle','other')),
  condition TEXT NOT NULL CHECK (condition IN ('new','like_new','good','fair')),
  price NUMERIC NOT NULL CHECK (price > 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available','reserved','delivered')),
  rating_avg NUMERIC NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_seller     ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Carts: exactly one per user
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  added_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders
-- buyer_id is deliberately unconstrained: orders outlive a deleted
-- buyer for the counterparty's records.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','confirmed','delivered','cancelled')),
  hostel TEXT NOT NULL,
  room_number TEXT NOT NULL,
  otp_hash TEXT NOT NULL,
  otp_expires_at TEXT NOT NULL,
  transaction_id TEXT NOT NULL UNIQUE,
  version INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  delivered INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','sold')),
  PRIMARY KEY (order_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_order_items_seller ON order_items(seller_id);

-- Reviews: one per (user, seller, product)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, seller_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_reviews_seller  ON reviews(seller_id);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedDemo inserts demo users and listings if the DB is empty.
// Idempotent; used by collegecartctl and tests.
func SeedDemo(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/products")

	mk := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	users := []struct{ ID, Email, Name, Hostel, Room string }{
		{"u-asha", "asha@campus.test", "Asha", "OBH", "12"},
		{"u-ravi", "ravi@campus.test", "Ravi", "NBH", "204"},
		{"u-meera", "meera@campus.test", "Meera", "GH-2", "57"},
	}
	for _, u := range users {
		tx.MustExec(`INSERT INTO users(id,email,name,password_hash,hostel,room_number)
		             VALUES(?,?,?,?,?,?)`,
			u.ID, u.Email, u.Name, mk("Passw0rd!"), u.Hostel, u.Room)
	}

	tx.MustExec(`INSERT INTO products(id,seller_id,name,description,category,condition,price,images_json) VALUES
	  ('p-calc','u-ravi','Casio FX-991 Calculator','Barely used, exam approved','electronics','like_new',850,'[]'),
	  ('p-mattress','u-ravi','Single Mattress','Clean, 2 semesters old','furniture','good',1200,'[]'),
	  ('p-cycle','u-meera','Hero Sprint Cycle','Serviced last month','cycle','good',3500,'[]'),
	  ('p-dsa','u-meera','CLRS Algorithms Book','Some pencil notes inside','books','fair',450,'[]')`)

	return tx.Commit()
}
