package repos

import (
	"log"
	"strings"

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
	// Admin bootstrap + demo catalog (idempotent; safe to run every start)
	if err := seedAdmin(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Customers
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers(LOWER(email));

-- Accounts: exactly one per customer
CREATE TABLE IF NOT EXISTS customer_accounts(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE REFERENCES customers(id) ON DELETE CASCADE,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER','ADMIN')),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_username ON customer_accounts(LOWER(username));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));

-- Orders: immutable after placement except status
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  status TEXT NOT NULL DEFAULT 'PLACED' CHECK (status IN ('PLACED','FULFILLED','CANCELED')),
  total NUMERIC NOT NULL,
  ordered_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedAdmin ensures an ADMIN account exists so protected routes are
// reachable on a fresh database.
func seedAdmin(db *sqlx.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe1!"), 12)
	if err != nil {
		return err
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO customers(id, name, email, phone)
		SELECT 'cust-admin', 'Store Admin', 'admin@storefront.test', '0000000000'
		WHERE NOT EXISTS (SELECT 1 FROM customers WHERE id='cust-admin')
	`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO customer_accounts(id, customer_id, username, password_hash, role)
		SELECT 'acct-admin', 'cust-admin', 'admin', ?, 'ADMIN'
		WHERE NOT EXISTS (SELECT 1 FROM customer_accounts WHERE customer_id='cust-admin')
	`, string(hash)); err != nil {
		return err
	}
	return tx.Commit()
}

func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,description,price,stock) VALUES
	  ('widget-001','Widget','Standard widget',9.99,25),
	  ('gadget-001','Gadget','Deluxe gadget',24.50,10),
	  ('gizmo-001','Gizmo','Limited-run gizmo',149.00,2)`)
	return tx.Commit()
}

// isUniqueViolation detects a sqlite UNIQUE constraint failure so the
// caller can answer Conflict instead of leaking the driver error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
