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

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Seed reference data if DB is empty (categories/suppliers)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure actors exist (idempotent; safe to run every start)
	if err := seedActors(db); err != nil {
		return nil, err
	}

	return db, nil
}

func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories (weak ref target; deleting one nulls product references)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Suppliers
CREATE TABLE IF NOT EXISTS suppliers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
  supplier_id TEXT REFERENCES suppliers(id) ON DELETE SET NULL,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  unit TEXT NOT NULL DEFAULT 'pcs',
  price TEXT NOT NULL DEFAULT '0',
  cost_price TEXT NOT NULL DEFAULT '0',
  low_stock_threshold INTEGER NOT NULL DEFAULT 10 CHECK (low_stock_threshold >= 0),
  expiry_date TEXT,
  barcode TEXT,
  location TEXT,
  status TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE','RETIRED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
-- SKU must be unique among active products only; retired rows keep theirs.
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku_active ON products(sku) WHERE status = 'ACTIVE';
CREATE INDEX IF NOT EXISTS idx_products_status      ON products(status);
CREATE INDEX IF NOT EXISTS idx_products_expiry_date ON products(expiry_date);
CREATE INDEX IF NOT EXISTS idx_products_barcode     ON products(barcode);

-- Actors (resolved identities for audit rows)
CREATE TABLE IF NOT EXISTS actors(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ADMIN','STAFF','SYSTEM')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Inventory ledger: append-only, no UPDATE/DELETE path exists in code.
CREATE TABLE IF NOT EXISTS inventory_logs(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id),
  actor_id TEXT NOT NULL REFERENCES actors(id),
  action TEXT NOT NULL CHECK (action IN ('ADD','UPDATE','DELETE','STOCK_IN','STOCK_OUT','ADJUSTMENT')),
  quantity_before INTEGER,
  quantity_after INTEGER,
  quantity_change INTEGER,
  notes TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_logs_product    ON inventory_logs(product_id);
CREATE INDEX IF NOT EXISTS idx_logs_created_at ON inventory_logs(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting baseline categories/suppliers")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name) VALUES
	  ('cat-electronics','Electronics'),
	  ('cat-grocery','Grocery'),
	  ('cat-pharma','Pharmacy'),
	  ('cat-household','Household')`)

	tx.MustExec(`INSERT INTO suppliers(id,name,contact) VALUES
	  ('sup-acme','Acme Wholesale','orders@acme.test'),
	  ('sup-northfield','Northfield Distribution','sales@northfield.test')`)

	return tx.Commit()
}

// seedActors ensures the system actor and a default admin exist (idempotent).
// The system actor backs unauthenticated state changes so every ledger row
// still names a real identity.
func seedActors(db *sqlx.DB) error {
	type a struct {
		ID, Username, Name, Role, Hash string
	}
	mk := func(id, username, name, role, raw string) a {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return a{ID: id, Username: username, Name: name, Role: role, Hash: string(h)}
	}

	actors := []a{
		mk("u-system", "system", "System", "SYSTEM", "Sys!AdminSeed1"),
		mk("u-admin", "admin", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range actors {
		if _, err := tx.Exec(`
			INSERT INTO actors(id,username,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
