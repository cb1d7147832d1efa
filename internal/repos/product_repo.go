package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"invtrack/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// productRow is the raw scan shape; nullable columns stay explicit here and
// are converted to optional domain fields in toDomain.
type productRow struct {
	ID                string          `db:"id"`
	SKU               string          `db:"sku"`
	Name              string          `db:"name"`
	Description       sql.NullString  `db:"description"`
	CategoryID        sql.NullString  `db:"category_id"`
	SupplierID        sql.NullString  `db:"supplier_id"`
	Quantity          int             `db:"quantity"`
	Unit              string          `db:"unit"`
	Price             decimal.Decimal `db:"price"`
	CostPrice         decimal.Decimal `db:"cost_price"`
	LowStockThreshold int             `db:"low_stock_threshold"`
	ExpiryDate        sql.NullString  `db:"expiry_date"`
	Barcode           sql.NullString  `db:"barcode"`
	Location          sql.NullString  `db:"location"`
	Status            string          `db:"status"`
	CreatedAt         string          `db:"created_at"`
	UpdatedAt         string          `db:"updated_at"`
}

const productCols = `
  id, sku, name, COALESCE(description,'') AS description, category_id, supplier_id,
  quantity, unit, price, cost_price, low_stock_threshold,
  expiry_date, barcode, location, status,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:                r.ID,
		SKU:               r.SKU,
		Name:              r.Name,
		Description:       r.Description.String,
		Quantity:          r.Quantity,
		Unit:              r.Unit,
		Price:             r.Price,
		CostPrice:         r.CostPrice,
		LowStockThreshold: r.LowStockThreshold,
		Status:            domain.Lifecycle(r.Status),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.CategoryID.Valid {
		v := r.CategoryID.String
		p.CategoryID = &v
	}
	if r.SupplierID.Valid {
		v := r.SupplierID.String
		p.SupplierID = &v
	}
	if r.Barcode.Valid {
		v := r.Barcode.String
		p.Barcode = &v
	}
	if r.Location.Valid {
		v := r.Location.String
		p.Location = &v
	}
	if r.ExpiryDate.Valid && r.ExpiryDate.String != "" {
		if t, err := time.ParseInLocation("2006-01-02", r.ExpiryDate.String, time.UTC); err == nil {
			p.ExpiryDate = &t
		}
	}
	return p
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

// Get returns the product regardless of lifecycle state; callers decide
// whether retired rows count as found.
func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return getProduct(r.db, id)
}

func getProduct(q sqlx.Queryer, id string) (domain.Product, error) {
	var row productRow
	err := sqlx.Get(q, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

// GetBySku resolves only active products; retired SKUs are not addressable.
func (r *ProductRepo) GetBySku(sku string) (domain.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT `+productCols+` FROM products WHERE sku = ? AND status = 'ACTIVE'`, sku)
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) ExistsActiveSKU(sku string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE sku = ? AND status = 'ACTIVE'`, sku)
	return n > 0, err
}

func (r *ProductRepo) ListActive() ([]domain.Product, error) {
	return r.selectProducts(`status = 'ACTIVE' ORDER BY COALESCE(updated_at, created_at) DESC`)
}

// Search matches name, SKU, description, or barcode among active products.
func (r *ProductRepo) Search(term string) ([]domain.Product, error) {
	pattern := "%" + term + "%"
	var rows []productRow
	err := r.db.Select(&rows, `
		SELECT `+productCols+` FROM products
		WHERE status = 'ACTIVE'
		  AND (name LIKE ? OR sku LIKE ? OR description LIKE ? OR barcode LIKE ?)
		ORDER BY name
	`, pattern, pattern, pattern, pattern)
	return toDomainList(rows), err
}

func (r *ProductRepo) ListLowStock() ([]domain.Product, error) {
	return r.selectProducts(`status = 'ACTIVE' AND quantity <= low_stock_threshold ORDER BY quantity`)
}

func (r *ProductRepo) ListExpiring(today time.Time, windowDays int) ([]domain.Product, error) {
	from := today.UTC().Format("2006-01-02")
	to := today.UTC().AddDate(0, 0, windowDays).Format("2006-01-02")
	var rows []productRow
	err := r.db.Select(&rows, `
		SELECT `+productCols+` FROM products
		WHERE status = 'ACTIVE' AND expiry_date IS NOT NULL
		  AND expiry_date >= ? AND expiry_date <= ?
		ORDER BY expiry_date
	`, from, to)
	return toDomainList(rows), err
}

func (r *ProductRepo) ListExpired(today time.Time) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.Select(&rows, `
		SELECT `+productCols+` FROM products
		WHERE status = 'ACTIVE' AND expiry_date IS NOT NULL AND expiry_date < ?
		ORDER BY expiry_date
	`, today.UTC().Format("2006-01-02"))
	return toDomainList(rows), err
}

func (r *ProductRepo) selectProducts(tail string) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.Select(&rows, `SELECT `+productCols+` FROM products WHERE `+tail)
	return toDomainList(rows), err
}

func toDomainList(rows []productRow) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// Detail returns the enriched shape with category/supplier display names.
func (r *ProductRepo) Detail(id string) (domain.ProductDetail, error) {
	p, err := r.Get(id)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	var names struct {
		CategoryName sql.NullString `db:"category_name"`
		SupplierName sql.NullString `db:"supplier_name"`
	}
	err = r.db.Get(&names, `
		SELECT c.name AS category_name, s.name AS supplier_name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = ?
	`, id)
	if err != nil {
		return domain.ProductDetail{}, err
	}
	return domain.ProductDetail{
		Product:      p,
		CategoryName: names.CategoryName.String,
		SupplierName: names.SupplierName.String,
	}, nil
}

// Write paths take a sqlx.Ext so the engine can run them inside the same
// transaction as the paired ledger append.

func (r *ProductRepo) Insert(q sqlx.Ext, p domain.Product) error {
	_, err := q.Exec(`
		INSERT INTO products(
		  id, sku, name, description, category_id, supplier_id,
		  quantity, unit, price, cost_price, low_stock_threshold,
		  expiry_date, barcode, location, status, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.SKU, p.Name, p.Description, nullStr(p.CategoryID), nullStr(p.SupplierID),
		p.Quantity, p.Unit, p.Price.StringFixed(2), p.CostPrice.StringFixed(2), p.LowStockThreshold,
		nullDate(p.ExpiryDate), nullStr(p.Barcode), nullStr(p.Location), string(p.Status))
	return err
}

// Update overwrites all mutable fields except quantity; quantity moves only
// through the guarded path below so concurrent adjustments cannot be lost.
func (r *ProductRepo) Update(q sqlx.Ext, p domain.Product) error {
	_, err := q.Exec(`
		UPDATE products SET
		  sku = ?, name = ?, description = ?, category_id = ?, supplier_id = ?,
		  unit = ?, price = ?, cost_price = ?, low_stock_threshold = ?,
		  expiry_date = ?, barcode = ?, location = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.SKU, p.Name, p.Description, nullStr(p.CategoryID), nullStr(p.SupplierID),
		p.Unit, p.Price.StringFixed(2), p.CostPrice.StringFixed(2), p.LowStockThreshold,
		nullDate(p.ExpiryDate), nullStr(p.Barcode), nullStr(p.Location), p.ID)
	return err
}

// SetQuantityGuarded moves quantity from an observed value to a new one.
// The WHERE guard makes the read-modify-write optimistic: a false return
// means another writer committed first and the caller must re-read.
func (r *ProductRepo) SetQuantityGuarded(q sqlx.Ext, id string, observed, next int) (bool, error) {
	res, err := q.Exec(`
		UPDATE products
		SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity = ? AND status = 'ACTIVE'
	`, next, id, observed)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// Retire soft-deletes: the row stays, history stays, the SKU frees up for
// future active products.
func (r *ProductRepo) Retire(q sqlx.Ext, id string) error {
	_, err := q.Exec(`
		UPDATE products SET status = 'RETIRED', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	return err
}
