package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle is the product's tagged lifecycle state. Retired products are
// excluded from active lookups but keep their ledger history addressable.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "ACTIVE"
	LifecycleRetired Lifecycle = "RETIRED"
)

type Product struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        *string         `json:"category_id,omitempty"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Quantity          int             `json:"quantity"`
	Unit              string          `json:"unit"`
	Price             decimal.Decimal `json:"price"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"` // date-only, UTC midnight
	Barcode           *string         `json:"barcode,omitempty"`
	Location          *string         `json:"location,omitempty"`
	Status            Lifecycle       `json:"status"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at,omitempty"`
}

func (p Product) IsActive() bool     { return p.Status == LifecycleActive }
func (p Product) IsLowStock() bool   { return p.Quantity <= p.LowStockThreshold }
func (p Product) IsOutOfStock() bool { return p.Quantity <= 0 }

// IsExpired reports whether the expiry date is strictly before today.
func (p Product) IsExpired(today time.Time) bool {
	if p.ExpiryDate == nil {
		return false
	}
	return p.ExpiryDate.Before(DateOnly(today))
}

// DaysUntilExpiry is negative for expired products. Callers must check
// ExpiryDate != nil first.
func (p Product) DaysUntilExpiry(today time.Time) int {
	return int(p.ExpiryDate.Sub(DateOnly(today)).Hours() / 24)
}

// DateOnly truncates a timestamp to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductDetail is the enriched read shape carrying display names resolved
// by the category/supplier joins. Kept separate from Product so the base
// record never grows silently-optional fields.
type ProductDetail struct {
	Product
	CategoryName string `json:"category_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Supplier struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Contact   string `db:"contact" json:"contact,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
