package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invtrack/internal/domain"
	"invtrack/internal/repos"
)

// maxAttempts bounds the optimistic retry loop on quantity writes. Losing a
// race re-reads current state, so each attempt sees the winner's result.
const maxAttempts = 3

// LedgerEngine applies one quantity-changing or field-changing operation to
// one product and persists the paired ledger entry in the same transaction:
// both commit or neither does.
type LedgerEngine struct {
	db       *sqlx.DB
	products *repos.ProductRepo
	ledger   *repos.LedgerRepo
}

func NewLedgerEngine(db *sqlx.DB, products *repos.ProductRepo, ledger *repos.LedgerRepo) *LedgerEngine {
	return &LedgerEngine{db: db, products: products, ledger: ledger}
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return invalid("sku", "required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "required")
	}
	if p.Price.IsNegative() || p.CostPrice.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if p.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	if p.LowStockThreshold < 0 {
		return invalid("low_stock_threshold", "must not be negative")
	}
	return nil
}

// CreateProduct assigns an id, persists the product, and appends the ADD
// ledger entry. SKU uniqueness is exact-string among active products.
func (e *LedgerEngine) CreateProduct(actorID string, p domain.Product) (domain.Product, error) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}

	exists, err := e.products.ExistsActiveSKU(p.SKU)
	if err != nil {
		return domain.Product{}, fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return domain.Product{}, ErrDuplicateSKU
	}

	p.ID = uuid.NewString()
	p.Status = domain.LifecycleActive
	if p.Unit == "" {
		p.Unit = "pcs"
	}

	tx, err := e.db.Beginx()
	if err != nil {
		return domain.Product{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := e.products.Insert(tx, p); err != nil {
		// The partial unique index backstops the pre-check under races.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return domain.Product{}, ErrDuplicateSKU
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	after := p.Quantity
	entry := domain.NewLedgerEntry(p.ID, actorID, domain.ActionAdd, nil, &after, "Product created")
	if _, err := e.ledger.Append(tx, entry); err != nil {
		return domain.Product{}, fmt.Errorf("append ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Product{}, fmt.Errorf("commit: %w", err)
	}
	return e.products.Get(p.ID)
}

// UpdateProduct overwrites all mutable fields. A quantity change is logged
// as UPDATE with before/after; field-only edits write no ledger entry.
func (e *LedgerEngine) UpdateProduct(actorID string, p domain.Product) (domain.Product, error) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(p); err != nil {
		return domain.Product{}, err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		existing, err := e.products.Get(p.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		if err != nil {
			return domain.Product{}, fmt.Errorf("read product: %w", err)
		}
		if !existing.IsActive() {
			return domain.Product{}, ErrNotFound
		}

		// Uniqueness check is skipped only when the SKU is unchanged.
		if p.SKU != existing.SKU {
			exists, err := e.products.ExistsActiveSKU(p.SKU)
			if err != nil {
				return domain.Product{}, fmt.Errorf("check sku: %w", err)
			}
			if exists {
				return domain.Product{}, ErrDuplicateSKU
			}
		}

		tx, err := e.db.Beginx()
		if err != nil {
			return domain.Product{}, fmt.Errorf("begin tx: %w", err)
		}

		committed, err := e.applyUpdate(tx, actorID, existing, p)
		if err != nil {
			_ = tx.Rollback()
			return domain.Product{}, err
		}
		if !committed {
			// Lost the quantity race; re-read and try again.
			_ = tx.Rollback()
			continue
		}
		if err := tx.Commit(); err != nil {
			return domain.Product{}, fmt.Errorf("commit: %w", err)
		}
		return e.products.Get(p.ID)
	}
	return domain.Product{}, ErrConflict
}

func (e *LedgerEngine) applyUpdate(tx *sqlx.Tx, actorID string, existing, p domain.Product) (bool, error) {
	if err := e.products.Update(tx, p); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return false, ErrDuplicateSKU
		}
		return false, fmt.Errorf("update product: %w", err)
	}
	if p.Quantity == existing.Quantity {
		return true, nil
	}

	ok, err := e.products.SetQuantityGuarded(tx, p.ID, existing.Quantity, p.Quantity)
	if err != nil {
		return false, fmt.Errorf("set quantity: %w", err)
	}
	if !ok {
		return false, nil
	}

	before, after := existing.Quantity, p.Quantity
	entry := domain.NewLedgerEntry(p.ID, actorID, domain.ActionUpdate, &before, &after, "Product updated")
	if _, err := e.ledger.Append(tx, entry); err != nil {
		return false, fmt.Errorf("append ledger: %w", err)
	}
	return true, nil
}

// AdjustStock moves quantity by delta. A delta that would drive quantity
// negative fails with the available amount; a zero delta is a recorded
// no-op. Concurrent adjustments against the same product serialize through
// the guarded update: the loser re-reads the winner's result.
func (e *LedgerEngine) AdjustStock(actorID, productID string, delta int, reason string) (domain.Product, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		p, err := e.products.Get(productID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		if err != nil {
			return domain.Product{}, fmt.Errorf("read product: %w", err)
		}
		if !p.IsActive() {
			return domain.Product{}, ErrNotFound
		}

		next := p.Quantity + delta
		if next < 0 {
			return domain.Product{}, &InsufficientStockError{Available: p.Quantity}
		}

		tx, err := e.db.Beginx()
		if err != nil {
			return domain.Product{}, fmt.Errorf("begin tx: %w", err)
		}

		ok, err := e.products.SetQuantityGuarded(tx, productID, p.Quantity, next)
		if err != nil {
			_ = tx.Rollback()
			return domain.Product{}, fmt.Errorf("set quantity: %w", err)
		}
		if !ok {
			_ = tx.Rollback()
			continue
		}

		action := domain.ActionStockOut
		if delta > 0 {
			action = domain.ActionStockIn
		}
		before, after := p.Quantity, next
		entry := domain.NewLedgerEntry(productID, actorID, action, &before, &after, reason)
		if _, err := e.ledger.Append(tx, entry); err != nil {
			_ = tx.Rollback()
			return domain.Product{}, fmt.Errorf("append ledger: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return domain.Product{}, fmt.Errorf("commit: %w", err)
		}
		p.Quantity = next
		return p, nil
	}
	return domain.Product{}, ErrConflict
}

// DeleteProduct retires the product. The row and its full ledger history
// stay queryable; only active lookups stop seeing it.
func (e *LedgerEngine) DeleteProduct(actorID, productID string) error {
	p, err := e.products.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read product: %w", err)
	}
	if !p.IsActive() {
		return ErrNotFound
	}

	tx, err := e.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := e.products.Retire(tx, productID); err != nil {
		return fmt.Errorf("retire product: %w", err)
	}

	before, after := p.Quantity, 0
	entry := domain.NewLedgerEntry(productID, actorID, domain.ActionDelete, &before, &after, "Product deleted")
	if _, err := e.ledger.Append(tx, entry); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}

	return tx.Commit()
}
