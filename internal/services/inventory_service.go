package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"invtrack/internal/config"
	"invtrack/internal/domain"
	"invtrack/internal/repos"
	"invtrack/internal/validate"
)

// Result is the stable shape every facade operation returns. Errors never
// escape as panics or control flow; they become Success=false with a
// user-facing message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload *T     `json:"payload"`
}

func ok[T any](msg string, v T) Result[T] {
	return Result[T]{Success: true, Message: msg, Payload: &v}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Success: false, Message: msg}
}

// ProductInput is the untyped field set as it arrives from a caller; the
// facade validates and converts before the engine ever sees it.
type ProductInput struct {
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	CategoryID        string `json:"category_id"`
	SupplierID        string `json:"supplier_id"`
	Quantity          string `json:"quantity"`
	Unit              string `json:"unit"`
	Price             string `json:"price"`
	CostPrice         string `json:"cost_price"`
	LowStockThreshold string `json:"low_stock_threshold"`
	ExpiryDate        string `json:"expiry_date"`
	Barcode           string `json:"barcode"`
	Location          string `json:"location"`
}

// InventoryService is the facade: field-level validation, delegation to the
// ledger engine, and alert recomputation on read. It never touches quantity
// outside the engine.
type InventoryService struct {
	Engine   *LedgerEngine
	Products *repos.ProductRepo
	Ledger   *repos.LedgerRepo
	Actors   *repos.ActorRepo
	Alerts   *config.AlertSettings

	SystemActorID string
	Now           func() time.Time
}

func NewInventoryService(engine *LedgerEngine, products *repos.ProductRepo, ledger *repos.LedgerRepo,
	actors *repos.ActorRepo, alerts *config.AlertSettings, systemActorID string) *InventoryService {
	return &InventoryService{
		Engine:        engine,
		Products:      products,
		Ledger:        ledger,
		Actors:        actors,
		Alerts:        alerts,
		SystemActorID: systemActorID,
		Now:           time.Now,
	}
}

// ResolveActor maps a requested actor id onto a known identity. An empty or
// unknown id falls back to the configured system actor; the second return
// tells the caller a fallback happened so it can be audited, never silent.
func (s *InventoryService) ResolveActor(requested string) (domain.Actor, bool, error) {
	if requested != "" {
		a, err := s.Actors.Get(requested)
		if err == nil {
			return a, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Actor{}, false, err
		}
	}
	a, err := s.Actors.Get(s.SystemActorID)
	if err != nil {
		return domain.Actor{}, false, fmt.Errorf("system actor %q missing: %w", s.SystemActorID, err)
	}
	return a, true, nil
}

func (s *InventoryService) parseInput(in ProductInput) (domain.Product, error) {
	var p domain.Product

	sku, okSKU := validate.SKU(in.SKU)
	if !okSKU {
		return p, invalid("sku", "required")
	}
	name, okName := validate.Name(in.Name)
	if !okName {
		return p, invalid("name", "required")
	}
	qty, okQty := validate.Quantity(in.Quantity)
	if !okQty {
		return p, invalid("quantity", "must be a non-negative integer")
	}
	price, okPrice := validate.Money(in.Price)
	if !okPrice {
		return p, invalid("price", "must be a non-negative amount")
	}
	cost, okCost := validate.Money(in.CostPrice)
	if !okCost {
		return p, invalid("cost_price", "must be a non-negative amount")
	}
	threshold, okThr := validate.Quantity(in.LowStockThreshold)
	if !okThr {
		return p, invalid("low_stock_threshold", "must be a non-negative integer")
	}
	if in.LowStockThreshold == "" {
		threshold = s.Alerts.Current().DefaultLowStock
	}

	p = domain.Product{
		SKU:               sku,
		Name:              name,
		Description:       validate.Notes(in.Description),
		Quantity:          qty,
		Unit:              in.Unit,
		Price:             price,
		CostPrice:         cost,
		LowStockThreshold: threshold,
	}

	if in.ExpiryDate != "" {
		d, okDate := validate.Date(in.ExpiryDate)
		if !okDate {
			return p, invalid("expiry_date", "must be YYYY-MM-DD")
		}
		p.ExpiryDate = &d
	}
	if in.CategoryID != "" {
		id, okID := validate.ID(in.CategoryID)
		if !okID {
			return p, invalid("category_id", "malformed id")
		}
		p.CategoryID = &id
	}
	if in.SupplierID != "" {
		id, okID := validate.ID(in.SupplierID)
		if !okID {
			return p, invalid("supplier_id", "malformed id")
		}
		p.SupplierID = &id
	}
	if in.Barcode != "" {
		b := in.Barcode
		p.Barcode = &b
	}
	if in.Location != "" {
		l := in.Location
		p.Location = &l
	}
	return p, nil
}

func (s *InventoryService) CreateProduct(actorID string, in ProductInput) Result[domain.Product] {
	p, err := s.parseInput(in)
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	created, err := s.Engine.CreateProduct(actorID, p)
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	return ok("Product created successfully", created)
}

func (s *InventoryService) UpdateProduct(actorID, productID string, in ProductInput) Result[domain.Product] {
	id, okID := validate.ID(productID)
	if !okID {
		return fail[domain.Product]("Product not found")
	}
	p, err := s.parseInput(in)
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	p.ID = id
	updated, err := s.Engine.UpdateProduct(actorID, p)
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	return ok("Product updated successfully", updated)
}

func (s *InventoryService) AdjustStock(actorID, productID string, delta int, reason string) Result[domain.Product] {
	id, okID := validate.ID(productID)
	if !okID {
		return fail[domain.Product]("Product not found")
	}
	p, err := s.Engine.AdjustStock(actorID, id, delta, validate.Notes(reason))
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	return ok("Stock adjusted successfully", p)
}

func (s *InventoryService) DeleteProduct(actorID, productID string) Result[struct{}] {
	id, okID := validate.ID(productID)
	if !okID {
		return fail[struct{}]("Product not found")
	}
	if err := s.Engine.DeleteProduct(actorID, id); err != nil {
		return fail[struct{}](userMessage(err))
	}
	return ok("Product deleted successfully", struct{}{})
}

func (s *InventoryService) GetProduct(productID string) Result[domain.ProductDetail] {
	d, err := s.Products.Detail(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return fail[domain.ProductDetail]("Product not found")
	}
	if err != nil {
		return fail[domain.ProductDetail](userMessage(err))
	}
	if !d.IsActive() {
		return fail[domain.ProductDetail]("Product not found")
	}
	return ok("OK", d)
}

func (s *InventoryService) GetProductBySku(sku string) Result[domain.Product] {
	trimmed, okSKU := validate.SKU(sku)
	if !okSKU {
		return fail[domain.Product]("Product not found")
	}
	p, err := s.Products.GetBySku(trimmed)
	if errors.Is(err, sql.ErrNoRows) {
		return fail[domain.Product]("Product not found")
	}
	if err != nil {
		return fail[domain.Product](userMessage(err))
	}
	return ok("OK", p)
}

func (s *InventoryService) ListProducts() Result[[]domain.Product] {
	items, err := s.Products.ListActive()
	if err != nil {
		return fail[[]domain.Product](userMessage(err))
	}
	return ok("OK", items)
}

func (s *InventoryService) SearchProducts(term string) Result[[]domain.Product] {
	if term == "" {
		return s.ListProducts()
	}
	items, err := s.Products.Search(term)
	if err != nil {
		return fail[[]domain.Product](userMessage(err))
	}
	return ok("OK", items)
}

// ProductHistory lists the ledger for a product, including retired ones:
// history outlives the product's active life.
func (s *InventoryService) ProductHistory(productID string) Result[[]domain.LedgerDetail] {
	if _, err := s.Products.Get(productID); errors.Is(err, sql.ErrNoRows) {
		return fail[[]domain.LedgerDetail]("Product not found")
	} else if err != nil {
		return fail[[]domain.LedgerDetail](userMessage(err))
	}
	entries, err := s.Ledger.ListByProduct(productID)
	if err != nil {
		return fail[[]domain.LedgerDetail](userMessage(err))
	}
	return ok("OK", entries)
}

func (s *InventoryService) RecentActivity(limit int) Result[[]domain.LedgerDetail] {
	entries, err := s.Ledger.ListRecent(limit)
	if err != nil {
		return fail[[]domain.LedgerDetail](userMessage(err))
	}
	return ok("OK", entries)
}

// ActiveAlerts recomputes the alert set from the current active snapshot.
// Nothing is stored; two calls on an unchanged snapshot return identical
// lists.
func (s *InventoryService) ActiveAlerts() Result[[]domain.Alert] {
	products, err := s.Products.ListActive()
	if err != nil {
		return fail[[]domain.Alert](userMessage(err))
	}
	alerts := EvaluateAlerts(products, s.Alerts.Current(), s.Now())
	return ok("OK", alerts)
}

func (s *InventoryService) AlertSummary() Result[AlertCounts] {
	products, err := s.Products.ListActive()
	if err != nil {
		return fail[AlertCounts](userMessage(err))
	}
	counts := CountAlerts(EvaluateAlerts(products, s.Alerts.Current(), s.Now()))
	return ok("OK", counts)
}

// userMessage translates engine errors into stable user-facing text.
// Unrecognised errors are storage failures: transient, safe to surface as
// retryable because nothing was partially applied.
func userMessage(err error) string {
	var vErr *ValidationError
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &vErr):
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Reason)
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Insufficient stock. Available: %d", stockErr.Available)
	case errors.Is(err, ErrDuplicateSKU):
		return "SKU already exists"
	case errors.Is(err, ErrNotFound):
		return "Product not found"
	case errors.Is(err, ErrConflict):
		return "Operation conflicted with a concurrent change, please retry"
	default:
		log.Printf("[storage] %v", err)
		return "Storage unavailable, please retry"
	}
}
