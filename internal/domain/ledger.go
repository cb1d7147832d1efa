package domain

// Action classifies a ledger entry.
type Action string

const (
	ActionAdd        Action = "ADD"
	ActionUpdate     Action = "UPDATE"
	ActionDelete     Action = "DELETE"
	ActionStockIn    Action = "STOCK_IN"
	ActionStockOut   Action = "STOCK_OUT"
	ActionAdjustment Action = "ADJUSTMENT"
)

// LedgerEntry is one immutable audit record of a state-changing operation
// against a product. Entries are append-only: never updated, never deleted.
type LedgerEntry struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ActorID        string `json:"actor_id"`
	Action         Action `json:"action"`
	QuantityBefore *int   `json:"quantity_before,omitempty"`
	QuantityAfter  *int   `json:"quantity_after,omitempty"`
	QuantityChange *int   `json:"quantity_change,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// NewLedgerEntry derives QuantityChange when both operands are present.
func NewLedgerEntry(productID, actorID string, action Action, before, after *int, notes string) LedgerEntry {
	e := LedgerEntry{
		ProductID:      productID,
		ActorID:        actorID,
		Action:         action,
		QuantityBefore: before,
		QuantityAfter:  after,
		Notes:          notes,
	}
	if before != nil && after != nil {
		change := *after - *before
		e.QuantityChange = &change
	}
	return e
}

// LedgerDetail is the enriched read shape for audit listings.
type LedgerDetail struct {
	LedgerEntry
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	ActorName   string `json:"actor_name"`
}

type Actor struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
}
