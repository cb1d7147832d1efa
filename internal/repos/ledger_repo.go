package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invtrack/internal/domain"
)

// LedgerRepo is the append-only audit store. There is deliberately no
// update or delete method on it.
type LedgerRepo struct{ db *sqlx.DB }

func NewLedgerRepo(db *sqlx.DB) *LedgerRepo { return &LedgerRepo{db: db} }

type ledgerRow struct {
	ID             string        `db:"id"`
	ProductID      string        `db:"product_id"`
	ActorID        string        `db:"actor_id"`
	Action         string        `db:"action"`
	QuantityBefore sql.NullInt64 `db:"quantity_before"`
	QuantityAfter  sql.NullInt64 `db:"quantity_after"`
	QuantityChange sql.NullInt64 `db:"quantity_change"`
	Notes          string        `db:"notes"`
	CreatedAt      string        `db:"created_at"`
	ProductName    string        `db:"product_name"`
	ProductSKU     string        `db:"product_sku"`
	ActorName      string        `db:"actor_name"`
}

const ledgerJoin = `
	SELECT l.id, l.product_id, l.actor_id, l.action,
	       l.quantity_before, l.quantity_after, l.quantity_change,
	       COALESCE(l.notes,'') AS notes, l.created_at,
	       p.name AS product_name, p.sku AS product_sku, a.name AS actor_name
	FROM inventory_logs l
	JOIN products p ON p.id = l.product_id
	JOIN actors a ON a.id = l.actor_id`

func (r ledgerRow) toDomain() domain.LedgerDetail {
	d := domain.LedgerDetail{
		LedgerEntry: domain.LedgerEntry{
			ID:        r.ID,
			ProductID: r.ProductID,
			ActorID:   r.ActorID,
			Action:    domain.Action(r.Action),
			Notes:     r.Notes,
			CreatedAt: r.CreatedAt,
		},
		ProductName: r.ProductName,
		ProductSKU:  r.ProductSKU,
		ActorName:   r.ActorName,
	}
	d.QuantityBefore = optInt(r.QuantityBefore)
	d.QuantityAfter = optInt(r.QuantityAfter)
	d.QuantityChange = optInt(r.QuantityChange)
	return d
}

func optInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// Append writes one entry and assigns its id and server timestamp. It takes
// a sqlx.Ext so the engine can commit it atomically with the product write.
func (r *LedgerRepo) Append(q sqlx.Ext, e domain.LedgerEntry) (domain.LedgerEntry, error) {
	e.ID = uuid.NewString()
	_, err := q.Exec(`
		INSERT INTO inventory_logs(
		  id, product_id, actor_id, action,
		  quantity_before, quantity_after, quantity_change, notes, created_at
		) VALUES (?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, e.ID, e.ProductID, e.ActorID, string(e.Action),
		nullInt(e.QuantityBefore), nullInt(e.QuantityAfter), nullInt(e.QuantityChange), e.Notes)
	return e, err
}

// ListByProduct returns the full history for a product, newest first,
// including entries for retired products.
func (r *LedgerRepo) ListByProduct(productID string) ([]domain.LedgerDetail, error) {
	var rows []ledgerRow
	err := r.db.Select(&rows, ledgerJoin+` WHERE l.product_id = ? ORDER BY l.created_at DESC, l.rowid DESC`, productID)
	return toDetailList(rows), err
}

func (r *LedgerRepo) ListByActor(actorID string) ([]domain.LedgerDetail, error) {
	var rows []ledgerRow
	err := r.db.Select(&rows, ledgerJoin+` WHERE l.actor_id = ? ORDER BY l.created_at DESC, l.rowid DESC`, actorID)
	return toDetailList(rows), err
}

func (r *LedgerRepo) ListRecent(limit int) ([]domain.LedgerDetail, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []ledgerRow
	err := r.db.Select(&rows, ledgerJoin+` ORDER BY l.created_at DESC, l.rowid DESC LIMIT ?`, limit)
	return toDetailList(rows), err
}

// ListRange returns entries between two ISO dates inclusive, for reporting.
func (r *LedgerRepo) ListRange(fromDate, toDate string) ([]domain.LedgerDetail, error) {
	var rows []ledgerRow
	err := r.db.Select(&rows, ledgerJoin+`
		WHERE DATE(l.created_at) >= ? AND DATE(l.created_at) <= ?
		ORDER BY l.created_at DESC, l.rowid DESC`, fromDate, toDate)
	return toDetailList(rows), err
}

func (r *LedgerRepo) CountToday() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM inventory_logs WHERE DATE(created_at) = DATE('now')`)
	return n, err
}

func toDetailList(rows []ledgerRow) []domain.LedgerDetail {
	out := make([]domain.LedgerDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
