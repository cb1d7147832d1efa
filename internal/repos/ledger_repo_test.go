package repos_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"invtrack/internal/domain"
	"invtrack/internal/repos"
)

func TestLedgerRepo_AppendAssignsIdentity(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)
	ledger := repos.NewLedgerRepo(db)
	p := insertProduct(t, products, db, domain.Product{SKU: "ELEC-001", Name: "Widget", Quantity: 5})

	after := 5
	e, err := ledger.Append(db, domain.NewLedgerEntry(p.ID, "u-test", domain.ActionAdd, nil, &after, "initial"))
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == "" {
		t.Fatal("append must assign an id")
	}

	entries, err := ledger.ListByProduct(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.CreatedAt == "" || got.ActorName != "Tester" || got.ProductName != "Widget" || got.ProductSKU != "ELEC-001" {
		t.Fatalf("join fields missing: %+v", got)
	}
	if got.QuantityBefore != nil || *got.QuantityAfter != 5 || *got.QuantityChange != 5 {
		t.Fatalf("bad quantity bookkeeping: %+v", got)
	}
}

func TestLedgerRepo_QueriesNewestFirstWithLimit(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)
	ledger := repos.NewLedgerRepo(db)
	p := insertProduct(t, products, db, domain.Product{SKU: "ELEC-001", Name: "Widget", Quantity: 0})

	qty := func(n int) *int { return &n }
	for i := 1; i <= 5; i++ {
		e := domain.NewLedgerEntry(p.ID, "u-test", domain.ActionStockIn, qty(i-1), qty(i), "")
		if _, err := ledger.Append(db, e); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := ledger.ListRecent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("limit not applied: got %d", len(recent))
	}
	// Same-second timestamps still come back in insertion order, newest first.
	if *recent[0].QuantityAfter != 5 || *recent[1].QuantityAfter != 4 || *recent[2].QuantityAfter != 3 {
		t.Fatalf("not newest first: %+v", recent)
	}

	byActor, err := ledger.ListByActor("u-test")
	if err != nil {
		t.Fatal(err)
	}
	if len(byActor) != 5 || *byActor[0].QuantityAfter != 5 {
		t.Fatalf("bad actor listing: %d", len(byActor))
	}

	n, err := ledger.CountToday()
	if err != nil || n != 5 {
		t.Fatalf("want 5 entries today, got %d (%v)", n, err)
	}
}

func TestLedgerRepo_ListRange(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)
	ledger := repos.NewLedgerRepo(db)
	p := insertProduct(t, products, db, domain.Product{SKU: "ELEC-001", Name: "Widget", Quantity: 1})

	after := 1
	if _, err := ledger.Append(db, domain.NewLedgerEntry(p.ID, "u-test", domain.ActionAdd, nil, &after, "")); err != nil {
		t.Fatal(err)
	}
	// Backdate a second entry so the range filter has something to exclude.
	old := domain.NewLedgerEntry(p.ID, "u-test", domain.ActionAdjustment, &after, &after, "")
	stored, err := ledger.Append(db, old)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE inventory_logs SET created_at = '2020-01-05 12:00:00' WHERE id = ?`, stored.ID); err != nil {
		t.Fatal(err)
	}

	got, err := ledger.ListRange("2020-01-01", "2020-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Action != domain.ActionAdjustment {
		t.Fatalf("range must isolate the backdated entry: %+v", got)
	}
}

func TestLedgerRepo_EntriesSurviveProductRetirement(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)
	ledger := repos.NewLedgerRepo(db)
	p := insertProduct(t, products, db, domain.Product{SKU: "ELEC-001", Name: "Widget", Quantity: 2, Price: decimal.RequireFromString("1.00")})

	after := 2
	if _, err := ledger.Append(db, domain.NewLedgerEntry(p.ID, "u-test", domain.ActionAdd, nil, &after, "")); err != nil {
		t.Fatal(err)
	}
	if err := products.Retire(db, p.ID); err != nil {
		t.Fatal(err)
	}

	entries, err := ledger.ListByProduct(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ProductName != "Widget" {
		t.Fatalf("history must survive retirement with join fields intact: %+v", entries)
	}
}
