package services_test

import (
	"strings"
	"testing"
	"time"

	"invtrack/internal/config"
	"invtrack/internal/domain"
	"invtrack/internal/repos"
	"invtrack/internal/services"
)

func newFacade(t *testing.T) *services.InventoryService {
	t.Helper()
	db := memdb(t)
	products := repos.NewProductRepo(db)
	ledger := repos.NewLedgerRepo(db)
	actors := repos.NewActorRepo(db)
	engine := services.NewLedgerEngine(db, products, ledger)
	svc := services.NewInventoryService(engine, products, ledger, actors, config.NewAlertSettings(), "u-system")
	svc.Now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func input(sku, qty string) services.ProductInput {
	return services.ProductInput{
		SKU:      sku,
		Name:     "Facade Product",
		Quantity: qty,
		Unit:     "pcs",
		Price:    "19.99",
	}
}

func TestFacade_CreateAndRead(t *testing.T) {
	svc := newFacade(t)

	res := svc.CreateProduct("u-test", input("ELEC-010", "5"))
	if !res.Success || res.Payload == nil {
		t.Fatalf("create failed: %+v", res)
	}
	if res.Message != "Product created successfully" {
		t.Fatalf("bad message: %q", res.Message)
	}
	if res.Payload.Price.StringFixed(2) != "19.99" {
		t.Fatalf("price must survive as fixed-point: %s", res.Payload.Price)
	}

	got := svc.GetProduct(res.Payload.ID)
	if !got.Success || got.Payload.Quantity != 5 {
		t.Fatalf("bad read back: %+v", got)
	}
}

func TestFacade_ValidationStopsBeforeEngine(t *testing.T) {
	svc := newFacade(t)

	cases := []struct {
		name string
		in   services.ProductInput
	}{
		{"missing sku", services.ProductInput{Name: "X", Quantity: "1"}},
		{"missing name", services.ProductInput{SKU: "S-1", Quantity: "1"}},
		{"negative quantity", input("S-1", "-4")},
		{"unparseable quantity", input("S-1", "five")},
		{"negative price", func() services.ProductInput { in := input("S-1", "1"); in.Price = "-2.00"; return in }()},
		{"too many decimals", func() services.ProductInput { in := input("S-1", "1"); in.Price = "1.999"; return in }()},
		{"bad expiry", func() services.ProductInput { in := input("S-1", "1"); in.ExpiryDate = "June 1"; return in }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.CreateProduct("u-test", tc.in)
			if res.Success {
				t.Fatalf("want failure, got %+v", res)
			}
			if !strings.HasPrefix(res.Message, "Invalid ") {
				t.Fatalf("want validation message, got %q", res.Message)
			}
		})
	}

	// Nothing reached storage.
	list := svc.ListProducts()
	if !list.Success || len(*list.Payload) != 0 {
		t.Fatalf("validation failures must not persist: %+v", list)
	}
}

func TestFacade_DuplicateSKUMessage(t *testing.T) {
	svc := newFacade(t)

	if res := svc.CreateProduct("u-test", input("ELEC-010", "5")); !res.Success {
		t.Fatal(res.Message)
	}
	res := svc.CreateProduct("u-test", input("ELEC-010", "2"))
	if res.Success || res.Message != "SKU already exists" {
		t.Fatalf("want duplicate-sku failure, got %+v", res)
	}
}

func TestFacade_AdjustInsufficientMessage(t *testing.T) {
	svc := newFacade(t)

	created := svc.CreateProduct("u-test", input("ELEC-010", "3"))
	res := svc.AdjustStock("u-test", created.Payload.ID, -5, "oversell")
	if res.Success || res.Message != "Insufficient stock. Available: 3" {
		t.Fatalf("want insufficient-stock failure, got %+v", res)
	}
}

func TestFacade_SkuTrimmedOnInput(t *testing.T) {
	svc := newFacade(t)

	res := svc.CreateProduct("u-test", input("  ELEC-010  ", "5"))
	if !res.Success || res.Payload.SKU != "ELEC-010" {
		t.Fatalf("sku must be trimmed: %+v", res)
	}
	// Exact-match uniqueness after trim: same sku with spaces collides.
	dup := svc.CreateProduct("u-test", input(" ELEC-010", "1"))
	if dup.Success {
		t.Fatalf("trimmed duplicate must be rejected: %+v", dup)
	}
	// Case differs: distinct sku, no case folding.
	lower := svc.CreateProduct("u-test", input("elec-010", "1"))
	if !lower.Success {
		t.Fatalf("sku comparison must be case-sensitive: %+v", lower)
	}
}

func TestFacade_AlertBadgeFollowsStock(t *testing.T) {
	svc := newFacade(t)

	in := input("ELEC-003", "5")
	in.LowStockThreshold = "10"
	created := svc.CreateProduct("u-test", in)
	if !created.Success {
		t.Fatal(created.Message)
	}

	// 5 <= 10: warning badge.
	alerts := svc.ActiveAlerts()
	if !alerts.Success || len(*alerts.Payload) != 1 {
		t.Fatalf("want one alert, got %+v", alerts)
	}
	if (*alerts.Payload)[0].Severity != domain.SeverityWarning {
		t.Fatalf("want Warning, got %+v", (*alerts.Payload)[0])
	}

	// Sell out: alert turns critical on the next read.
	adj := svc.AdjustStock("u-test", created.Payload.ID, -5, "sold out")
	if !adj.Success || adj.Payload.Quantity != 0 {
		t.Fatalf("bad adjust: %+v", adj)
	}
	alerts = svc.ActiveAlerts()
	if (*alerts.Payload)[0].Severity != domain.SeverityCritical {
		t.Fatalf("want Critical after sellout, got %+v", (*alerts.Payload)[0])
	}

	summary := svc.AlertSummary()
	if !summary.Success || summary.Payload.Critical != 1 || summary.Payload.Total != 1 {
		t.Fatalf("bad summary: %+v", summary)
	}
}

func TestFacade_HistorySurvivesDelete(t *testing.T) {
	svc := newFacade(t)

	created := svc.CreateProduct("u-test", input("ELEC-010", "5"))
	id := created.Payload.ID
	if res := svc.DeleteProduct("u-test", id); !res.Success {
		t.Fatal(res.Message)
	}

	if res := svc.GetProductBySku("ELEC-010"); res.Success {
		t.Fatalf("retired sku must not resolve: %+v", res)
	}
	hist := svc.ProductHistory(id)
	if !hist.Success || len(*hist.Payload) != 2 {
		t.Fatalf("history must survive delete: %+v", hist)
	}
	if (*hist.Payload)[0].Action != domain.ActionDelete {
		t.Fatalf("newest entry must be DELETE: %+v", (*hist.Payload)[0])
	}
}

func TestFacade_ResolveActor(t *testing.T) {
	svc := newFacade(t)

	a, fellBack, err := svc.ResolveActor("u-test")
	if err != nil || fellBack || a.ID != "u-test" {
		t.Fatalf("known actor must resolve directly: %+v %v %v", a, fellBack, err)
	}

	a, fellBack, err = svc.ResolveActor("")
	if err != nil || !fellBack || a.ID != "u-system" {
		t.Fatalf("empty actor must fall back to system: %+v %v %v", a, fellBack, err)
	}

	a, fellBack, err = svc.ResolveActor("u-ghost")
	if err != nil || !fellBack || a.ID != "u-system" {
		t.Fatalf("unknown actor must fall back to system: %+v %v %v", a, fellBack, err)
	}
}

func TestFacade_SearchProducts(t *testing.T) {
	svc := newFacade(t)

	in := input("ELEC-010", "5")
	in.Name = "Blue Widget"
	svc.CreateProduct("u-test", in)
	in2 := input("FOOD-001", "5")
	in2.Name = "Canned Beans"
	svc.CreateProduct("u-test", in2)

	res := svc.SearchProducts("Widget")
	if !res.Success || len(*res.Payload) != 1 || (*res.Payload)[0].SKU != "ELEC-010" {
		t.Fatalf("bad search: %+v", res)
	}
	res = svc.SearchProducts("")
	if len(*res.Payload) != 2 {
		t.Fatalf("empty term lists all active: %+v", res)
	}
}
