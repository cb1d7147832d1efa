package services_test

import (
	"reflect"
	"testing"
	"time"

	"invtrack/internal/config"
	"invtrack/internal/domain"
	"invtrack/internal/services"
)

var testThresholds = config.AlertThresholds{ExpiryWindowDays: 7, ExpiryWarningDays: 3, DefaultLowStock: 10}

func activeProduct(sku string, qty, threshold int) domain.Product {
	return domain.Product{
		ID:                "p-" + sku,
		SKU:               sku,
		Name:              "Product " + sku,
		Quantity:          qty,
		Unit:              "pcs",
		LowStockThreshold: threshold,
		Status:            domain.LifecycleActive,
	}
}

func withExpiry(p domain.Product, daysFromNow int, now time.Time) domain.Product {
	d := domain.DateOnly(now).AddDate(0, 0, daysFromNow)
	p.ExpiryDate = &d
	return p
}

func TestAlerts_LowStockSeverity(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	// 5 <= 10 and 5 > 0: warning
	alerts := services.EvaluateAlerts([]domain.Product{activeProduct("ELEC-003", 5, 10)}, testThresholds, now)
	if len(alerts) != 1 {
		t.Fatalf("want 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != domain.AlertLowStock || alerts[0].Severity != domain.SeverityWarning {
		t.Fatalf("want LowStock/Warning, got %+v", alerts[0])
	}

	// quantity 0: critical
	alerts = services.EvaluateAlerts([]domain.Product{activeProduct("ELEC-003", 0, 10)}, testThresholds, now)
	if alerts[0].Severity != domain.SeverityCritical {
		t.Fatalf("out of stock must be Critical, got %+v", alerts[0])
	}

	// above threshold: silent
	alerts = services.EvaluateAlerts([]domain.Product{activeProduct("ELEC-003", 11, 10)}, testThresholds, now)
	if len(alerts) != 0 {
		t.Fatalf("want no alerts, got %+v", alerts)
	}
}

func TestAlerts_ExpirySeverity(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	base := activeProduct("FOOD-001", 50, 10)

	cases := []struct {
		name     string
		days     int
		wantType domain.AlertType
		wantSev  domain.AlertSeverity
	}{
		{"five days out is info", 5, domain.AlertExpiringSoon, domain.SeverityInfo},
		{"window edge is info", 7, domain.AlertExpiringSoon, domain.SeverityInfo},
		{"two days out is warning", 2, domain.AlertExpiringSoon, domain.SeverityWarning},
		{"today is warning", 0, domain.AlertExpiringSoon, domain.SeverityWarning},
		{"yesterday is expired", -1, domain.AlertExpired, domain.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := services.EvaluateAlerts([]domain.Product{withExpiry(base, tc.days, now)}, testThresholds, now)
			if len(alerts) != 1 {
				t.Fatalf("want 1 alert, got %+v", alerts)
			}
			if alerts[0].Type != tc.wantType || alerts[0].Severity != tc.wantSev {
				t.Fatalf("want %s/%s, got %s/%s", tc.wantType, tc.wantSev, alerts[0].Type, alerts[0].Severity)
			}
		})
	}

	// Outside the window: silent.
	alerts := services.EvaluateAlerts([]domain.Product{withExpiry(base, 8, now)}, testThresholds, now)
	if len(alerts) != 0 {
		t.Fatalf("8 days out must be silent, got %+v", alerts)
	}

	// No expiry date: never an expiry alert.
	alerts = services.EvaluateAlerts([]domain.Product{base}, testThresholds, now)
	if len(alerts) != 0 {
		t.Fatalf("nil expiry must be silent, got %+v", alerts)
	}
}

func TestAlerts_MultiplePerProduct(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	p := withExpiry(activeProduct("MIX-001", 2, 10), 2, now)

	alerts := services.EvaluateAlerts([]domain.Product{p}, testThresholds, now)
	if len(alerts) != 2 {
		t.Fatalf("low stock + expiring must both fire, got %+v", alerts)
	}
}

func TestAlerts_Ordering(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	products := []domain.Product{
		activeProduct("LOW-B", 4, 10),
		activeProduct("LOW-A", 1, 10),
		withExpiry(activeProduct("EXP-LATE", 99, 10), 6, now),
		withExpiry(activeProduct("EXP-SOON", 99, 10), 1, now),
		withExpiry(activeProduct("EXP-GONE", 99, 10), -2, now),
	}

	alerts := services.EvaluateAlerts(products, testThresholds, now)
	var skus []string
	for _, a := range alerts {
		skus = append(skus, a.SKU)
	}
	want := []string{"LOW-A", "LOW-B", "EXP-GONE", "EXP-SOON", "EXP-LATE"}
	if !reflect.DeepEqual(skus, want) {
		t.Fatalf("want order %v, got %v", want, skus)
	}
}

func TestAlerts_IdempotentOnSameSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	products := []domain.Product{
		activeProduct("A-1", 0, 10),
		activeProduct("A-2", 5, 10),
		withExpiry(activeProduct("A-3", 50, 10), 2, now),
	}

	first := services.EvaluateAlerts(products, testThresholds, now)
	second := services.EvaluateAlerts(products, testThresholds, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluator must be deterministic:\n%v\n%v", first, second)
	}
}

func TestAlerts_CountsDeriveFromList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	products := []domain.Product{
		activeProduct("C-1", 0, 10),                          // critical (out of stock)
		activeProduct("C-2", 5, 10),                          // warning (low)
		withExpiry(activeProduct("C-3", 50, 10), -1, now),    // critical (expired)
		withExpiry(activeProduct("C-4", 50, 10), 2, now),     // warning (expiring)
		withExpiry(activeProduct("C-5", 50, 10), 6, now),     // info (expiring)
	}

	alerts := services.EvaluateAlerts(products, testThresholds, now)
	counts := services.CountAlerts(alerts)
	if counts.Critical != 2 || counts.Warning != 2 || counts.Info != 1 || counts.Total != 5 {
		t.Fatalf("bad counts: %+v", counts)
	}
	if counts.Total != len(alerts) {
		t.Fatalf("total must equal list length")
	}
}
