package services

import (
	"fmt"
	"sort"
	"time"

	"invtrack/internal/config"
	"invtrack/internal/domain"
)

// EvaluateAlerts derives the alert list from a snapshot of active products.
// It is a pure function of its arguments: same snapshot, same thresholds,
// same clock, same alerts in the same order. A product can appear more than
// once (e.g. low stock and expiring); duplicates are intentional.
//
// Ordering: low-stock alerts by ascending quantity, then expiry alerts
// (expired first) by ascending expiry date. Ties break on SKU.
func EvaluateAlerts(products []domain.Product, t config.AlertThresholds, now time.Time) []domain.Alert {
	today := domain.DateOnly(now)

	var lowStock, expired, expiring []domain.Alert
	lowQty := map[string]int{}
	expDate := map[string]string{}

	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		if p.IsLowStock() {
			a := lowStockAlert(p)
			lowStock = append(lowStock, a)
			lowQty[a.ProductID] = p.Quantity
		}
		if p.ExpiryDate == nil {
			continue
		}
		days := p.DaysUntilExpiry(today)
		switch {
		case p.IsExpired(today):
			a := domain.Alert{
				Type:      domain.AlertExpired,
				Severity:  domain.SeverityCritical,
				Message:   fmt.Sprintf("EXPIRED: %s (%s) - expired on %s", p.Name, p.SKU, p.ExpiryDate.Format("2006-01-02")),
				ProductID: p.ID,
				SKU:       p.SKU,
			}
			expired = append(expired, a)
			expDate[a.ProductID] = p.ExpiryDate.Format("2006-01-02")
		case days <= t.ExpiryWindowDays:
			sev := domain.SeverityInfo
			if days <= t.ExpiryWarningDays {
				sev = domain.SeverityWarning
			}
			a := domain.Alert{
				Type:      domain.AlertExpiringSoon,
				Severity:  sev,
				Message:   fmt.Sprintf("Expiring soon: %s (%s) - expires in %d days on %s", p.Name, p.SKU, days, p.ExpiryDate.Format("2006-01-02")),
				ProductID: p.ID,
				SKU:       p.SKU,
			}
			expiring = append(expiring, a)
			expDate[a.ProductID] = p.ExpiryDate.Format("2006-01-02")
		}
	}

	sort.SliceStable(lowStock, func(i, j int) bool {
		qi, qj := lowQty[lowStock[i].ProductID], lowQty[lowStock[j].ProductID]
		if qi != qj {
			return qi < qj
		}
		return lowStock[i].SKU < lowStock[j].SKU
	})
	byDate := func(s []domain.Alert) {
		sort.SliceStable(s, func(i, j int) bool {
			di, dj := expDate[s[i].ProductID], expDate[s[j].ProductID]
			if di != dj {
				return di < dj
			}
			return s[i].SKU < s[j].SKU
		})
	}
	byDate(expired)
	byDate(expiring)

	out := make([]domain.Alert, 0, len(lowStock)+len(expired)+len(expiring))
	out = append(out, lowStock...)
	out = append(out, expired...)
	out = append(out, expiring...)
	return out
}

func lowStockAlert(p domain.Product) domain.Alert {
	if p.IsOutOfStock() {
		return domain.Alert{
			Type:      domain.AlertLowStock,
			Severity:  domain.SeverityCritical,
			Message:   fmt.Sprintf("OUT OF STOCK: %s (%s)", p.Name, p.SKU),
			ProductID: p.ID,
			SKU:       p.SKU,
		}
	}
	msg := fmt.Sprintf("Low stock: %s (%s) - only %d %s remaining (threshold: %d)",
		p.Name, p.SKU, p.Quantity, p.Unit, p.LowStockThreshold)
	return domain.Alert{
		Type:      domain.AlertLowStock,
		Severity:  domain.SeverityWarning,
		Message:   msg,
		ProductID: p.ID,
		SKU:       p.SKU,
	}
}

// AlertCounts summarises an alert list by severity. Counting is derived from
// the evaluated list itself so it can never disagree with it.
type AlertCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

func CountAlerts(alerts []domain.Alert) AlertCounts {
	var c AlertCounts
	for _, a := range alerts {
		switch a.Severity {
		case domain.SeverityCritical:
			c.Critical++
		case domain.SeverityWarning:
			c.Warning++
		case domain.SeverityInfo:
			c.Info++
		}
	}
	c.Total = len(alerts)
	return c
}
