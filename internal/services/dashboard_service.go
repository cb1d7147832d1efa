package services

import (
	"time"

	"github.com/shopspring/decimal"

	"invtrack/internal/config"
	"invtrack/internal/repos"
)

// DashboardService aggregates read-only stats for reporting consumers. It
// has no write access to anything.
type DashboardService struct {
	Products   *repos.ProductRepo
	Categories *repos.CategoryRepo
	Suppliers  *repos.SupplierRepo
	Ledger     *repos.LedgerRepo
	Alerts     *config.AlertSettings

	Now func() time.Time
}

type DashboardStats struct {
	TotalProducts       int             `json:"total_products"`
	LowStockCount       int             `json:"low_stock_count"`
	ExpiringSoonCount   int             `json:"expiring_soon_count"`
	ExpiredCount        int             `json:"expired_count"`
	TotalCategories     int             `json:"total_categories"`
	TotalSuppliers      int             `json:"total_suppliers"`
	TodayActivities     int             `json:"today_activities"`
	TotalItems          int             `json:"total_items"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}

func NewDashboardService(products *repos.ProductRepo, categories *repos.CategoryRepo,
	suppliers *repos.SupplierRepo, ledger *repos.LedgerRepo, alerts *config.AlertSettings) *DashboardService {
	return &DashboardService{
		Products:   products,
		Categories: categories,
		Suppliers:  suppliers,
		Ledger:     ledger,
		Alerts:     alerts,
		Now:        time.Now,
	}
}

func (s *DashboardService) Stats() (DashboardStats, error) {
	var stats DashboardStats

	products, err := s.Products.ListActive()
	if err != nil {
		return stats, err
	}
	now := s.Now()
	thresholds := s.Alerts.Current()

	stats.TotalProducts = len(products)
	stats.TotalInventoryValue = decimal.Zero
	for _, p := range products {
		if p.IsLowStock() {
			stats.LowStockCount++
		}
		if p.IsExpired(now) {
			stats.ExpiredCount++
		} else if p.ExpiryDate != nil && p.DaysUntilExpiry(now) <= thresholds.ExpiryWindowDays {
			stats.ExpiringSoonCount++
		}
		stats.TotalItems += p.Quantity
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		stats.TotalInventoryValue = stats.TotalInventoryValue.Add(value)
	}

	if stats.TotalCategories, err = s.Categories.Count(); err != nil {
		return stats, err
	}
	if stats.TotalSuppliers, err = s.Suppliers.Count(); err != nil {
		return stats, err
	}
	if stats.TodayActivities, err = s.Ledger.CountToday(); err != nil {
		return stats, err
	}
	return stats, nil
}

// CategoryDistribution maps category names to active product counts.
func (s *DashboardService) CategoryDistribution() (map[string]int, error) {
	return s.Categories.CountsByName()
}
