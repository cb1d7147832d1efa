package handlers

import (
	"github.com/jmoiron/sqlx"

	"invtrack/internal/config"
	"invtrack/internal/repos"
	"invtrack/internal/services"
)

type Deps struct {
	ProductHandler   *ProductHandler
	LedgerHandler    *LedgerHandler
	AlertHandler     *AlertHandler
	DashboardHandler *DashboardHandler

	Inventory *services.InventoryService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	productRepo := repos.NewProductRepo(db)
	ledgerRepo := repos.NewLedgerRepo(db)
	actorRepo := repos.NewActorRepo(db)
	categoryRepo := repos.NewCategoryRepo(db)
	supplierRepo := repos.NewSupplierRepo(db)

	engine := services.NewLedgerEngine(db, productRepo, ledgerRepo)
	invSvc := services.NewInventoryService(engine, productRepo, ledgerRepo, actorRepo, cfg.Alerts, cfg.SystemActorID)
	dashSvc := services.NewDashboardService(productRepo, categoryRepo, supplierRepo, ledgerRepo, cfg.Alerts)

	return &Deps{
		ProductHandler:   &ProductHandler{Inv: invSvc},
		LedgerHandler:    &LedgerHandler{Inv: invSvc},
		AlertHandler:     &AlertHandler{Inv: invSvc, Settings: cfg.Alerts},
		DashboardHandler: &DashboardHandler{Dash: dashSvc},
		Inventory:        invSvc,
	}
}
