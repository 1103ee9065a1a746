package handlers

import (
	"tillbook/internal/cache"
	"tillbook/internal/ledger"
	"tillbook/internal/services"
	"tillbook/internal/store"
)

type Deps struct {
	ItemHandler     *ItemHandler
	OrderHandler    *OrderHandler
	PartyHandler    *PartyHandler
	SettingsHandler *SettingsHandler
	SystemHandler   *SystemHandler
}

func NewDeps(st store.Store, c *cache.Cache) *Deps {
	engine := ledger.NewEngine(st, c)
	catalogSvc := services.NewCatalogService(st, c)
	partySvc := services.NewPartyService(st, c)
	settingsSvc := services.NewSettingsService(st, c)

	return &Deps{
		ItemHandler:     &ItemHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Ledger: engine, Cache: c},
		PartyHandler:    &PartyHandler{Parties: partySvc},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc},
		SystemHandler:   &SystemHandler{Ledger: engine},
	}
}
