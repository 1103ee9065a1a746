package services

import (
	"tillbook/internal/cache"
	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/store"
)

// Hydrate loads every collection from the store into the presentation cache
// at startup and seeds the default settings record if none exists yet. Read
// failures degrade to an empty collection and a log line, never a fatal.
func Hydrate(st store.Store, c *cache.Cache) {
	var items []domain.Item
	if err := st.List(store.Items, &items); err != nil {
		applog.Error(nil, "boot.hydrate.items", err, nil)
	}
	c.ReplaceItems(items)

	var orders []domain.Order
	if err := st.List(store.Orders, &orders); err != nil {
		applog.Error(nil, "boot.hydrate.orders", err, nil)
	}
	c.ReplaceOrders(orders)

	var parties []domain.Party
	if err := st.List(store.Parties, &parties); err != nil {
		applog.Error(nil, "boot.hydrate.parties", err, nil)
	}
	c.ReplaceParties(parties)

	var cfgs []domain.Settings
	if err := st.List(store.Config, &cfgs); err != nil {
		applog.Error(nil, "boot.hydrate.config", err, nil)
	}
	seeded := false
	for _, cfg := range cfgs {
		if cfg.ID == domain.SettingsID {
			c.SetSettings(cfg)
			seeded = true
			break
		}
	}
	if !seeded {
		defaults := domain.DefaultSettings()
		if err := st.Put(store.Config, defaults); err != nil {
			applog.Error(nil, "boot.seed.config", err, nil)
		}
		c.SetSettings(defaults)
	}
}
