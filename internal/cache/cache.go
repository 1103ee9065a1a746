// Package cache holds the in-memory view of each collection that the rest of
// the application reads. Exactly two writers exist: the ledger engine
// (optimistic, after a confirmed store write) and the reconciliation merger
// (authoritative, from change events). Readers only ever get copies.
package cache

import (
	"sort"
	"strings"
	"sync"

	"tillbook/internal/domain"
)

type Cache struct {
	mu       sync.RWMutex
	items    []domain.Item
	orders   []domain.Order
	parties  []domain.Party
	settings domain.Settings
}

func New() *Cache {
	return &Cache{settings: domain.DefaultSettings()}
}

// ---------- readers (copies only) ----------

func (c *Cache) Items() []domain.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache) Item(id string) (domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Item{}, false
}

func (c *Cache) Orders() []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

func (c *Cache) Order(id string) (domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (c *Cache) Parties() []domain.Party {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Party, len(c.parties))
	copy(out, c.parties)
	return out
}

func (c *Cache) Settings() domain.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// ---------- writers ----------

func (c *Cache) ReplaceItems(items []domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = dedupItems(items)
	sortItems(c.items)
}

func (c *Cache) UpsertItem(it domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = upsertItem(c.items, it)
	sortItems(c.items)
}

// AddItemIfAbsent inserts only when no entry with the same id exists, so an
// insert event replayed after an optimistic local write cannot duplicate.
func (c *Cache) AddItemIfAbsent(it domain.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.items {
		if x.ID == it.ID {
			return
		}
	}
	c.items = append(c.items, it)
	sortItems(c.items)
}

func (c *Cache) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = removeItem(c.items, id)
}

func (c *Cache) ReplaceOrders(orders []domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = dedupOrders(orders)
	sortOrders(c.orders)
}

func (c *Cache) UpsertOrder(o domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = upsertOrder(c.orders, o)
	sortOrders(c.orders)
}

func (c *Cache) AddOrderIfAbsent(o domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.orders {
		if x.ID == o.ID {
			return
		}
	}
	c.orders = append(c.orders, o)
	sortOrders(c.orders)
}

func (c *Cache) RemoveOrder(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = removeOrder(c.orders, id)
}

func (c *Cache) ReplaceParties(parties []domain.Party) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parties = dedupParties(parties)
	sortParties(c.parties)
}

func (c *Cache) UpsertParty(p domain.Party) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parties = upsertParty(c.parties, p)
	sortParties(c.parties)
}

func (c *Cache) AddPartyIfAbsent(p domain.Party) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, x := range c.parties {
		if x.ID == p.ID {
			return
		}
	}
	c.parties = append(c.parties, p)
	sortParties(c.parties)
}

func (c *Cache) RemoveParty(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parties = removeParty(c.parties, id)
}

func (c *Cache) SetSettings(s domain.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}

// Reset drops every collection and restores default settings. Factory reset
// only; not recoverable.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.orders = nil
	c.parties = nil
	c.settings = domain.DefaultSettings()
}

// ---------- display order ----------

func sortItems(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// Orders show newest first; id breaks timestamp ties deterministically.
func sortOrders(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

func sortParties(parties []domain.Party) {
	sort.SliceStable(parties, func(i, j int) bool {
		return strings.ToLower(parties[i].Name) < strings.ToLower(parties[j].Name)
	})
}

func upsertItem(items []domain.Item, it domain.Item) []domain.Item {
	for i := range items {
		if items[i].ID == it.ID {
			items[i] = it
			return items
		}
	}
	return append(items, it)
}

func removeItem(items []domain.Item, id string) []domain.Item {
	out := items[:0]
	for _, x := range items {
		if x.ID != id {
			out = append(out, x)
		}
	}
	return out
}

func dedupItems(items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, x := range items {
		out = upsertItem(out, x)
	}
	return out
}

func upsertOrder(orders []domain.Order, o domain.Order) []domain.Order {
	for i := range orders {
		if orders[i].ID == o.ID {
			orders[i] = o
			return orders
		}
	}
	return append(orders, o)
}

func removeOrder(orders []domain.Order, id string) []domain.Order {
	out := orders[:0]
	for _, x := range orders {
		if x.ID != id {
			out = append(out, x)
		}
	}
	return out
}

func dedupOrders(orders []domain.Order) []domain.Order {
	var out []domain.Order
	for _, x := range orders {
		out = upsertOrder(out, x)
	}
	return out
}

func upsertParty(parties []domain.Party, p domain.Party) []domain.Party {
	for i := range parties {
		if parties[i].ID == p.ID {
			parties[i] = p
			return parties
		}
	}
	return append(parties, p)
}

func removeParty(parties []domain.Party, id string) []domain.Party {
	out := parties[:0]
	for _, x := range parties {
		if x.ID != id {
			out = append(out, x)
		}
	}
	return out
}

func dedupParties(parties []domain.Party) []domain.Party {
	var out []domain.Party
	for _, x := range parties {
		out = upsertParty(out, x)
	}
	return out
}
