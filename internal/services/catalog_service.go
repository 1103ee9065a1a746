package services

import (
	"fmt"

	"github.com/google/uuid"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/store"
)

// CatalogService covers direct item edits: add/update/delete and stock
// status. Stock changes driven by orders never come through here; those
// belong to the ledger engine.
type CatalogService struct {
	Store store.Store
	Cache *cache.Cache
}

func NewCatalogService(st store.Store, c *cache.Cache) *CatalogService {
	return &CatalogService{Store: st, Cache: c}
}

func (s *CatalogService) List() []domain.Item {
	return s.Cache.Items()
}

func (s *CatalogService) Get(id string) (domain.Item, bool) {
	return s.Cache.Item(id)
}

// Save upserts an item, minting an id for new records. The cache is only
// touched after the store write confirms.
func (s *CatalogService) Save(it domain.Item) (domain.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Kind == "" {
		it.Kind = domain.KindSale
	}
	if it.Kind != domain.KindRental {
		it.Duration = ""
	}
	if it.Stock < 0 {
		it.Stock = 0
	}
	if err := s.Store.Put(store.Items, it); err != nil {
		return domain.Item{}, fmt.Errorf("save item: %w", err)
	}
	s.Cache.UpsertItem(it)
	return it, nil
}

func (s *CatalogService) Delete(id string) error {
	if err := s.Store.Delete(store.Items, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.Cache.RemoveItem(id)
	return nil
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

// CheckAvailability converts an item's stock against its own minimum-stock
// threshold into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *CatalogService) CheckAvailability(itemID string) (Availability, bool) {
	it, ok := s.Cache.Item(itemID)
	if !ok {
		return Availability{Status: "OUT_OF_STOCK"}, false
	}
	status := "OUT_OF_STOCK"
	switch {
	case it.Stock > it.MinStock:
		status = "IN_STOCK"
	case it.Stock > 0:
		status = "LOW_STOCK"
	}
	return Availability{Status: status, Qty: it.Stock}, true
}

// LowStock lists items at or below their minimum-stock threshold.
func (s *CatalogService) LowStock() []domain.Item {
	var out []domain.Item
	for _, it := range s.Cache.Items() {
		if it.Stock <= it.MinStock {
			out = append(out, it)
		}
	}
	return out
}
