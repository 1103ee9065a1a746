package services

import (
	"fmt"

	"github.com/google/uuid"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/store"
)

// PartyService manages the customer book. Parties have their own lifecycle;
// orders only ever carry value snapshots of them.
type PartyService struct {
	Store store.Store
	Cache *cache.Cache
}

func NewPartyService(st store.Store, c *cache.Cache) *PartyService {
	return &PartyService{Store: st, Cache: c}
}

func (s *PartyService) List() []domain.Party {
	return s.Cache.Parties()
}

func (s *PartyService) Save(p domain.Party) (domain.Party, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.Store.Put(store.Parties, p); err != nil {
		return domain.Party{}, fmt.Errorf("save party: %w", err)
	}
	s.Cache.UpsertParty(p)
	return p, nil
}

func (s *PartyService) Delete(id string) error {
	if err := s.Store.Delete(store.Parties, id); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	s.Cache.RemoveParty(id)
	return nil
}
