package services

import (
	"fmt"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/store"
)

// SettingsService guards the singleton config record: read at startup,
// replaced wholesale on save, always under the fixed well-known id.
type SettingsService struct {
	Store store.Store
	Cache *cache.Cache
}

func NewSettingsService(st store.Store, c *cache.Cache) *SettingsService {
	return &SettingsService{Store: st, Cache: c}
}

func (s *SettingsService) Get() domain.Settings {
	return s.Cache.Settings()
}

func (s *SettingsService) Save(cfg domain.Settings) (domain.Settings, error) {
	cfg.ID = domain.SettingsID
	if err := s.Store.Put(store.Config, cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.Cache.SetSettings(cfg)
	return cfg, nil
}
