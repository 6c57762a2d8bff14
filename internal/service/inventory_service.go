package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/cache"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/repository"
)

type InventoryService struct {
	items repository.ItemRepository
	cache cache.SearchCache
}

func NewInventoryService(items repository.ItemRepository, searchCache cache.SearchCache) *InventoryService {
	if searchCache == nil {
		searchCache = cache.NewNoopSearchCache()
	}
	return &InventoryService{items: items, cache: searchCache}
}

// UpsertSnapshot writes one inventory snapshot batch. The whole batch goes
// down in a single statement: either every row lands or none does, which is
// safe because the upstream feed is a full periodic re-extract. Cached search
// results are invalidated afterwards since every row may have changed.
func (s *InventoryService) UpsertSnapshot(ctx context.Context, items []domain.StoreItem) (*domain.UpsertResult, error) {
	affected, err := s.items.UpsertItems(ctx, items)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("search cache invalidation failed after snapshot upsert")
	}

	log.Info().Int("rows", len(items)).Int64("affected", affected).Msg("inventory snapshot upserted")
	return &domain.UpsertResult{Affected: affected}, nil
}
