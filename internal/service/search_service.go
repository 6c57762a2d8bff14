package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/cache"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/repository"
	"github.com/storeops/replenish-backend/internal/search"
)

type SearchService struct {
	items repository.ItemRepository
	cache cache.SearchCache
}

func NewSearchService(items repository.ItemRepository, searchCache cache.SearchCache) *SearchService {
	if searchCache == nil {
		searchCache = cache.NewNoopSearchCache()
	}
	return &SearchService{items: items, cache: searchCache}
}

// Search validates the scope, builds the query plan and runs it. An invalid
// scope surfaces as domain.ErrInvalidSearchTerm before any query runs; the
// handler maps it to an empty result with a logged failure.
func (s *SearchService) Search(ctx context.Context, scope, query string) ([]domain.StoreItem, error) {
	plan, err := search.Build(scope, query)
	if err != nil {
		return nil, err
	}
	if plan.Empty {
		return []domain.StoreItem{}, nil
	}

	if items, ok, err := s.cache.Get(ctx, scope, query); err != nil {
		log.Warn().Err(err).Msg("search cache read failed")
	} else if ok {
		return items, nil
	}

	items, err := s.items.Search(ctx, plan)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, scope, query, items); err != nil {
		log.Warn().Err(err).Msg("search cache write failed")
	}
	return items, nil
}
