package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/search"
)

type fakeItemRepo struct {
	lastPlan    *search.Plan
	searchCalls int
	items       []domain.StoreItem
	upserted    [][]domain.StoreItem
}

func (f *fakeItemRepo) Search(_ context.Context, plan search.Plan) ([]domain.StoreItem, error) {
	f.searchCalls++
	f.lastPlan = &plan
	return f.items, nil
}

func (f *fakeItemRepo) UpsertItems(_ context.Context, items []domain.StoreItem) (int64, error) {
	f.upserted = append(f.upserted, items)
	return int64(len(items)), nil
}

func TestSearchInvalidScope(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewSearchService(repo, nil)

	_, err := svc.Search(context.Background(), "nope", "whiskey")
	if !errors.Is(err, domain.ErrInvalidSearchTerm) {
		t.Fatalf("got %v, want ErrInvalidSearchTerm", err)
	}
	if repo.searchCalls != 0 {
		t.Error("invalid scope must be rejected before the store is queried")
	}
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewSearchService(repo, nil)

	items, err := svc.Search(context.Background(), search.ScopeAll, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("empty query should return no rows, got %d", len(items))
	}
	if repo.searchCalls != 0 {
		t.Error("empty plan must not reach the store")
	}
}

func TestSearchRunsPlan(t *testing.T) {
	repo := &fakeItemRepo{items: []domain.StoreItem{{ItemNo: "00123"}}}
	svc := NewSearchService(repo, nil)

	items, err := svc.Search(context.Background(), search.ScopeAll, "beam 123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1", len(items))
	}
	if repo.lastPlan == nil || len(repo.lastPlan.Args) != 2 {
		t.Errorf("unexpected plan: %+v", repo.lastPlan)
	}
}

func TestUpsertSnapshotEmptyBatch(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := NewInventoryService(repo, nil)

	res, err := svc.UpsertSnapshot(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Affected != 0 {
		t.Errorf("Affected = %d, want 0", res.Affected)
	}
}
