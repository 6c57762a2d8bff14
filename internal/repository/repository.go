// Package repository declares the store interfaces the services depend on.
// Implementations live in repository/mysql; tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/search"
)

// ItemRepository covers the store_data table.
type ItemRepository interface {
	// Search runs a prepared plan. An Empty plan returns no rows without
	// touching the database.
	Search(ctx context.Context, plan search.Plan) ([]domain.StoreItem, error)
	// UpsertItems writes a snapshot batch in one insert-or-update statement
	// keyed on (item_no, variant_code). Empty input is a no-op returning 0.
	UpsertItems(ctx context.Context, items []domain.StoreItem) (int64, error)
}

// TagRepository covers the sale_tag table.
type TagRepository interface {
	// ApplyDiscount matches visible tags by the folded (brand, item)
	// identity and applies discount and end date, to every match or only the
	// first in id order. The match and the update run in one transaction.
	// No match returns (nil, 0, nil).
	ApplyDiscount(ctx context.Context, brand, item, discount, saleEnds string, applyToAll bool) ([]int64, int64, error)
	// SimilarTags is the diagnostics lookup used when a row fails to match:
	// visible tags whose brand resembles the given one.
	SimilarTags(ctx context.Context, brand string, limit int) ([]domain.SaleTag, error)
}

// UnmatchedRepository parks rows that matched nothing for manual review.
type UnmatchedRepository interface {
	SaveUnmatched(ctx context.Context, rows []domain.UnmatchedSaleTagRow) (int, error)
}

// UserRepository covers the user table.
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// AuditRepository appends request audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
