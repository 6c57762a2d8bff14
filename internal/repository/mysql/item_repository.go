package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/search"
)

// Columns of store_data in insert order. item_no and variant_code form the
// natural key; everything after them is overwritten on conflict
// (last-snapshot-wins).
var storeItemColumns = []string{
	"item_no",
	"variant_code",
	"vendor_no",
	"brand",
	"description",
	"sub_description",
	"planogram",
	"back_ordered",
	"promo_code",
	"daily_sales",
	"on_hand",
	"qty_on_purchase_order",
	"qty_on_sales_order",
	"in_transfer",
	"sales_30d",
	"sales_31_60d",
	"division_code",
	"category_code",
	"product_group_code",
	"snapshot_at",
	"visible",
}

const storeItemKeyColumns = 2

type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Search runs a prepared store_data plan.
func (r *ItemRepository) Search(ctx context.Context, plan search.Plan) ([]domain.StoreItem, error) {
	if plan.Empty {
		return []domain.StoreItem{}, nil
	}

	query := fmt.Sprintf(
		"SELECT %s FROM store_data WHERE %s",
		strings.Join(storeItemColumns, ", "),
		plan.Where,
	)

	items := []domain.StoreItem{}
	if err := r.db.SelectContext(ctx, &items, query, plan.Args...); err != nil {
		return nil, fmt.Errorf("failed to search store_data: %w", err)
	}
	return items, nil
}

// UpsertItems writes the whole snapshot batch as one multi-row insert with an
// update-on-conflict clause on the natural key. A single failing row aborts
// the entire batch; the upstream feed is a full re-extract and is safely
// re-run.
func (r *ItemRepository) UpsertItems(ctx context.Context, items []domain.StoreItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	query, args := buildItemUpsert(items)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert store_data batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

func buildItemUpsert(items []domain.StoreItem) (string, []any) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(storeItemColumns)), ", ") + ")"

	values := make([]string, len(items))
	args := make([]any, 0, len(items)*len(storeItemColumns))
	for i, item := range items {
		values[i] = placeholder
		args = append(args,
			item.ItemNo,
			item.VariantCode,
			item.VendorNo,
			item.Brand,
			item.Description,
			item.SubDescription,
			item.Planogram,
			item.BackOrdered,
			item.PromoCode,
			item.DailySales,
			item.OnHand,
			item.QtyOnPurchaseOrd,
			item.QtyOnSalesOrd,
			item.InTransfer,
			item.Sales30d,
			item.Sales31to60d,
			item.DivisionCode,
			item.CategoryCode,
			item.ProductGroupCode,
			item.SnapshotAt,
			item.Visible,
		)
	}

	updates := make([]string, 0, len(storeItemColumns)-storeItemKeyColumns)
	for _, col := range storeItemColumns[storeItemKeyColumns:] {
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", col, col))
	}

	query := fmt.Sprintf(
		"INSERT INTO store_data (%s) VALUES %s ON DUPLICATE KEY UPDATE %s",
		strings.Join(storeItemColumns, ", "),
		strings.Join(values, ", "),
		strings.Join(updates, ", "),
	)
	return query, args
}
