package mysql

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/domain"
)

// foldedBrand/foldedDescription mirror normalize.Fold on the SQL side:
// case-insensitive with internal double spaces collapsed, so spreadsheet
// values and stored tags meet in the same comparison form.
const (
	foldedBrand       = "LOWER(TRIM(REPLACE(brand, '  ', ' ')))"
	foldedDescription = "LOWER(TRIM(REPLACE(description, '  ', ' ')))"
)

type TagRepository struct {
	db *DB
}

func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

// ApplyDiscount matches visible tags by folded (brand, item) identity and
// applies the discount and end date. With applyToAll every matching visible
// tag is updated in one grouped statement; otherwise only the first match in
// id order is updated by its surrogate id. The lookup and the write share a
// transaction so a concurrent reconcile cannot slip between them.
func (r *TagRepository) ApplyDiscount(ctx context.Context, brand, item, discount, saleEnds string, applyToAll bool) ([]int64, int64, error) {
	if discount == "" {
		return nil, 0, fmt.Errorf("refusing to write an empty discount for brand %q", brand)
	}

	var (
		ids      []int64
		affected int64
	)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		lookup := fmt.Sprintf(
			"SELECT id FROM sale_tag WHERE visible = 1 AND %s = ? AND %s = ? ORDER BY id",
			foldedBrand, foldedDescription,
		)
		if err := tx.SelectContext(ctx, &ids, lookup, brand, item); err != nil {
			return fmt.Errorf("failed to look up sale tags: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if applyToAll {
			update := fmt.Sprintf(
				"UPDATE sale_tag SET discount = ?, sale_ends = ? WHERE visible = 1 AND %s = ? AND %s = ?",
				foldedBrand, foldedDescription,
			)
			res, err := tx.ExecContext(ctx, update, discount, saleEnds, brand, item)
			if err != nil {
				return fmt.Errorf("failed to update matching sale tags: %w", err)
			}
			affected, err = res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			return nil
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE sale_tag SET discount = ?, sale_ends = ? WHERE id = ?",
			discount, saleEnds, ids[0],
		)
		if err != nil {
			return fmt.Errorf("failed to update sale tag %d: %w", ids[0], err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		ids = ids[:1]
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return ids, affected, nil
}

// SimilarTags is the diagnostics scan run when a row mismatches: visible tags
// whose brand contains the folded input, for the operator log only.
func (r *TagRepository) SimilarTags(ctx context.Context, brand string, limit int) ([]domain.SaleTag, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(
		"SELECT id, brand, description, discount, location, tag_type, tag_count, note, sale_ends, visible "+
			"FROM sale_tag WHERE visible = 1 AND %s LIKE ? ORDER BY id LIMIT ?",
		foldedBrand,
	)

	tags := []domain.SaleTag{}
	if err := r.db.SelectContext(ctx, &tags, query, "%"+brand+"%", limit); err != nil {
		return nil, fmt.Errorf("failed to scan similar tags: %w", err)
	}
	return tags, nil
}

// SaveUnmatched parks unmatched rows for the manual-fix workflow. Rows are
// inserted one by one so a bad row costs only itself; the count of rows that
// made it in is reported either way.
func (r *TagRepository) SaveUnmatched(ctx context.Context, rows []domain.UnmatchedSaleTagRow) (int, error) {
	saved := 0
	var firstErr error
	for _, row := range rows {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO unmatched_sale_tag (brand, item, price, sale_ends, uid, created_at) VALUES (?, ?, ?, ?, ?, NOW())",
			row.Brand, row.Item, row.Price, row.SaleEnds, row.UID,
		)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to save unmatched row: %w", err)
			}
			log.Error().Err(err).Str("brand", row.Brand).Str("item", row.Item).Msg("failed to park unmatched sale tag row")
			continue
		}
		saved++
	}
	return saved, firstErr
}
