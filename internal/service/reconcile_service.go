package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/normalize"
	"github.com/storeops/replenish-backend/internal/repository"
	"github.com/storeops/replenish-backend/internal/sheet"
)

// MissDiagnostics is an optional capability invoked only when a row fails to
// match, off the hot matching path.
type MissDiagnostics interface {
	OnMiss(ctx context.Context, brand, item string)
}

type ReconcileService struct {
	tags      repository.TagRepository
	unmatched repository.UnmatchedRepository
	diag      MissDiagnostics
}

func NewReconcileService(tags repository.TagRepository, unmatched repository.UnmatchedRepository, diag MissDiagnostics) *ReconcileService {
	return &ReconcileService{tags: tags, unmatched: unmatched, diag: diag}
}

// ReconcileSaleTags runs the spreadsheet-to-database reconciliation: resolve
// each row's brand/item/price columns, match against visible sale tags by
// normalized identity and apply the discount and end date; rows that match
// nothing are parked in the unmatched store under the uploading user's uid.
//
// Matching and unmatched persistence are independent: a failure to park
// unmatched rows is reported in the result but never reverts updates already
// applied to matched tags.
func (s *ReconcileService) ReconcileSaleTags(ctx context.Context, rows []sheet.Row, endDate any, applyToAll bool, uid int64) (*domain.ReconcileResult, error) {
	saleEnds, err := normalize.EndDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid sale end date: %w", err)
	}

	result := &domain.ReconcileResult{
		Matched:   []domain.MatchedRow{},
		Unmatched: []domain.SaleTagInput{},
	}

	for i, row := range rows {
		resolved := sheet.ResolveRow(row)
		if !resolved.Complete() {
			result.SkippedRows++
			log.Warn().Int("row", i).
				Str("brand", resolved.Brand).
				Str("item", resolved.Item).
				Msg("sale tag row skipped: brand/item/price not resolvable")
			continue
		}

		input := domain.SaleTagInput{
			Brand: resolved.Brand,
			Item:  resolved.Item,
			Price: resolved.Price,
		}

		brand := normalize.Fold(resolved.Brand)
		item := normalize.Fold(resolved.Item)
		price := normalize.Text(resolved.Price)

		// A discount equal to the strings used to locate the tag means the
		// column resolver picked the wrong column; never write it.
		if price == "" || normalize.Fold(price) == brand || normalize.Fold(price) == item {
			result.SkippedRows++
			log.Warn().Int("row", i).Str("price", price).Msg("sale tag row skipped: discount fails the distinctness guard")
			continue
		}

		ids, affected, err := s.tags.ApplyDiscount(ctx, brand, item, price, saleEnds, applyToAll)
		if err != nil {
			return nil, fmt.Errorf("failed to apply discount for %q / %q: %w", resolved.Brand, resolved.Item, err)
		}

		if len(ids) == 0 {
			result.Unmatched = append(result.Unmatched, input)
			if s.diag != nil {
				s.diag.OnMiss(ctx, brand, item)
			}
			continue
		}

		result.UpdatedCount += affected
		result.Matched = append(result.Matched, domain.MatchedRow{Input: input, TagIDs: ids})
	}

	if len(result.Unmatched) > 0 {
		park := make([]domain.UnmatchedSaleTagRow, len(result.Unmatched))
		for i, u := range result.Unmatched {
			park[i] = domain.UnmatchedSaleTagRow{
				Brand:    u.Brand,
				Item:     u.Item,
				Price:    u.Price,
				SaleEnds: saleEnds,
				UID:      uid,
			}
		}

		saved, err := s.unmatched.SaveUnmatched(ctx, park)
		result.UnmatchedSaved = saved
		if err != nil {
			// Applied tag updates stay committed; only the parking failed.
			result.Warning = fmt.Sprintf("saved %d of %d unmatched rows: %v", saved, len(park), err)
			log.Error().Err(err).Int("saved", saved).Int("total", len(park)).Msg("failed to persist unmatched sale tag rows")
		}
	}

	return result, nil
}
