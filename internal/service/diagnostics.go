package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/repository"
)

// tagMissDiagnostics logs the nearest visible tags when a row fails to match,
// so an operator can spot near-miss spellings in the upload report.
type tagMissDiagnostics struct {
	tags  repository.TagRepository
	limit int
}

func NewTagMissDiagnostics(tags repository.TagRepository) MissDiagnostics {
	return &tagMissDiagnostics{tags: tags, limit: 5}
}

func (d *tagMissDiagnostics) OnMiss(ctx context.Context, brand, item string) {
	similar, err := d.tags.SimilarTags(ctx, brand, d.limit)
	if err != nil {
		log.Warn().Err(err).Str("brand", brand).Msg("similarity scan failed")
		return
	}

	near := make([]string, len(similar))
	for i, tag := range similar {
		near[i] = tag.Brand + " / " + tag.Description
	}
	log.Debug().Str("brand", brand).Str("item", item).Strs("near", near).
		Msg("no sale tag matched; nearest visible tags logged")
}
