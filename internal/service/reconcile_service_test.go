package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/normalize"
	"github.com/storeops/replenish-backend/internal/sheet"
)

// fakeTagRepo mimics the sale_tag table: visible tags matched by folded
// identity in stable id order, updates applied in place.
type fakeTagRepo struct {
	tags       []domain.SaleTag
	applyCalls int
}

func (f *fakeTagRepo) ApplyDiscount(_ context.Context, brand, item, discount, saleEnds string, applyToAll bool) ([]int64, int64, error) {
	f.applyCalls++
	if discount == "" {
		return nil, 0, errors.New("empty discount")
	}

	var matched []int
	for i, tag := range f.tags {
		if !tag.Visible {
			continue
		}
		if normalize.Fold(tag.Brand) == brand && normalize.Fold(tag.Description) == item {
			matched = append(matched, i)
		}
	}
	if len(matched) == 0 {
		return nil, 0, nil
	}
	if !applyToAll {
		matched = matched[:1]
	}

	ids := make([]int64, 0, len(matched))
	for _, i := range matched {
		f.tags[i].Discount = discount
		f.tags[i].SaleEnds = saleEnds
		ids = append(ids, f.tags[i].ID)
	}
	return ids, int64(len(matched)), nil
}

func (f *fakeTagRepo) SimilarTags(context.Context, string, int) ([]domain.SaleTag, error) {
	return nil, nil
}

type fakeUnmatchedRepo struct {
	saved   []domain.UnmatchedSaleTagRow
	failSee int // fail after this many rows saved; -1 never fails
}

func (f *fakeUnmatchedRepo) SaveUnmatched(_ context.Context, rows []domain.UnmatchedSaleTagRow) (int, error) {
	for i, row := range rows {
		if f.failSee >= 0 && i >= f.failSee {
			return i, errors.New("disk full")
		}
		f.saved = append(f.saved, row)
	}
	return len(rows), nil
}

type missRecorder struct {
	misses []string
}

func (m *missRecorder) OnMiss(_ context.Context, brand, item string) {
	m.misses = append(m.misses, brand+"/"+item)
}

func saleTagRow(brand, item string, price any) sheet.Row {
	return sheet.Row{
		Headers: []string{"Brand", "__EMPTY", "Jan 8 - Feb 4 2026"},
		Cells: map[string]any{
			"Brand":              brand,
			"__EMPTY":            item,
			"Jan 8 - Feb 4 2026": price,
		},
	}
}

func newService(tags *fakeTagRepo, unmatched *fakeUnmatchedRepo, diag MissDiagnostics) *ReconcileService {
	if unmatched == nil {
		unmatched = &fakeUnmatchedRepo{failSee: -1}
	}
	return NewReconcileService(tags, unmatched, diag)
}

func TestReconcileUpdatesMatchedTag(t *testing.T) {
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 7, Brand: "Acme", Description: "Widget", Discount: "old", Visible: true},
	}}
	svc := newService(tags, nil, nil)

	res, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Acme", "Widget", 0.2)}, "2026-01-08", false, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.UpdatedCount != 1 {
		t.Errorf("UpdatedCount = %d, want 1", res.UpdatedCount)
	}
	if len(res.Matched) != 1 || len(res.Matched[0].TagIDs) != 1 || res.Matched[0].TagIDs[0] != 7 {
		t.Errorf("unexpected matched report: %+v", res.Matched)
	}
	if tags.tags[0].Discount != "20% OFF" || tags.tags[0].SaleEnds != "2026-01-08" {
		t.Errorf("tag not updated: %+v", tags.tags[0])
	}
}

func TestReconcileNormalizedMatching(t *testing.T) {
	// Straight vs curly quotes, case and doubled spaces must all fold away.
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 1, Brand: "Maker’s  Mark", Description: "BOURBON  750ML", Discount: "old", Visible: true},
	}}
	svc := newService(tags, nil, nil)

	res, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("maker's mark", "Bourbon 750ml", "2 for $30")}, "2026-01-08", false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UpdatedCount != 1 {
		t.Fatalf("UpdatedCount = %d, want 1; unmatched: %+v", res.UpdatedCount, res.Unmatched)
	}
	if tags.tags[0].Discount != "2 for $30" {
		t.Errorf("discount = %q", tags.tags[0].Discount)
	}
}

func TestReconcileFirstMatchDeterminism(t *testing.T) {
	// Two visible tags share the normalized identity. Without applyToAll
	// exactly the first in stable lookup order is updated.
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 3, Brand: "Acme", Description: "Widget", Discount: "old", Location: "front", Visible: true},
		{ID: 9, Brand: "Acme", Description: "Widget", Discount: "old", Location: "back", Visible: true},
	}}
	svc := newService(tags, nil, nil)

	res, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Acme", "Widget", 0.3)}, "2026-01-08", false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.UpdatedCount != 1 {
		t.Errorf("UpdatedCount = %d, want 1", res.UpdatedCount)
	}
	if tags.tags[0].Discount != "30% OFF" {
		t.Error("first tag in lookup order should have been updated")
	}
	if tags.tags[1].Discount != "old" {
		t.Error("second tag must stay untouched without applyToAll")
	}
}

func TestReconcileApplyToAll(t *testing.T) {
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 3, Brand: "Acme", Description: "Widget", Discount: "old", Visible: true},
		{ID: 9, Brand: "Acme", Description: "Widget", Discount: "old", Visible: true},
		{ID: 11, Brand: "Acme", Description: "Widget", Discount: "old", Visible: false},
	}}
	svc := newService(tags, nil, nil)

	res, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Acme", "Widget", 0.3)}, "2026-01-08", true, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.UpdatedCount != 2 {
		t.Errorf("UpdatedCount = %d, want 2", res.UpdatedCount)
	}
	if tags.tags[0].Discount != "30% OFF" || tags.tags[1].Discount != "30% OFF" {
		t.Error("both visible tags should have been updated")
	}
	if tags.tags[2].Discount != "old" {
		t.Error("invisible tag must never be touched")
	}
}

func TestReconcileUnmatchedRowsParked(t *testing.T) {
	tags := &fakeTagRepo{}
	unmatched := &fakeUnmatchedRepo{failSee: -1}
	diag := &missRecorder{}
	svc := newService(tags, unmatched, diag)

	res, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Nobody", "Nothing", 0.5)}, "2026-02-04", false, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Unmatched) != 1 || res.Unmatched[0].Brand != "Nobody" {
		t.Fatalf("unexpected unmatched: %+v", res.Unmatched)
	}
	if res.UnmatchedSaved != 1 {
		t.Errorf("UnmatchedSaved = %d, want 1", res.UnmatchedSaved)
	}
	if len(unmatched.saved) != 1 {
		t.Fatalf("unmatched store got %d rows", len(unmatched.saved))
	}
	row := unmatched.saved[0]
	if row.UID != 42 || row.SaleEnds != "2026-02-04" || row.Price != "50% OFF" {
		t.Errorf("unexpected parked row: %+v", row)
	}
	if len(diag.misses) != 1 {
		t.Errorf("diagnostics should fire once per miss, got %v", diag.misses)
	}
}

func TestReconcileUnmatchedPersistenceIsIndependent(t *testing.T) {
	// The matched update stays applied even when parking the unmatched rows
	// fails; the failure is reported, not raised.
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 1, Brand: "Acme", Description: "Widget", Discount: "old", Visible: true},
	}}
	unmatched := &fakeUnmatchedRepo{failSee: 0}
	svc := newService(tags, unmatched, nil)

	res, err := svc.ReconcileSaleTags(context.Background(), []sheet.Row{
		saleTagRow("Acme", "Widget", 0.2),
		saleTagRow("Nobody", "Nothing", 0.5),
	}, "2026-01-08", false, 1)
	if err != nil {
		t.Fatalf("persistence failure must not fail the reconcile: %v", err)
	}

	if res.UpdatedCount != 1 {
		t.Errorf("UpdatedCount = %d, want 1", res.UpdatedCount)
	}
	if tags.tags[0].Discount != "20% OFF" {
		t.Error("applied update must remain committed")
	}
	if res.UnmatchedSaved != 0 {
		t.Errorf("UnmatchedSaved = %d, want 0", res.UnmatchedSaved)
	}
	if res.Warning == "" || !strings.Contains(res.Warning, "0 of 1") {
		t.Errorf("warning should report the partial save: %q", res.Warning)
	}
}

func TestReconcileSkipsUnresolvableRows(t *testing.T) {
	tags := &fakeTagRepo{}
	svc := newService(tags, nil, nil)

	rows := []sheet.Row{
		// No price column at all.
		{Headers: []string{"Brand", "__EMPTY"}, Cells: map[string]any{"Brand": "Acme", "__EMPTY": "Widget"}},
		// Price equals the brand: the cross-field guard discards it.
		{Headers: []string{"Brand", "__EMPTY", "Price"}, Cells: map[string]any{"Brand": "Acme", "__EMPTY": "Widget", "Price": "Acme"}},
	}

	res, err := svc.ReconcileSaleTags(context.Background(), rows, "2026-01-08", false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SkippedRows != 2 {
		t.Errorf("SkippedRows = %d, want 2", res.SkippedRows)
	}
	if tags.applyCalls != 0 {
		t.Errorf("no discount write should be attempted, got %d calls", tags.applyCalls)
	}
}

func TestReconcileEndDateForms(t *testing.T) {
	tags := &fakeTagRepo{tags: []domain.SaleTag{
		{ID: 1, Brand: "Acme", Description: "Widget", Discount: "old", Visible: true},
	}}
	svc := newService(tags, nil, nil)

	local := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.Local)
	_, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Acme", "Widget", 0.2)}, local, false, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags.tags[0].SaleEnds != "2026-01-08" {
		t.Errorf("sale_ends = %q, want 2026-01-08", tags.tags[0].SaleEnds)
	}

	if _, err := svc.ReconcileSaleTags(context.Background(),
		[]sheet.Row{saleTagRow("Acme", "Widget", 0.2)}, "gibberish", false, 1); err == nil {
		t.Error("an unparseable end date must fail the call up front")
	}
}
