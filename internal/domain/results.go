package domain

// SaleTagInput is one resolved spreadsheet row handed to the reconciler:
// raw brand/item/price strings as extracted by the column resolver.
type SaleTagInput struct {
	Brand string `json:"brand"`
	Item  string `json:"item"`
	Price string `json:"price"`
}

// MatchedRow records which input row updated which tag ids, for the caller's
// report.
type MatchedRow struct {
	Input  SaleTagInput `json:"input"`
	TagIDs []int64      `json:"tag_ids"`
}

// ReconcileResult is the outcome of one reconcile call. Matching and
// unmatched persistence are independent sub-operations: UnmatchedSaved may be
// short of len(Unmatched) without any of the applied updates being rolled
// back, in which case Warning explains why.
type ReconcileResult struct {
	UpdatedCount   int64          `json:"updated_count"`
	Matched        []MatchedRow   `json:"matched"`
	Unmatched      []SaleTagInput `json:"unmatched"`
	SkippedRows    int            `json:"skipped_rows"`
	UnmatchedSaved int            `json:"unmatched_saved"`
	Warning        string         `json:"warning,omitempty"`
}

// UpsertResult reports a snapshot upsert.
type UpsertResult struct {
	Affected int64 `json:"affected"`
}
