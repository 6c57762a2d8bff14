package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/storeops/replenish-backend/internal/domain"
)

func TestBuildRejectsUnknownScope(t *testing.T) {
	for _, scope := range []string{"", "price", "item_no; DROP TABLE store_data", "ALL"} {
		_, err := Build(scope, "whiskey")
		if !errors.Is(err, domain.ErrInvalidSearchTerm) {
			t.Errorf("scope %q: got err %v, want ErrInvalidSearchTerm", scope, err)
		}
	}
}

func TestBuildAllEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		plan, err := Build(ScopeAll, q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !plan.Empty {
			t.Errorf("query %q: expected empty plan, got %q", q, plan.Where)
		}
	}
}

func TestBuildAllTextualOnly(t *testing.T) {
	plan, err := Build(ScopeAll, "jack daniels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Empty {
		t.Fatal("plan should not be empty")
	}
	if !strings.HasPrefix(plan.Where, "MATCH (item_no, variant_code, brand, description, sub_description, vendor_no)") {
		t.Errorf("unexpected predicate: %q", plan.Where)
	}
	if strings.Contains(plan.Where, "LIKE") {
		t.Errorf("textual-only plan must not carry a LIKE clause: %q", plan.Where)
	}
	if len(plan.Args) != 1 || plan.Args[0] != "+jack* +daniels*" {
		t.Errorf("unexpected args: %v", plan.Args)
	}
}

func TestBuildAllNumericOnlyHasNoPlaceholder(t *testing.T) {
	// Regression: a numeric-only query must not pair the LIKE clauses with an
	// unconditional-true full-text stand-in.
	plan, err := Build(ScopeAll, "123 456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(plan.Where, "MATCH") {
		t.Errorf("numeric-only plan must not include a full-text clause: %q", plan.Where)
	}
	if strings.Contains(plan.Where, "1 AND") || strings.HasPrefix(plan.Where, "1") {
		t.Errorf("placeholder clause leaked into plan: %q", plan.Where)
	}
	if plan.Where != "item_no LIKE ? AND item_no LIKE ?" {
		t.Errorf("unexpected predicate: %q", plan.Where)
	}
	if len(plan.Args) != 2 || plan.Args[0] != "%123" || plan.Args[1] != "%456" {
		t.Errorf("unexpected args: %v", plan.Args)
	}
}

func TestBuildAllMixedTokens(t *testing.T) {
	plan, err := Build(ScopeAll, "jameson 0750")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantWhere := "MATCH (item_no, variant_code, brand, description, sub_description, vendor_no) AGAINST (? IN BOOLEAN MODE) AND item_no LIKE ?"
	if plan.Where != wantWhere {
		t.Errorf("got %q, want %q", plan.Where, wantWhere)
	}
	if len(plan.Args) != 2 || plan.Args[0] != "+jameson*" || plan.Args[1] != "%0750" {
		t.Errorf("unexpected args: %v", plan.Args)
	}
}

func TestBuildSuffixAnchor(t *testing.T) {
	// "123" must match "00123" but not "12399": the arg is end-anchored.
	plan, err := Build("item_no", "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Args[0] != "%123" {
		t.Errorf("numeric item_no search must be suffix-anchored, got %v", plan.Args[0])
	}
}

func TestBuildSingleColumnContains(t *testing.T) {
	plan, err := Build("brand", "beam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Where != "brand LIKE ?" || plan.Args[0] != "%beam%" {
		t.Errorf("unexpected plan: %q %v", plan.Where, plan.Args)
	}

	// Non-numeric item_no values fall back to a contains match too.
	plan, err = Build("item_no", "AB12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Args[0] != "%AB12%" {
		t.Errorf("non-numeric item_no should contains-match, got %v", plan.Args[0])
	}
}
