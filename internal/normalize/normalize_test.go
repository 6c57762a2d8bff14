package normalize

import (
	"testing"
	"time"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Maker's  Mark  ", "Maker's Mark"},
		{"Maker’s Mark", "Maker's Mark"},
		{"“Reserve” Blend", `"Reserve" Blend`},
		{"Tito's\tHandmade\nVodka", "Tito's Handmade Vodka"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Text(c.in); got != c.want {
			t.Errorf("Text(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFold(t *testing.T) {
	if Fold("  JACK  Daniel’s ") != "jack daniel's" {
		t.Errorf("Fold should casefold the normalized form, got %q", Fold("  JACK  Daniel’s "))
	}
	if Fold("Jim Beam") != Fold("jim  beam") {
		t.Error("double internal space must compare equal after folding")
	}
}

func TestEndDateISO(t *testing.T) {
	got, err := EndDate("2026-01-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-01-08" {
		t.Errorf("got %q, want 2026-01-08", got)
	}
}

func TestEndDateEmbeddedISO(t *testing.T) {
	got, err := EndDate("sale ends 2026-02-04 (print run 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-02-04" {
		t.Errorf("got %q, want 2026-02-04", got)
	}
}

func TestEndDateLocalTime(t *testing.T) {
	// A local calendar value must come back by its own fields regardless of
	// the host timezone; formatting must never route through UTC.
	zones := []string{"Pacific/Kiritimati", "Pacific/Midway", "America/New_York"}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Skipf("zone %s unavailable: %v", name, err)
		}
		v := time.Date(2026, time.January, 8, 0, 0, 0, 0, loc)
		got, err := EndDate(v)
		if err != nil {
			t.Fatalf("unexpected error in %s: %v", name, err)
		}
		if got != "2026-01-08" {
			t.Errorf("zone %s: got %q, want 2026-01-08", name, got)
		}
	}
}

func TestEndDateLayouts(t *testing.T) {
	cases := map[string]string{
		"Jan 8, 2026":         "2026-01-08",
		"2/4/2026":            "2026-02-04",
		"2026-01-08T00:00:00": "2026-01-08",
	}
	for in, want := range cases {
		got, err := EndDate(in)
		if err != nil {
			t.Errorf("EndDate(%q) unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("EndDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEndDateRejects(t *testing.T) {
	for _, in := range []any{"", "  ", "not a date", 42, time.Time{}} {
		if _, err := EndDate(in); err == nil {
			t.Errorf("EndDate(%v) should fail", in)
		}
	}
}
