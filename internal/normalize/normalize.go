// Package normalize canonicalizes the free-text identifiers and dates that
// flow between vendor spreadsheets and the sale_tag table. Vendor files mix
// curly and straight quotes, double spaces and stray padding, so every
// comparison in the matcher goes through these functions first.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single
	"’", "'", // right single
	"‚", "'",
	"′", "'",
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`,
	"″", `"`,
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Text trims, collapses internal whitespace runs to single spaces and unifies
// curly quote characters to their straight ASCII forms. Case is preserved;
// use Fold for comparisons.
func Text(s string) string {
	s = quoteReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}

// Fold is Text plus case folding, the comparison form used for matching
// spreadsheet rows against existing sale tags.
func Fold(s string) string {
	return strings.ToLower(Text(s))
}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoInsideRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Layouts tried for non-ISO date strings. The feed carries printed retail
// dates without a timezone, so all layouts are zoneless.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

// EndDate normalizes a sale end date to its YYYY-MM-DD representation.
// Accepts a string or a time.Time. Strings are matched literally against the
// ISO form first, then scanned for an embedded ISO date, then parsed with the
// known zoneless layouts. A time.Time is decomposed by its own calendar
// fields, never shifted to UTC: the source is a printed retail date and must
// not move by a day under timezone conversion.
func EndDate(value any) (string, error) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", fmt.Errorf("empty end date")
		}
		if isoDateRe.MatchString(s) {
			return s, nil
		}
		if m := isoInsideRe.FindString(s); m != "" {
			return m, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("unrecognized end date %q", s)
	case time.Time:
		if v.IsZero() {
			return "", fmt.Errorf("zero end date")
		}
		return v.Format("2006-01-02"), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return "", fmt.Errorf("zero end date")
		}
		return v.Format("2006-01-02"), nil
	default:
		return "", fmt.Errorf("unsupported end date type %T", value)
	}
}
