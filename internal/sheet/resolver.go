package sheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Resolved carries the three fields extracted from one sale-tag row. Any
// empty field means resolution failed and the row is skipped from matching.
type Resolved struct {
	Brand string
	Item  string
	Price string
}

// Complete reports whether every field resolved.
func (r Resolved) Complete() bool {
	return r.Brand != "" && r.Item != "" && r.Price != ""
}

// fieldRule is one named detection heuristic. Rules for a field run in
// priority order and the first hit wins, so new vendor layouts are handled by
// appending rules, not by editing existing ones.
type fieldRule struct {
	name  string
	apply func(Row) (string, bool)
}

var (
	brandRules = []fieldRule{
		{name: "brand-exact-header", apply: exactHeader("Brand", "brand")},
		{name: "brand-ad-outline", apply: adOutlineText},
	}
	itemRules = []fieldRule{
		{name: "item-exact-header", apply: exactHeader("Item Name", "item name", "Description", "description")},
		{name: "item-first-anonymous", apply: firstAnonymousColumn},
	}
	priceRules = []fieldRule{
		{name: "price-exact-header", apply: exactPriceHeader("Sale Price", "sale price", "Price", "Discount")},
		{name: "price-dated-column", apply: datedColumn},
	}
)

const adOutlineToken = "ad outline"

var yearTokenRe = regexp.MustCompile(`\b\d{4}\b`)

// ResolveRow runs the rule chains and applies the cross-field guard: a sale
// price equal to the resolved brand or item string is a mis-detected column
// and is discarded rather than written.
func ResolveRow(row Row) Resolved {
	r := Resolved{
		Brand: runRules(brandRules, row),
		Item:  runRules(itemRules, row),
		Price: runRules(priceRules, row),
	}
	if r.Price != "" && (r.Price == r.Brand || r.Price == r.Item) {
		r.Price = ""
	}
	return r
}

func runRules(rules []fieldRule, row Row) string {
	for _, rule := range rules {
		if v, ok := rule.apply(row); ok {
			return v
		}
	}
	return ""
}

func exactHeader(names ...string) func(Row) (string, bool) {
	return func(row Row) (string, bool) {
		for _, name := range names {
			if s, ok := textCell(row.Value(name)); ok {
				return s, true
			}
		}
		return "", false
	}
}

// adOutlineText finds the first "... Ad Outline ..." column holding text.
// Numeric cells under such headers are prices, not brand names, and are
// skipped.
func adOutlineText(row Row) (string, bool) {
	for _, header := range row.Headers {
		if !strings.Contains(strings.ToLower(header), adOutlineToken) {
			continue
		}
		if s, ok := textCell(row.Value(header)); ok {
			return s, true
		}
	}
	return "", false
}

// firstAnonymousColumn takes the first placeholder column with a usable text
// value.
func firstAnonymousColumn(row Row) (string, bool) {
	for _, header := range row.Headers {
		if !strings.HasPrefix(header, PlaceholderPrefix) {
			continue
		}
		if s, ok := textCell(row.Value(header)); ok {
			return s, true
		}
	}
	return "", false
}

func exactPriceHeader(names ...string) func(Row) (string, bool) {
	return func(row Row) (string, bool) {
		for _, name := range names {
			if s, ok := priceCell(row.Value(name)); ok {
				return s, true
			}
		}
		return "", false
	}
}

// datedColumn scans headers carrying a 4-digit year token (the vendor's dated
// promotion-window columns), skipping any that also match the ad-outline
// brand pattern, and takes the first usable price cell.
func datedColumn(row Row) (string, bool) {
	for _, header := range row.Headers {
		if !yearTokenRe.MatchString(header) {
			continue
		}
		if strings.Contains(strings.ToLower(header), adOutlineToken) {
			continue
		}
		if s, ok := priceCell(row.Value(header)); ok {
			return s, true
		}
	}
	return "", false
}

func textCell(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// priceCell renders a price cell: strings are used verbatim ("Buy 1 Get 2nd
// 50%"), fractions in (0,1] become a percentage-off string, anything larger
// is a literal price.
func priceCell(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		return textCell(c)
	case float64:
		if c > 0 && c <= 1 {
			return strconv.Itoa(int(math.Round(c*100))) + "% OFF", true
		}
		if c > 1 {
			return strconv.FormatFloat(c, 'f', -1, 64), true
		}
		return "", false
	default:
		return "", false
	}
}
