package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// SortKeys in the order the sort dropdown lists them.
var SortKeys = []SortKey{SortDefault, SortPriceLow, SortPriceHigh, SortRating, SortName}

// ParseSortKey maps unknown keys to SortDefault.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k
		}
	}
	return SortDefault
}

// Criteria is the page-local filter state of a listing page.
//
// The zero value is a no-op. A nil PriceMax means no upper bound; a set one
// is a real bound, zero included, unless it is NaN or negative.
type Criteria struct {
	SearchTerm string
	PriceMin   float64
	PriceMax   *float64
	MinRating  float64
	Sort       SortKey
}

func DefaultCriteria() Criteria {
	return Criteria{Sort: SortDefault}
}

// Bound returns v as a PriceMax.
func Bound(v float64) *float64 { return &v }

type bounds struct {
	term     string
	min, max float64
	rating   float64
}

// effective resolves invalid or missing bounds to "no constraint".
func (c Criteria) effective() bounds {
	b := bounds{
		term:   strings.ToLower(strings.TrimSpace(c.SearchTerm)),
		min:    c.PriceMin,
		max:    math.Inf(1),
		rating: c.MinRating,
	}
	if math.IsNaN(b.min) || math.IsInf(b.min, 0) || b.min < 0 {
		b.min = 0
	}
	if m := c.PriceMax; m != nil && !math.IsNaN(*m) && *m >= 0 {
		b.max = *m
	}
	if math.IsNaN(b.rating) || math.IsInf(b.rating, 0) || b.rating < 0 {
		b.rating = 0
	}
	return b
}

// Active reports whether any constraint or reordering is in effect.
func (c Criteria) Active() bool {
	b := c.effective()
	return b.term != "" || b.min > 0 || !math.IsInf(b.max, 1) || b.rating > 0 || ParseSortKey(string(c.Sort)) != SortDefault
}

// Matches reports whether p satisfies every constraint of c.
func (c Criteria) Matches(p domain.Product) bool {
	return c.effective().matches(p)
}

func (b bounds) matches(p domain.Product) bool {
	if b.term != "" &&
		!strings.Contains(strings.ToLower(p.Title), b.term) &&
		!strings.Contains(strings.ToLower(p.Description), b.term) {
		return false
	}
	if p.Price < b.min || p.Price > b.max {
		return false
	}
	return p.RatingOrZero() >= b.rating
}

// Filter returns the products to render for c, in render order. The input
// slice is never modified and the result never aliases it.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	b := c.effective()
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if b.matches(p) {
			out = append(out, p)
		}
	}

	switch ParseSortKey(string(c.Sort)) {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].RatingOrZero() > out[j].RatingOrZero() })
	case SortName:
		// collators keep internal buffers, one per call
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Title, out[j].Title) < 0 })
	}
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// CompareTitles is the comparator used for the name sort.
func CompareTitles(a, b string) int {
	return newCollator().CompareString(a, b)
}

// ParseCriteria reads filter state from request parameters
// (q, min, max, rating, sort). Unparseable numbers mean "not set".
func ParseCriteria(get func(key string) string) Criteria {
	c := DefaultCriteria()
	c.SearchTerm = strings.TrimSpace(get("q"))
	if v, ok := parseNumber(get("min")); ok {
		c.PriceMin = v
	}
	if v, ok := parseNumber(get("max")); ok {
		c.PriceMax = Bound(v)
	}
	if v, ok := parseNumber(get("rating")); ok {
		c.MinRating = v
	}
	c.Sort = ParseSortKey(get("sort"))
	return c
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
