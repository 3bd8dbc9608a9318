package catalog

import (
	"strconv"
	"strings"

	"storefront/internal/domain"
)

// LowStockThreshold is the stock count below which a card shows "Only N left".
const LowStockThreshold = 5

const PlaceholderImage = "/static/img/placeholder.svg"

type StockState string

const (
	StockOut    StockState = "out"
	StockLow    StockState = "low"
	StockNormal StockState = "normal"
)

func StockStateOf(stocks int) StockState {
	switch {
	case stocks <= 0:
		return StockOut
	case stocks < LowStockThreshold:
		return StockLow
	default:
		return StockNormal
	}
}

type Variant string

const (
	VariantGrid Variant = "grid"
	VariantRow  Variant = "row"
)

// Card is the view model every listing surface renders.
type Card struct {
	ID          domain.ID
	Image       string
	Title       string
	Price       float64
	OldPrice    float64
	Discount    float64
	Rating      float64
	ReviewCount int
	Stocks      int
	Stock       StockState
	Variant     Variant
	Wishlisted  bool
}

func NewCard(p domain.Product, imageBase string, v Variant) Card {
	if v != VariantRow {
		v = VariantGrid
	}
	rating := p.RatingOrZero()
	if rating > 5 {
		rating = 5
	}
	c := Card{
		ID:          p.ID,
		Image:       ImageURL(imageBase, p.Image),
		Title:       p.Title,
		Price:       p.Price,
		Rating:      rating,
		ReviewCount: p.ReviewCount,
		Stocks:      p.Stocks,
		Stock:       StockStateOf(p.Stocks),
		Variant:     v,
	}
	// old price is only worth showing when it is actually higher
	if p.OldPrice > p.Price {
		c.OldPrice = p.OldPrice
		c.Discount = p.Discount
	}
	return c
}

// Cards builds one card per product, marking wishlisted ids.
func Cards(products []domain.Product, imageBase string, v Variant, wishlisted map[domain.ID]bool) []Card {
	out := make([]Card, 0, len(products))
	for _, p := range products {
		c := NewCard(p, imageBase, v)
		c.Wishlisted = wishlisted[p.ID]
		out = append(out, c)
	}
	return out
}

func (c Card) OutOfStock() bool { return c.Stock == StockOut }
func (c Card) LowStock() bool   { return c.Stock == StockLow }

func (c Card) CanAddToCart() bool {
	return c.Stock != StockOut
}

// Badge is the stock label, empty for normal stock.
func (c Card) Badge() string {
	switch c.Stock {
	case StockOut:
		return "Out of Stock"
	case StockLow:
		return "Only " + strconv.Itoa(c.Stocks) + " left"
	}
	return ""
}

// Stars returns the rating rounded to the nearest whole star.
func (c Card) Stars() int {
	return int(c.Rating + 0.5)
}

// ImageURL resolves a backend image reference against the asset base URL.
func ImageURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return ref
	}
	if base == "" {
		return "/" + strings.TrimLeft(ref, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
