package catalog

import (
	"errors"
	"strings"

	"storefront/internal/domain"
)

var (
	ErrOutOfStock    = errors.New("this product is out of stock")
	ErrUnknownSize   = errors.New("selected size is not available for this product")
	ErrSizeSoldOut   = errors.New("selected size is out of stock")
	ErrUnknownColor  = errors.New("selected color is not available for this product")
	ErrSizeRequired  = errors.New("please select a size")
	ErrColorRequired = errors.New("please select a color")
)

// Selection is the size/color/quantity state of the product page.
type Selection struct {
	product  domain.Product
	size     int // index into product.Sizes, -1 when unset
	color    string
	quantity int
}

func NewSelection(p domain.Product) *Selection {
	s := &Selection{product: p, size: -1, quantity: 1}
	// a single in-stock size is preselected
	if len(p.Sizes) == 1 && p.Sizes[0].Stock > 0 {
		s.size = 0
	}
	if len(p.Colors) == 1 {
		s.color = p.Colors[0]
	}
	return s
}

func (s *Selection) Product() domain.Product { return s.product }

func (s *Selection) SelectSize(label string) error {
	label = strings.TrimSpace(label)
	for i, sz := range s.product.Sizes {
		if strings.EqualFold(sz.Label, label) {
			if sz.Stock <= 0 {
				return ErrSizeSoldOut
			}
			s.size = i
			s.clampQuantity()
			return nil
		}
	}
	return ErrUnknownSize
}

func (s *Selection) SelectColor(label string) error {
	label = strings.TrimSpace(label)
	for _, c := range s.product.Colors {
		if strings.EqualFold(c, label) {
			s.color = c
			return nil
		}
	}
	return ErrUnknownColor
}

// SetQuantity clamps n to [1, Available()].
func (s *Selection) SetQuantity(n int) {
	s.quantity = n
	s.clampQuantity()
}

func (s *Selection) clampQuantity() {
	if avail := s.Available(); avail > 0 && s.quantity > avail {
		s.quantity = avail
	}
	if s.quantity < 1 {
		s.quantity = 1
	}
}

func (s *Selection) Size() string {
	if s.size < 0 {
		return ""
	}
	return s.product.Sizes[s.size].Label
}

func (s *Selection) Color() string { return s.color }
func (s *Selection) Quantity() int { return s.quantity }

// Available is the stock that bounds the quantity: the chosen size's stock
// when the product has sizes, the product stock otherwise.
func (s *Selection) Available() int {
	if len(s.product.Sizes) > 0 {
		if s.size < 0 {
			return s.product.Stocks
		}
		return s.product.Sizes[s.size].Stock
	}
	return s.product.Stocks
}

func (s *Selection) UnitPrice() float64 {
	price := s.product.Price
	if s.size >= 0 {
		price += s.product.Sizes[s.size].ExtraPrice
	}
	return price
}

// Validate returns the first reason the selection cannot go to the cart.
func (s *Selection) Validate() error {
	if s.product.Stocks <= 0 {
		return ErrOutOfStock
	}
	if len(s.product.Sizes) > 0 {
		if s.size < 0 {
			return ErrSizeRequired
		}
		if s.product.Sizes[s.size].Stock <= 0 {
			return ErrSizeSoldOut
		}
	}
	if len(s.product.Colors) > 0 && s.color == "" {
		return ErrColorRequired
	}
	return nil
}

func (s *Selection) Ready() bool { return s.Validate() == nil }

// SizeOption is a size button on the product page.
type SizeOption struct {
	Label      string
	ExtraPrice float64
	Disabled   bool
	Selected   bool
}

func (s *Selection) SizeOptions() []SizeOption {
	out := make([]SizeOption, 0, len(s.product.Sizes))
	for i, sz := range s.product.Sizes {
		out = append(out, SizeOption{
			Label:      sz.Label,
			ExtraPrice: sz.ExtraPrice,
			Disabled:   sz.Stock <= 0,
			Selected:   i == s.size,
		})
	}
	return out
}
