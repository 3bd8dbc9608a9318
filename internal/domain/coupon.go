package domain

import (
	"fmt"
	"math"
	"strconv"
)

const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

// Coupon is display data only; the backend decides whether it applies.
type Coupon struct {
	ID             ID      `json:"id"`
	Code           string  `json:"code" validate:"required"`
	Type           string  `json:"discount_type" validate:"oneof=percentage fixed"`
	Value          float64 `json:"discount_value" validate:"gte=0"`
	MinOrderAmount float64 `json:"min_order_amount" validate:"gte=0"`
	MaxDiscount    float64 `json:"max_discount" validate:"gte=0"`
	UsageLimit     int     `json:"usage_limit" validate:"gte=0"`
	ExpiresAt      string  `json:"expires_at"`
	Active         bool    `json:"is_active"`
}

// Label renders the offer the way the storefront shows it.
func (c Coupon) Label() string {
	if c.Type == CouponPercentage {
		s := strconv.FormatFloat(c.Value, 'f', -1, 64) + "% off"
		if c.MaxDiscount > 0 {
			s += " (up to " + Money(c.MaxDiscount) + ")"
		}
		return s
	}
	return Money(c.Value) + " off"
}

// Eligible reports whether the subtotal meets the minimum order amount.
func (c Coupon) Eligible(subtotal float64) bool {
	return subtotal >= c.MinOrderAmount
}

// Shortfall is how much more the shopper has to add before the coupon unlocks.
func (c Coupon) Shortfall(subtotal float64) float64 {
	if c.Eligible(subtotal) {
		return 0
	}
	return round2(c.MinOrderAmount - subtotal)
}

// CouponQuote is the backend's answer to an apply request.
type CouponQuote struct {
	Code     string  `json:"code" validate:"required"`
	Discount float64 `json:"discount" validate:"gte=0"`
	Message  string  `json:"message"`
}

type Totals struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// NewTotals applies a server-provided discount. The discount is clamped to
// [0, subtotal] so the payable total never goes negative.
func NewTotals(subtotal, discount float64) Totals {
	if subtotal < 0 || math.IsNaN(subtotal) {
		subtotal = 0
	}
	if discount < 0 || math.IsNaN(discount) {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return Totals{
		Subtotal: round2(subtotal),
		Discount: round2(discount),
		Total:    round2(subtotal - discount),
	}
}

func Money(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
