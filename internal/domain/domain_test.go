package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"sku-9","c":null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, int64(42), v.A.Int())
	assert.Equal(t, ID("sku-9"), v.B)
	assert.Equal(t, int64(0), v.B.Int())
	assert.Equal(t, ID(""), v.C)
}

func TestRatingOrZero(t *testing.T) {
	r := 4.5
	assert.Equal(t, 4.5, Product{Rating: &r}.RatingOrZero())
	assert.Equal(t, 0.0, Product{}.RatingOrZero())
}

func TestCartCountAndSubtotal(t *testing.T) {
	c := Cart{Items: []CartItem{
		{Quantity: 2, Price: 100},
		{Quantity: 1, Price: 49.5},
	}}
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 249.5, c.Subtotal())
}

func TestTotalsClampDiscount(t *testing.T) {
	assert.Equal(t, Totals{Subtotal: 500, Discount: 50, Total: 450}, NewTotals(500, 50))
	assert.Equal(t, Totals{Subtotal: 80, Discount: 80, Total: 0}, NewTotals(80, 120))
	assert.Equal(t, Totals{Subtotal: 80, Discount: 0, Total: 80}, NewTotals(80, -5))
}

func TestCouponLabelAndEligibility(t *testing.T) {
	pct := Coupon{Code: "SAVE10", Type: CouponPercentage, Value: 10, MaxDiscount: 200, MinOrderAmount: 999}
	assert.Equal(t, "10% off (up to ₹200.00)", pct.Label())
	assert.False(t, pct.Eligible(500))
	assert.Equal(t, 499.0, pct.Shortfall(500))
	assert.True(t, pct.Eligible(999))

	fixed := Coupon{Code: "FLAT100", Type: CouponFixed, Value: 100}
	assert.Equal(t, "₹100.00 off", fixed.Label())
	assert.Equal(t, 0.0, fixed.Shortfall(10))
}
