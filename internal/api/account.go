package api

import (
	"context"

	"storefront/internal/domain"
)

func (c *Client) Addresses(ctx context.Context, token string) ([]domain.Address, error) {
	var out []domain.Address
	return out, c.get(ctx, "/api/address", token, &out)
}

func (c *Client) CreateAddress(ctx context.Context, token string, a domain.NewAddress) (domain.Address, error) {
	var out domain.Address
	return out, c.post(ctx, "/api/address", token, a, &out)
}

func (c *Client) DeleteAddress(ctx context.Context, token, id string) error {
	return c.del(ctx, p("/api/address", id), token)
}

func (c *Client) PlaceOrder(ctx context.Context, token string, o domain.PlaceOrder) (domain.Order, error) {
	var out domain.Order
	return out, c.post(ctx, "/api/orders", token, o, &out)
}

func (c *Client) Orders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	return out, c.get(ctx, "/api/orders", token, &out)
}

func (c *Client) Order(ctx context.Context, token, id string) (domain.Order, error) {
	var out domain.Order
	return out, c.get(ctx, p("/api/orders", id), token, &out)
}

func (c *Client) Coupons(ctx context.Context, token string) ([]domain.Coupon, error) {
	var out []domain.Coupon
	return out, c.get(ctx, "/api/coupons", token, &out)
}

func (c *Client) ApplyCoupon(ctx context.Context, token, code string, orderAmount float64) (domain.CouponQuote, error) {
	var out domain.CouponQuote
	in := struct {
		Code        string  `json:"code"`
		OrderAmount float64 `json:"order_amount"`
	}{code, orderAmount}
	return out, c.post(ctx, "/api/coupons/apply", token, in, &out)
}
