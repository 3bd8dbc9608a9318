package api

import (
	"context"

	"storefront/internal/domain"
)

// Admin resources managed through the generic list/create/delete calls.
const (
	ResourceCategories = "categories"
	ResourceBrands     = "brands"
	ResourceBanners    = "banners"
	ResourceCarousel   = "carousel"
	ResourceCoupons    = "coupons"
	ResourceProducts   = "products"
	ResourceOrders     = "orders"
	ResourceUsers      = "users"
)

const adminPrefix = "/api/admin"

// AdminList fetches /api/admin/{resource} into a typed slice.
func AdminList[T any](ctx context.Context, c *Client, token, resource string) ([]T, error) {
	var out []T
	return out, c.get(ctx, p(adminPrefix, resource), token, &out)
}

func (c *Client) AdminCreate(ctx context.Context, token, resource string, body any) error {
	return c.post(ctx, p(adminPrefix, resource), token, body, nil)
}

func (c *Client) AdminDelete(ctx context.Context, token, resource, id string) error {
	return c.del(ctx, p(adminPrefix, resource, id), token)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	return c.put(ctx, p(adminPrefix, ResourceOrders, orderID, "status"), token, map[string]string{"status": status}, nil)
}

func (c *Client) SetUserBlocked(ctx context.Context, token, userID string, blocked bool) error {
	return c.put(ctx, p(adminPrefix, ResourceUsers, userID, "block"), token, map[string]bool{"blocked": blocked}, nil)
}

type DashboardStats struct {
	Products int     `json:"total_products" validate:"gte=0"`
	Orders   int     `json:"total_orders" validate:"gte=0"`
	Users    int     `json:"total_users" validate:"gte=0"`
	Revenue  float64 `json:"total_revenue" validate:"gte=0"`
	Pending  int     `json:"pending_orders" validate:"gte=0"`
}

func (c *Client) Dashboard(ctx context.Context, token string) (DashboardStats, error) {
	var out DashboardStats
	return out, c.get(ctx, p(adminPrefix, "dashboard"), token, &out)
}

func (c *Client) AdminOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return AdminList[domain.Order](ctx, c, token, ResourceOrders)
}

func (c *Client) AdminUsers(ctx context.Context, token string) ([]domain.User, error) {
	return AdminList[domain.User](ctx, c, token, ResourceUsers)
}
