package api

import (
	"context"

	"storefront/internal/domain"
)

type AddToCart struct {
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selected_size,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`
}

func (c *Client) Cart(ctx context.Context, token string) (domain.Cart, error) {
	var out domain.Cart
	return out, c.get(ctx, "/api/cart", token, &out)
}

func (c *Client) AddToCart(ctx context.Context, token, productID string, in AddToCart) error {
	return c.post(ctx, p("/api/cart/add", productID), token, in, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	return c.put(ctx, p("/api/cart", itemID), token, map[string]int{"quantity": quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) error {
	return c.del(ctx, p("/api/cart", itemID), token)
}

func (c *Client) Wishlist(ctx context.Context, token string) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	return out, c.get(ctx, "/api/wishlist", token, &out)
}

func (c *Client) AddToWishlist(ctx context.Context, token, productID string) error {
	return c.post(ctx, p("/api/wishlist", productID), token, nil, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) error {
	return c.del(ctx, p("/api/wishlist", productID), token)
}
