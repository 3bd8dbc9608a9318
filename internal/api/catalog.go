package api

import (
	"context"
	"net/url"

	"storefront/internal/domain"
)

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	return out, c.get(ctx, "/api/products", "", &out)
}

func (c *Client) Product(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	return out, c.get(ctx, p("/api/products", id), "", &out)
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	return out, c.get(ctx, p("/api/products/category", categoryID), "", &out)
}

func (c *Client) ProductsByBrand(ctx context.Context, brandID string) ([]domain.Product, error) {
	var out []domain.Product
	return out, c.get(ctx, p("/api/products/brand", brandID), "", &out)
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	var out []domain.Product
	return out, c.get(ctx, "/api/products/search?q="+url.QueryEscape(q), "", &out)
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	return out, c.get(ctx, "/api/categories", "", &out)
}

func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	var out []domain.Brand
	return out, c.get(ctx, "/api/brands", "", &out)
}

func (c *Client) Banners(ctx context.Context) ([]domain.Banner, error) {
	var out []domain.Banner
	return out, c.get(ctx, "/api/banners", "", &out)
}

func (c *Client) Carousel(ctx context.Context) ([]domain.CarouselSlide, error) {
	var out []domain.CarouselSlide
	return out, c.get(ctx, "/api/carousel", "", &out)
}

func (c *Client) Reviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var out []domain.Review
	return out, c.get(ctx, p("/api/user/reviews", productID), "", &out)
}

type NewReview struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (c *Client) CreateReview(ctx context.Context, token, productID string, r NewReview) error {
	return c.post(ctx, p("/api/user/reviews", productID), token, r, nil)
}
