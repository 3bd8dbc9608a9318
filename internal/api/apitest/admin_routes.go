package apitest

import (
	"encoding/json"
	"net/http"
	"slices"

	"storefront/internal/domain"
)

func (b *Backend) adminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/dashboard", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		revenue, pending := 0.0, 0
		for _, o := range b.Orders {
			revenue += o.Total
			if o.Status == "pending" {
				pending++
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total_products": len(b.Products),
			"total_orders":   len(b.Orders),
			"total_users":    len(b.Users),
			"total_revenue":  revenue,
			"pending_orders": pending,
		})
	}))
	mux.HandleFunc("GET /api/admin/{resource}", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("resource") {
		case "categories":
			writeJSON(w, http.StatusOK, b.Categories)
		case "brands":
			writeJSON(w, http.StatusOK, b.Brands)
		case "banners":
			writeJSON(w, http.StatusOK, b.Banners)
		case "carousel":
			writeJSON(w, http.StatusOK, b.Slides)
		case "coupons":
			writeJSON(w, http.StatusOK, b.Coupons)
		case "products":
			writeJSON(w, http.StatusOK, b.Products)
		case "orders":
			writeJSON(w, http.StatusOK, orEmpty(b.Orders))
		case "users":
			writeJSON(w, http.StatusOK, b.Users)
		default:
			fail(w, http.StatusNotFound, "Unknown resource")
		}
	}))
	mux.HandleFunc("POST /api/admin/{resource}", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		str := func(k string) string {
			s, _ := in[k].(string)
			return s
		}
		num := func(k string) float64 {
			f, _ := in[k].(float64)
			return f
		}
		switch r.PathValue("resource") {
		case "categories":
			b.Categories = append(b.Categories, domain.Category{ID: b.id("c"), Name: str("name"), Image: str("image")})
		case "brands":
			b.Brands = append(b.Brands, domain.Brand{ID: b.id("b"), Name: str("name"), Logo: str("logo")})
		case "banners":
			b.Banners = append(b.Banners, domain.Banner{ID: b.id("bn"), Title: str("title"), Image: str("image"), Link: str("link")})
		case "carousel":
			b.Slides = append(b.Slides, domain.CarouselSlide{ID: b.id("s"), Title: str("title"), Subtitle: str("subtitle"), Image: str("image"), Link: str("link")})
		case "coupons":
			b.Coupons = append(b.Coupons, domain.Coupon{ID: b.id("k"), Code: str("code"), Type: str("discount_type"), Value: num("discount_value"),
				MinOrderAmount: num("min_order_amount"), MaxDiscount: num("max_discount"), UsageLimit: int(num("usage_limit")), Active: true})
		case "products":
			b.Products = append(b.Products, domain.Product{ID: b.id("p"), Title: str("title"), Description: str("description"),
				Price: num("price"), OldPrice: num("old_price"), Discount: num("discount"), Stocks: int(num("stocks")),
				CategoryID: domain.ID(str("category_id")), BrandID: domain.ID(str("brand_id")), Image: str("image")})
		default:
			fail(w, http.StatusNotFound, "Unknown resource")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Created"})
	}))
	mux.HandleFunc("DELETE /api/admin/{resource}/{id}", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		id := domain.ID(r.PathValue("id"))
		switch r.PathValue("resource") {
		case "categories":
			b.Categories = slices.DeleteFunc(b.Categories, func(c domain.Category) bool { return c.ID == id })
		case "brands":
			b.Brands = slices.DeleteFunc(b.Brands, func(c domain.Brand) bool { return c.ID == id })
		case "banners":
			b.Banners = slices.DeleteFunc(b.Banners, func(c domain.Banner) bool { return c.ID == id })
		case "carousel":
			b.Slides = slices.DeleteFunc(b.Slides, func(c domain.CarouselSlide) bool { return c.ID == id })
		case "coupons":
			b.Coupons = slices.DeleteFunc(b.Coupons, func(c domain.Coupon) bool { return c.ID == id })
		case "products":
			b.Products = slices.DeleteFunc(b.Products, func(c domain.Product) bool { return c.ID == id })
		case "users":
			b.Users = slices.DeleteFunc(b.Users, func(c domain.User) bool { return c.ID == id })
		default:
			fail(w, http.StatusNotFound, "Unknown resource")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range b.Orders {
			if b.Orders[i].ID.String() == r.PathValue("id") {
				b.Orders[i].Status = in.Status
				writeJSON(w, http.StatusOK, b.Orders[i])
				return
			}
		}
		fail(w, http.StatusNotFound, "Order not found")
	}))
	mux.HandleFunc("PUT /api/admin/users/{id}/block", b.adminOnly(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Blocked bool `json:"blocked"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range b.Users {
			if b.Users[i].ID.String() == r.PathValue("id") {
				b.Users[i].Blocked = in.Blocked
				writeJSON(w, http.StatusOK, b.Users[i])
				return
			}
		}
		fail(w, http.StatusNotFound, "User not found")
	}))
}
