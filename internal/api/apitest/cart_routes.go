package apitest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"storefront/internal/domain"
)

func (b *Backend) cartRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		writeJSON(w, http.StatusOK, domain.Cart{Items: orEmpty(b.carts[tok])})
	}))
	mux.HandleFunc("POST /api/cart/add/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		var in struct {
			Quantity      int    `json:"quantity"`
			SelectedSize  string `json:"selected_size"`
			SelectedColor string `json:"selected_color"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		p, ok := b.product(domain.ID(r.PathValue("id")))
		if !ok {
			fail(w, http.StatusNotFound, "Product not found")
			return
		}
		if p.Stocks < in.Quantity || in.Quantity < 1 {
			fail(w, http.StatusBadRequest, "Insufficient stock")
			return
		}
		price := p.Price
		for _, s := range p.Sizes {
			if strings.EqualFold(s.Label, in.SelectedSize) {
				price += s.ExtraPrice
			}
		}
		items := b.carts[tok]
		for i := range items {
			if items[i].ProductID == p.ID && items[i].SelectedSize == in.SelectedSize && items[i].SelectedColor == in.SelectedColor {
				items[i].Quantity += in.Quantity
				writeJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
				return
			}
		}
		b.carts[tok] = append(items, domain.CartItem{
			ID: b.id("ci"), ProductID: p.ID, Title: p.Title, Image: p.Image, Quantity: in.Quantity,
			SelectedSize: in.SelectedSize, SelectedColor: in.SelectedColor, Price: price, Stocks: p.Stocks,
		})
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to cart"})
	}))
	mux.HandleFunc("PUT /api/cart/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		items := b.carts[tok]
		for i := range items {
			if items[i].ID.String() == r.PathValue("id") {
				items[i].Quantity = in.Quantity
				writeJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
				return
			}
		}
		fail(w, http.StatusNotFound, "Cart item not found")
	}))
	mux.HandleFunc("DELETE /api/cart/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		b.carts[tok] = slices.DeleteFunc(b.carts[tok], func(it domain.CartItem) bool { return it.ID.String() == r.PathValue("id") })
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("GET /api/wishlist", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		out := []domain.WishlistItem{}
		for _, pid := range b.wishlists[tok] {
			it := domain.WishlistItem{ID: "w" + pid, ProductID: pid}
			if p, ok := b.product(pid); ok {
				it.Product = &p
			}
			out = append(out, it)
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/wishlist/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		pid := domain.ID(r.PathValue("id"))
		if !slices.Contains(b.wishlists[tok], pid) {
			b.wishlists[tok] = append(b.wishlists[tok], pid)
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to wishlist"})
	}))
	mux.HandleFunc("DELETE /api/wishlist/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		pid := domain.ID(r.PathValue("id"))
		b.wishlists[tok] = slices.DeleteFunc(b.wishlists[tok], func(id domain.ID) bool { return id == pid })
		w.WriteHeader(http.StatusNoContent)
	}))
}
