package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/domain"
)

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", b.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.Products)
	}))
	mux.HandleFunc("GET /api/products/{id}", b.locked(func(w http.ResponseWriter, r *http.Request) {
		p, ok := b.product(domain.ID(r.PathValue("id")))
		if !ok {
			fail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("GET /api/products/category/{id}", b.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.productsWhere(func(p domain.Product) bool { return p.CategoryID.String() == r.PathValue("id") }))
	}))
	mux.HandleFunc("GET /api/products/brand/{id}", b.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.productsWhere(func(p domain.Product) bool { return p.BrandID.String() == r.PathValue("id") }))
	}))
	mux.HandleFunc("GET /api/products/search", b.locked(func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, b.productsWhere(func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Title+" "+p.Description), q)
		}))
	}))
	mux.HandleFunc("GET /api/categories", b.locked(func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, b.Categories) }))
	mux.HandleFunc("GET /api/brands", b.locked(func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, b.Brands) }))
	mux.HandleFunc("GET /api/banners", b.locked(func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, b.Banners) }))
	mux.HandleFunc("GET /api/carousel", b.locked(func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, b.Slides) }))

	mux.HandleFunc("GET /api/user/reviews/{id}", b.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, orEmpty(b.Reviews[domain.ID(r.PathValue("id"))]))
	}))
	mux.HandleFunc("POST /api/user/reviews/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		var in struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		pid := domain.ID(r.PathValue("id"))
		b.Reviews[pid] = append(b.Reviews[pid], domain.Review{ID: b.id("r"), ProductID: pid, UserName: u.Name, Rating: in.Rating, Comment: in.Comment})
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Review added"})
	}))

	b.cartRoutes(mux)
	b.authRoutes(mux)
	b.orderRoutes(mux)
	b.adminRoutes(mux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls = append(b.calls, route)
		status := b.failing[route]
		b.mu.Unlock()
		if status != 0 {
			fail(w, status, "Injected failure")
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// locked runs h holding the state mutex.
func (b *Backend) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		h(w, r)
	}
}

// authed resolves the bearer token to a user or answers 401.
func (b *Backend) authed(h func(w http.ResponseWriter, r *http.Request, u domain.User, token string)) http.HandlerFunc {
	return b.locked(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || b.revoked[token] {
			fail(w, http.StatusUnauthorized, "Session expired, please log in again")
			return
		}
		for _, u := range b.Users {
			if TokenFor(u.Email) == token {
				h(w, r, u, token)
				return
			}
		}
		fail(w, http.StatusUnauthorized, "Invalid token")
	})
}

func (b *Backend) adminOnly(h func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		if u.Role != domain.RoleAdmin {
			fail(w, http.StatusForbidden, "Admin access required")
			return
		}
		h(w, r)
	})
}

func (b *Backend) product(id domain.ID) (domain.Product, bool) {
	for _, p := range b.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (b *Backend) productsWhere(keep func(domain.Product) bool) []domain.Product {
	out := []domain.Product{}
	for _, p := range b.Products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
