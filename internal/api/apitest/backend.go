// Package apitest runs an in-memory stand-in for the storefront backend so
// services and handlers can be tested against real HTTP round trips.
package apitest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"storefront/internal/domain"
)

const (
	Password   = "Sh0pping!"
	AdminEmail = "admin@shop.test"
	AdminToken = "admin-tok"
	OTP        = "123456"
	ResetToken = "reset-tok"
)

// Backend is safe for concurrent use. Exported fields may be changed by a
// test before requests are made.
type Backend struct {
	*httptest.Server

	mu         sync.Mutex
	Products   []domain.Product
	Categories []domain.Category
	Brands     []domain.Brand
	Banners    []domain.Banner
	Slides     []domain.CarouselSlide
	Coupons    []domain.Coupon
	Users      []domain.User
	Reviews    map[domain.ID][]domain.Review
	Addresses  map[string][]domain.Address
	Orders     []domain.Order

	carts     map[string][]domain.CartItem
	wishlists map[string][]domain.ID
	revoked   map[string]bool
	failing   map[string]int
	calls     []string
	nextID    int
}

// New starts a seeded backend and closes it when the test ends.
func New(t interface{ Cleanup(func()) }) *Backend {
	b := Seeded()
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Close)
	return b
}

func rating(v float64) *float64 { return &v }

// Seeded returns backend state without starting a server.
func Seeded() *Backend {
	return &Backend{
		Products: []domain.Product{
			{ID: "1", Title: "Running Shoe", Description: "Light trainer", Price: 2499, OldPrice: 2999, Discount: 17, Rating: rating(4.4), ReviewCount: 12, Stocks: 10, CategoryID: "c1", BrandID: "b1", Image: "shoe.jpg"},
			{ID: "2", Title: "Backpack", Description: "30L daypack", Price: 1299, Rating: rating(3.8), Stocks: 0, CategoryID: "c2", BrandID: "b1"},
			{ID: "3", Title: "Ankle Socks", Description: "Pack of three", Price: 299, Stocks: 3, CategoryID: "c1", BrandID: "b2"},
			{ID: "4", Title: "Hoodie", Description: "Fleece lined", Price: 1500, Rating: rating(4.8), Stocks: 9, CategoryID: "c2", BrandID: "b2",
				Sizes: []domain.Size{{Label: "S", Stock: 0}, {Label: "M", Stock: 2}, {Label: "XL", Stock: 7, ExtraPrice: 200}}, Colors: []string{"Black", "Olive"}},
		},
		Categories: []domain.Category{{ID: "c1", Name: "Footwear"}, {ID: "c2", Name: "Apparel"}},
		Brands:     []domain.Brand{{ID: "b1", Name: "Stride"}, {ID: "b2", Name: "Loom"}},
		Banners:    []domain.Banner{{ID: "bn1", Title: "Monsoon Sale", Image: "sale.jpg", Link: "/products"}},
		Slides:     []domain.CarouselSlide{{ID: "s1", Title: "New season", Image: "hero.jpg"}},
		Coupons: []domain.Coupon{
			{ID: "k1", Code: "SAVE10", Type: domain.CouponPercentage, Value: 10, MinOrderAmount: 500, MaxDiscount: 200, Active: true},
			{ID: "k2", Code: "FLAT100", Type: domain.CouponFixed, Value: 100, MinOrderAmount: 1000, Active: true},
			{ID: "k3", Code: "OLD", Type: domain.CouponFixed, Value: 50},
		},
		Users: []domain.User{
			{ID: "u1", Name: "Asha", Email: "asha@shop.test", Role: domain.RoleUser},
			{ID: "u2", Name: "Blocked", Email: "blocked@shop.test", Role: domain.RoleUser, Blocked: true},
			{ID: "u9", Name: "Admin", Email: AdminEmail, Role: domain.RoleAdmin},
		},
		Reviews:   map[domain.ID][]domain.Review{"1": {{ID: "r1", ProductID: "1", UserName: "Ravi", Rating: 5, Comment: "Great fit"}}},
		Addresses: map[string][]domain.Address{},
		carts:     map[string][]domain.CartItem{},
		wishlists: map[string][]domain.ID{},
		revoked:   map[string]bool{},
		failing:   map[string]int{},
		nextID:    100,
	}
}

// TokenFor is the bearer token the backend issues to email.
func TokenFor(email string) string {
	if email == AdminEmail {
		return AdminToken
	}
	return "tok-" + email
}

// Revoke makes token answer 401 from now on.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

// Fail makes requests whose "METHOD /path" equals route answer status.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[route] = status
}

// Calls returns "METHOD /path" for every request received so far.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CallCount counts received requests whose "METHOD /path" starts with prefix.
func (b *Backend) CallCount(prefix string) int {
	n := 0
	for _, c := range b.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// SeedCart puts items straight into token's cart.
func (b *Backend) SeedCart(token string, items ...domain.CartItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.carts[token] = append(b.carts[token], items...)
}

func (b *Backend) CartLen(token string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.carts[token])
}

func (b *Backend) Wishlisted(token string) []domain.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.ID(nil), b.wishlists[token]...)
}

func (b *Backend) id(prefix string) domain.ID {
	b.nextID++
	return domain.ID(fmt.Sprintf("%s%d", prefix, b.nextID))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
