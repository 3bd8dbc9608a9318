package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api/apitest"
	"storefront/internal/domain"
)

const shopperEmail = "asha@shop.test"

func TestGuestAddToCartGoesToLoginWithoutBackendCall(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.post("/cart", url.Values{"product_id": {"1"}, "qty": {"1"}, "stocks": {"10"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Zero(t, s.backend.CallCount("POST /api/cart"))

	resp = b.get("/cart")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Zero(t, s.backend.CallCount("GET /api/cart"))
}

func TestAddToCartUpdatesBadge(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/cart", url.Values{"product_id": {"1"}, "qty": {"2"}, "stocks": {"10"}, "back": {"/products"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))
	assert.Equal(t, 1, s.backend.CartLen(apitest.TokenFor(shopperEmail)))

	_, doc := b.page("/products")
	assert.Equal(t, "2", strings.TrimSpace(doc.Find("#cart-count").Text()))
	assert.Contains(t, doc.Find(".flash").Text(), "Added to cart")
}

func TestSoldOutCardIsRejectedLocally(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/cart", url.Values{"product_id": {"2"}, "qty": {"1"}, "stocks": {"0"}, "back": {"/products"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))
	assert.Zero(t, s.backend.CallCount("POST /api/cart"))

	_, doc := b.page("/products")
	assert.Contains(t, doc.Find(".flash").Text(), "out of stock")
}

func TestQuantityIsClampedToCardStock(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	b.post("/cart", url.Values{"product_id": {"3"}, "qty": {"9"}, "stocks": {"3"}})
	_, doc := b.page("/cart")
	val, _ := doc.Find(".cart input[name=qty]").Attr("value")
	assert.Equal(t, "3", val)
}

func TestProductPageAddNeedsSize(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/cart", url.Values{"product_id": {"4"}, "from": {"product"}, "qty": {"1"}, "color": {"Black"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/product/4?"), loc)
	assert.Contains(t, loc, "color=Black")
	assert.Zero(t, s.backend.CallCount("POST /api/cart"))

	resp = b.post("/cart", url.Values{"product_id": {"4"}, "from": {"product"}, "qty": {"5"}, "size": {"M"}, "color": {"Black"}, "back": {"/cart"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cart", resp.Header.Get("Location"))

	_, doc := b.page("/cart")
	assert.Contains(t, doc.Find(".cart .item").Text(), "Size M")
	val, _ := doc.Find(".cart input[name=qty]").Attr("value")
	assert.Equal(t, "2", val, "quantity is capped at the size's stock")
}

func TestCartUpdateAndRemove(t *testing.T) {
	s := newSite(t)
	tok := apitest.TokenFor(shopperEmail)
	s.backend.SeedCart(tok, domain.CartItem{ID: "ci1", ProductID: "1", Title: "Running Shoe", Quantity: 1, Price: 2499, Stocks: 10})
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/cart/ci1/update", url.Values{"qty": {"3"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, doc := b.page("/cart")
	assert.Contains(t, doc.Find(".summary").Text(), "₹7497.00")
	assert.Equal(t, "3", strings.TrimSpace(doc.Find("#cart-count").Text()))

	// zero removes the line
	b.post("/cart/ci1/update", url.Values{"qty": {"0"}})
	assert.Zero(t, s.backend.CartLen(tok))
	_, doc = b.page("/cart")
	assert.Contains(t, doc.Find(".empty").Text(), "Your cart is empty.")
	assert.Zero(t, doc.Find("#cart-count").Length())
}

func TestWishlistToggle(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/wishlist", url.Values{"product_id": {"3"}, "back": {"/products"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, []domain.ID{"3"}, s.backend.Wishlisted(apitest.TokenFor(shopperEmail)))

	_, doc := b.page("/products")
	assert.Equal(t, "1", strings.TrimSpace(doc.Find("#wishlist-count").Text()))
	assert.Equal(t, 1, cardFor(doc, "Ankle Socks").Find(".wish.on").Length())

	_, doc = b.page("/wishlist")
	assert.Equal(t, 1, doc.Find(".card").Length())

	b.post("/wishlist", url.Values{"product_id": {"3"}})
	assert.Empty(t, s.backend.Wishlisted(apitest.TokenFor(shopperEmail)))
}

func TestBackPathMustBeLocal(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/wishlist", url.Values{"product_id": {"1"}, "back": {"//evil.test/x"}})
	assert.Equal(t, "/wishlist", resp.Header.Get("Location"))
}
