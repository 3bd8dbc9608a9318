package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api/apitest"
)

func TestLoginSuccessAndFailure(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.post("/login", url.Values{"email": {shopperEmail}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid email or password")

	resp = b.post("/login", url.Values{"email": {"blocked@shop.test"}, "password": {apitest.Password}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "this account has been blocked")

	b.login(shopperEmail)
	_, doc := b.page("/")
	assert.Equal(t, "Asha", strings.TrimSpace(doc.Find(`.nav a[href="/account"]`).Text()))
	assert.Contains(t, doc.Find(".flash").Text(), "Welcome back, Asha!")

	// logged-in visitors skip the form
	resp = b.get("/login")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLogoutClearsLogin(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	resp := b.post("/logout", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, doc := b.page("/")
	assert.Equal(t, 1, doc.Find(`.nav a[href="/login"]`).Length())
	assert.Contains(t, doc.Find(".flash").Text(), "You have been logged out.")
}

func TestRegisterValidatesAndLogsIn(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.post("/register", url.Values{"name": {"Meera"}, "email": {"meera-at-shop"}, "password": {"short"}, "confirm": {"other"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Enter a valid email address")
	assert.Contains(t, body, "Passwords do not match")
	assert.Contains(t, body, `value="Meera"`)

	resp = b.post("/register", url.Values{"name": {"Meera"}, "email": {shopperEmail}, "password": {apitest.Password}, "confirm": {apitest.Password}})
	assert.Contains(t, readBody(t, resp), "Email already registered")

	resp = b.post("/register", url.Values{"name": {"Meera"}, "email": {"meera@shop.test"}, "phone": {"9876543210"}, "password": {apitest.Password}, "confirm": {apitest.Password}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, doc := b.page("/")
	assert.Equal(t, "Meera", strings.TrimSpace(doc.Find(`.nav a[href="/account"]`).Text()))
}

func TestExpiredTokenRedirectsOnceAndClearsLogin(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)
	s.backend.Revoke(apitest.TokenFor(shopperEmail))

	before := s.backend.CallCount("GET /api/cart")
	resp := b.get("/cart")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, before+1, s.backend.CallCount("GET /api/cart"))

	resp, doc := b.page("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, doc.Find(".flash").Text(), "Your session has expired. Please log in again.")
	assert.Equal(t, 1, doc.Find(`.nav a[href="/login"]`).Length())

	// the login is gone locally, so no further backend round trip
	resp = b.get("/cart")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, before+1, s.backend.CallCount("GET /api/cart"))
}

func TestExpiredTokenOnMutationRedirects(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)
	s.backend.Revoke(apitest.TokenFor(shopperEmail))

	resp := b.post("/cart", url.Values{"product_id": {"1"}, "qty": {"1"}, "stocks": {"10"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestPasswordResetSteps(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	// later steps cannot be opened out of order
	resp := b.get("/verify-otp")
	assert.Equal(t, "/forgot-password", resp.Header.Get("Location"))
	resp = b.get("/reset-password")
	assert.Equal(t, "/forgot-password", resp.Header.Get("Location"))

	resp = b.post("/forgot-password", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = b.post("/forgot-password", url.Values{"email": {shopperEmail}})
	require.Equal(t, "/verify-otp", resp.Header.Get("Location"))
	resp = b.get("/forgot-password")
	assert.Equal(t, "/verify-otp", resp.Header.Get("Location"))

	resp, doc := b.page("/verify-otp")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, doc.Find("main p").First().Text(), shopperEmail)

	resp = b.post("/verify-otp", url.Values{"otp": {"000000"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid or expired OTP")

	resp = b.post("/verify-otp", url.Values{"otp": {apitest.OTP}})
	require.Equal(t, "/reset-password", resp.Header.Get("Location"))

	resp = b.post("/reset-password", url.Values{"password": {apitest.Password}, "confirm": {"nope"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = b.post("/reset-password", url.Values{"password": {apitest.Password}, "confirm": {apitest.Password}})
	require.Equal(t, "/login", resp.Header.Get("Location"))
	_, doc = b.page("/login")
	assert.Contains(t, doc.Find(".flash").Text(), "Password updated")

	// the flow is finished, so it starts over
	resp = b.get("/verify-otp")
	assert.Equal(t, "/forgot-password", resp.Header.Get("Location"))
}

func TestResetCanBeCancelled(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	b.post("/forgot-password", url.Values{"email": {shopperEmail}})
	resp := b.post("/verify-otp", url.Values{"cancel": {"1"}})
	assert.Equal(t, "/forgot-password", resp.Header.Get("Location"))
	resp = b.get("/forgot-password")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCSRFRequiredOnForms(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.post("/login", url.Values{"csrf": {"forged"}, "email": {shopperEmail}, "password": {apitest.Password}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, s.backend.CallCount("POST /api/auth/login"))
}

func TestLoginThrottle(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	var last *http.Response
	for i := 0; i < 11; i++ {
		last = b.post("/login", url.Values{"email": {shopperEmail}, "password": {"wrong"}})
		if i < 10 {
			require.Equal(t, http.StatusUnauthorized, last.StatusCode, "attempt %d", i)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.Contains(t, readBody(t, last), "Too many attempts. Please try again later.")
}
