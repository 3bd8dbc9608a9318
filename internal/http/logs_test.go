package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditCarriesUser(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)

	entries := captureLogs(t, func() {
		resp := b.post("/cart", url.Values{"product_id": {"1"}, "qty": {"2"}, "stocks": {"10"}})
		require.Equal(t, http.StatusFound, resp.StatusCode)
	})
	e := findAction(entries, "cart.add")
	require.NotNil(t, e)
	assert.Equal(t, "audit", e.Kind)
	assert.Equal(t, "u1", e.UserID)
}

func TestFailedLoginIsSecurityEvent(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	entries := captureLogs(t, func() {
		b.post("/login", url.Values{"email": {shopperEmail}, "password": {"nope"}})
	})
	e := findAction(entries, "auth.login.fail")
	require.NotNil(t, e)
	assert.Equal(t, "security", e.Kind)
	assert.Equal(t, "warning", e.Level)
	assert.Equal(t, shopperEmail, e.Fields["email"])
	for _, en := range entries {
		assert.NotContains(t, en.Fields, "password")
	}
}

func TestCSRFFailureIsLogged(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	entries := captureLogs(t, func() {
		resp := b.post("/cart", url.Values{"csrf": {"bogus"}, "product_id": {"1"}})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
	assert.NotNil(t, findAction(entries, "csrf.fail"))
}

func TestBodySizeLimit(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for name, value := range b.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := s.app.Test(req, -1)
	// fasthttp may refuse the body before fiber produces a response
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
