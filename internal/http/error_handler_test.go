package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
)

func TestBackendFailureShowsGenericPage(t *testing.T) {
	s := newSite(t)
	s.backend.Fail("GET /api/products/1", http.StatusInternalServerError)
	b := s.browse(t)

	resp := b.get("/product/1")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, api.GenericMessage)
	assert.NotContains(t, body, "Injected failure")
	assert.NotContains(t, body, "127.0.0.1")
	assert.NotContains(t, body, "/api/products")
}

func TestMissingProductIsNotFound(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.get("/product/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "This item is no longer available")
}

func TestUnknownRoute(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp, doc := b.page("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Page not found", doc.Find("main h1").Text())
}

func TestHealthz(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, readBody(t, resp))
}

func TestSecurityHeaders(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)

	resp := b.get("/")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
