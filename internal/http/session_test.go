package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api/apitest"
	"storefront/internal/http/handlers"
	"storefront/internal/session"
)

func TestAnonymousBrowsingStoresNoSession(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	assert.Empty(t, b.sid())

	b.get("/")
	b.get("/products")
	assert.Empty(t, b.sid())

	// storing something is what creates the session
	b.post("/forgot-password", url.Values{"email": {shopperEmail}})
	assert.NotEmpty(t, b.sid())
}

func TestUnknownSessionCookieIsCleared(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.jar[handlers.SessionCookie] = "forged-id"

	resp := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, b.sid())
}

func TestLoginRotatesSessionCookie(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.post("/forgot-password", url.Values{"email": {shopperEmail}})
	planted := b.sid()
	require.NotEmpty(t, planted)

	b.login(shopperEmail)
	assert.NotEmpty(t, b.sid())
	assert.NotEqual(t, planted, b.sid())

	// whoever else holds the pre-login ID gets nothing
	other := s.browse(t)
	other.jar[handlers.SessionCookie] = planted
	resp := other.get("/account")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	shopper := b.sid()
	b.adminLogin()
	assert.NotEqual(t, shopper, b.sid())
	resp = b.get("/account")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterRotatesSessionCookie(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.post("/forgot-password", url.Values{"email": {shopperEmail}})
	planted := b.sid()
	require.NotEmpty(t, planted)

	resp := b.post("/register", url.Values{
		"name": {"Meera"}, "email": {"meera@shop.test"},
		"password": {apitest.Password}, "confirm": {apitest.Password},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotEqual(t, planted, b.sid())
}

func TestExpiredLoginTokenEndsSessionState(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)
	b.get("/")
	sid := b.sid()
	require.True(t, s.deps.Badges.Known(sid))

	// swap the stored token for one whose exp has passed
	ctx := context.Background()
	sess, err := s.deps.Sessions.Load(ctx, sid)
	require.NoError(t, err)
	require.True(t, sess.LoggedIn(session.ScopeUser))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	sess.User.Token = tok
	require.NoError(t, s.deps.Sessions.Save(ctx, sess))

	before := s.backend.CallCount("GET /api/cart")
	var resp *http.Response
	entries := captureLogs(t, func() { resp = b.get("/cart") })
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, before, s.backend.CallCount("GET /api/cart"))
	assert.False(t, s.deps.Badges.Known(sid))
	assert.NotNil(t, findAction(entries, "session.expired"))
}

func TestLogoutForgetsSearchSequence(t *testing.T) {
	s := newSite(t)
	b := s.browse(t)
	b.login(shopperEmail)
	guard := s.deps.SearchHandler.Guard

	status, _ := suggest(t, b, "q=shoe&seq=5")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, guard.Len())

	b.post("/logout", nil)
	assert.Zero(t, guard.Len())
}
