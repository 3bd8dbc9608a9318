package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/api/apitest"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/session"
)

type site struct {
	backend *apitest.Backend
	app     *fiber.App
	deps    *handlers.Deps
}

func newSite(t *testing.T) *site {
	t.Helper()
	applog.Setup("error", io.Discard)
	t.Cleanup(func() { applog.Setup("info", nil) })

	be := apitest.New(t)
	store, err := session.OpenSQLite(":memory:")
	require.NoError(t, err)
	mgr := session.NewManager(store, time.Hour)

	cfg := config.Config{RateLimit: 1000, SessionTTL: time.Hour}
	d := handlers.NewDeps(cfg, api.New(be.URL, 2*time.Second), mgr)
	t.Cleanup(func() { _ = d.Close() })
	return &site{backend: be, app: handlers.NewApp(d), deps: d}
}

// browser carries cookies between requests and fills in the CSRF field.
type browser struct {
	t   *testing.T
	app *fiber.App
	jar map[string]string
}

// browse opens a browser that already holds a CSRF cookie. It has no
// session until something is stored in one.
func (s *site) browse(t *testing.T) *browser {
	t.Helper()
	b := &browser{t: t, app: s.app, jar: map[string]string{}}
	resp := b.get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, b.jar["csrf_"], "csrf cookie missing")
	return b
}

func (b *browser) sid() string { return b.jar[handlers.SessionCookie] }

func (b *browser) do(method, path string, form url.Values) *http.Response {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		if form.Get("csrf") == "" {
			form.Set("csrf", b.jar["csrf_"])
		}
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.jar {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.jar, c.Name)
			continue
		}
		b.jar[c.Name] = c.Value
	}
	return resp
}

func (b *browser) get(path string) *http.Response { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) *http.Response {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func (b *browser) page(path string) (*http.Response, *goquery.Document) {
	b.t.Helper()
	resp := b.get(path)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(b.t, err)
	return resp, doc
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp := b.post("/login", url.Values{"email": {email}, "password": {apitest.Password}})
	require.Equal(b.t, http.StatusFound, resp.StatusCode, "login %s", email)
}

func (b *browser) adminLogin() {
	b.t.Helper()
	resp := b.post("/admin/login", url.Values{"email": {apitest.AdminEmail}, "password": {apitest.Password}})
	require.Equal(b.t, http.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/admin", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs collects the structured entries written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.Setup("info", w)
	fn()
	applog.Setup("error", io.Discard)

	w.mu.Lock()
	defer w.mu.Unlock()
	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if json.Unmarshal([]byte(line), &e) == nil && e.Kind != "" {
			out = append(out, e)
		}
	}
	return out
}

func findAction(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
