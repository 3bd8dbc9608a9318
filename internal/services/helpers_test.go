package services_test

import (
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/api/apitest"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/services"
	"storefront/internal/session"
)

type env struct {
	backend *apitest.Backend
	client  *api.Client
	bus     *events.Bus
	badges  *services.Badges
	errs    []error
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{backend: apitest.New(t)}
	e.client = api.New(e.backend.URL, 2*time.Second)
	e.bus = events.NewBus(func(_ events.Notification, err error) { e.errs = append(e.errs, err) })
	e.badges = services.NewBadges(e.client, 0)
	t.Cleanup(e.badges.Attach(e.bus))
	return e
}

func guest() *session.Session {
	return &session.Session{ID: "sid-guest"}
}

func shopper() *session.Session {
	s := &session.Session{ID: "sid-asha"}
	s.SetPrincipal(session.ScopeUser, &session.Principal{
		Token:   apitest.TokenFor("asha@shop.test"),
		Profile: domain.User{ID: "u1", Email: "asha@shop.test", Role: domain.RoleUser},
	})
	return s
}

func admin() *session.Session {
	s := &session.Session{ID: "sid-admin"}
	s.SetPrincipal(session.ScopeAdmin, &session.Principal{
		Token:   apitest.AdminToken,
		Profile: domain.User{ID: "u9", Email: apitest.AdminEmail, Role: domain.RoleAdmin},
	})
	return s
}
