package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	applog "storefront/internal/log"
	"storefront/internal/events"
	"storefront/internal/services"
	"storefront/internal/session"
)

const (
	SessionCookie = "sid"

	localSession = "session"
	localBadges  = "badges"
)

func sessionFrom(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(localSession).(*session.Session)
	return s
}

// scopeFor picks which login a path belongs to.
func scopeFor(path string) session.Scope {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return session.ScopeAdmin
	}
	return session.ScopeUser
}

// SessionMiddleware loads the visitor's session before the handler and
// saves it after. When the chain fails the error handler owns saving.
func (d *Deps) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// the cookie aliases a pooled buffer; Load may keep it as Replaces
		sid := utils.CopyString(c.Cookies(SessionCookie))
		sess, err := d.Sessions.Load(c.UserContext(), sid)
		if err != nil {
			applog.Error(c, "session.load.fail", err, nil)
			sess = d.Sessions.New()
		}
		c.Locals(localSession, sess)
		c.Locals(localBadges, d.Badges)
		d.retire(c, sess)
		if p := sess.User; p != nil {
			c.Locals("user_id", p.Profile.ID.String())
		}

		if err := c.Next(); err != nil {
			return err
		}
		return d.saveSession(c, sess)
	}
}

// retire tells listeners about session state Load threw away: a cookie
// naming an unknown or expired session, or a login token past its exp.
func (d *Deps) retire(c *fiber.Ctx, sess *session.Session) {
	if old := sess.Replaces(); old != "" {
		d.Bus.Publish(c.UserContext(), events.Notification{Topic: events.SessionEnded, SessionID: old})
		d.clearCookie(c)
	}
	for _, scope := range sess.Dropped() {
		d.Auth.End(c.UserContext(), sess, scope)
		applog.Security(c, "session.expired", map[string]any{"scope": string(scope)})
	}
}

func (d *Deps) saveSession(c *fiber.Ctx, sess *session.Session) error {
	if sess == nil || !sess.Dirty() {
		return nil
	}
	if err := d.Sessions.Save(c.UserContext(), sess); err != nil {
		applog.Error(c, "session.save.fail", err, nil)
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   d.Config.CookieSecure,
		Expires:  sess.ExpiresAt,
	})
	return nil
}

func (d *Deps) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   d.Config.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		if sess == nil || !sess.LoggedIn(session.ScopeUser) {
			return c.Redirect(session.ScopeUser.LoginPath())
		}
		return c.Next()
	}
}

// RequireAdmin guards the admin console with its own login.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionFrom(c)
		if sess == nil || !sess.LoggedIn(session.ScopeAdmin) {
			applog.Security(c, "access.denied.admin", nil)
			return c.Redirect(session.ScopeAdmin.LoginPath())
		}
		c.Locals("user_id", sess.Admin.Profile.ID.String())
		return c.Next()
	}
}

// authRedirect turns a missing-login error from a service into the
// matching redirect. It reports false for any other error.
func authRedirect(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		return true, c.Redirect(session.ScopeUser.LoginPath())
	case errors.Is(err, services.ErrAdminRequired):
		return true, c.Redirect(session.ScopeAdmin.LoginPath())
	}
	return false, nil
}
