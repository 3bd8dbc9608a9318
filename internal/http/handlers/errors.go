package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/api"
	applog "storefront/internal/log"
)

// ErrorHandler is the single boundary for failures that leave a handler.
// An expired token clears the matching login and redirects to it once;
// everything else becomes a friendly page without internals.
func (d *Deps) ErrorHandler(c *fiber.Ctx, err error) error {
	sess := sessionFrom(c)
	defer func() { _ = d.saveSession(c, sess) }()

	if errors.Is(err, api.ErrUnauthorized) && sess != nil {
		scope := scopeFor(c.Path())
		d.Auth.End(c.UserContext(), sess, scope)
		sess.SetFlash("Your session has expired. Please log in again.")
		applog.Security(c, "session.expired", map[string]any{"scope": string(scope)})
		if isAPI(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "login": scope.LoginPath()})
		}
		return c.Redirect(scope.LoginPath())
	}

	code := fiber.StatusInternalServerError
	msg := api.GenericMessage
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		if code == fiber.StatusNotFound {
			msg = "Page not found"
		} else if code < 500 {
			msg = "That request could not be processed."
		}
	case errors.Is(err, api.ErrNotFound):
		code = fiber.StatusNotFound
		msg = "This item is no longer available"
	case errors.Is(err, api.ErrTransport):
		code = fiber.StatusBadGateway
	}
	if code >= 500 {
		applog.Error(c, "server.error", err, nil)
	}

	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := render(c.Status(code), "notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}
