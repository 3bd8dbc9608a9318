package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/services"
)

const layout = "layouts/main"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if sess := sessionFrom(c); sess != nil {
		if p := sess.User; p != nil {
			data["User"] = &p.Profile
		}
		if p := sess.Admin; p != nil {
			data["Admin"] = &p.Profile
		}
		if msg := sess.TakeFlash(); msg != "" {
			if _, set := data["Flash"]; !set {
				data["Flash"] = msg
			}
		}
		if b, ok := c.Locals(localBadges).(*services.Badges); ok && sess.User != nil {
			// first page after a restart: counts have not been fetched yet
			if !b.Known(sess.ID) {
				_ = b.Refresh(c.UserContext(), sess.ID, sess.User.Token)
			}
			counts := b.Get(sess.ID)
			data["CartCount"] = counts.Cart
			data["WishlistCount"] = counts.Wishlist
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	data["Path"] = c.Path()
	return c.Render(tmpl, data, layout)
}

// flashBack stores msg for the next page and redirects to it.
func flashBack(c *fiber.Ctx, to, msg string) error {
	if sess := sessionFrom(c); sess != nil && msg != "" {
		sess.SetFlash(msg)
	}
	return c.Redirect(to)
}

// routeErr reports whether err has to leave the handler as is: a missing
// login becomes a redirect, an expired token goes to the error handler.
func routeErr(c *fiber.Ctx, err error) (bool, error) {
	if ok, rerr := authRedirect(c, err); ok {
		return true, rerr
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return true, err
	}
	return false, nil
}

// shown are errors whose text is written for shoppers.
var shown = []error{
	catalog.ErrOutOfStock,
	catalog.ErrUnknownSize,
	catalog.ErrSizeSoldOut,
	catalog.ErrUnknownColor,
	catalog.ErrSizeRequired,
	catalog.ErrColorRequired,
	services.ErrBadCreds,
	services.ErrNotAdmin,
	services.ErrBlocked,
	services.ErrResetStep,
	services.ErrEmptyCart,
	services.ErrCouponRequired,
}

func userMessage(err error, fallback string) string {
	var fe *services.FormError
	if errors.As(err, &fe) {
		return "Please check the highlighted fields."
	}
	for _, s := range shown {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return api.UserMessage(err, fallback)
}

// fieldErrors extracts per-field messages for re-rendering a form.
func fieldErrors(err error) map[string]string {
	var fe *services.FormError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}
