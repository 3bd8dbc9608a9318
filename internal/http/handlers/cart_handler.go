package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/session"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart    *services.CartService
	Catalog *services.CatalogService
}

// backTo returns the form's local "back" path, or def.
func backTo(c *fiber.Ctx, def string) string {
	b := c.FormValue("back")
	if strings.HasPrefix(b, "/") && !strings.HasPrefix(b, "//") && !strings.Contains(b, "\\") {
		return b
	}
	return def
}

// Add handles both add-to-cart forms: product cards post product_id, qty and
// the stocks they were rendered with; the product page also posts size and
// color and sets from=product.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	pid, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		applog.Security(c, "cart.add.invalid_product", nil)
		return fiber.NewError(fiber.StatusBadRequest, "missing product_id")
	}
	qty := validate.Qty(c.FormValue("qty"))
	back := backTo(c, "/cart")

	var err error
	if c.FormValue("from") == "product" {
		back = "/product/" + pid
		err = h.addSelection(c, sess, pid, qty, &back)
	} else {
		stocks, _ := strconv.Atoi(c.FormValue("stocks"))
		err = h.Cart.Add(c.UserContext(), sess, services.AddRequest{ProductID: pid, Quantity: qty, Stocks: stocks})
	}
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Info(c, "cart.add.rejected", map[string]any{"product": pid, "reason": err.Error()})
		return flashBack(c, back, userMessage(err, "Could not add this item to your cart."))
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "qty": qty})
	return flashBack(c, backTo(c, "/cart"), "Added to cart")
}

func (h *CartHandler) addSelection(c *fiber.Ctx, sess *session.Session, pid string, qty int, back *string) error {
	if sess == nil || !sess.LoggedIn(session.ScopeUser) {
		return services.ErrLoginRequired
	}
	d, err := h.Catalog.Product(c.UserContext(), pid)
	if err != nil {
		return err
	}
	sel := d.Selection
	size, color := c.FormValue("size"), c.FormValue("color")
	if size != "" {
		if err := sel.SelectSize(size); err != nil {
			return err
		}
	}
	if color != "" {
		if err := sel.SelectColor(color); err != nil {
			return err
		}
	}
	sel.SetQuantity(qty)

	// keep the choice when bouncing back to the product page
	v := url.Values{}
	if size != "" {
		v.Set("size", size)
	}
	if color != "" {
		v.Set("color", color)
	}
	v.Set("qty", strconv.Itoa(sel.Quantity()))
	*back += "?" + v.Encode()

	return h.Cart.AddSelection(c.UserContext(), sess, sel)
}

// cartLine is a cart item with its image resolved.
type cartLine struct {
	domain.CartItem
	Image string
	Title string
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.Cart.View(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "cart.view.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "cart", fiber.Map{
			"Err": userMessage(err, "We could not load your cart."),
		})
	}
	lines := make([]cartLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		img := it.Image
		if it.Product != nil && img == "" {
			img = it.Product.Image
		}
		lines = append(lines, cartLine{
			CartItem: it,
			Image:    catalog.ImageURL(h.Catalog.ImageBase, img),
			Title:    it.DisplayTitle(),
		})
	}
	return render(c, "cart", fiber.Map{
		"Lines":  lines,
		"Count":  cart.Count(),
		"Totals": domain.NewTotals(cart.Subtotal(), 0),
	})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if err != nil {
		return flashBack(c, "/cart", "Enter a valid quantity.")
	}
	if err := h.Cart.Update(c.UserContext(), sessionFrom(c), id, qty); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, "/cart", userMessage(err, "Could not update your cart."))
	}
	applog.Audit(c, "cart.update", map[string]any{"item": id, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	if err := h.Cart.Remove(c.UserContext(), sessionFrom(c), id); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, "/cart", userMessage(err, "Could not remove this item."))
	}
	applog.Audit(c, "cart.remove", map[string]any{"item": id})
	return flashBack(c, "/cart", "Item removed")
}
