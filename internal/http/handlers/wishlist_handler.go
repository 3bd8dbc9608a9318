package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type WishlistHandler struct {
	Wish    *services.WishlistService
	Catalog *services.CatalogService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "wishlist.view.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "wishlist", fiber.Map{
			"Err": userMessage(err, "We could not load your wishlist."),
		})
	}
	products := make([]domain.Product, 0, len(items))
	saved := map[domain.ID]bool{}
	for _, it := range items {
		// entries whose product was deleted have nothing to show
		if it.Product == nil {
			continue
		}
		products = append(products, *it.Product)
		saved[it.Product.ID] = true
	}
	return render(c, "wishlist", fiber.Map{
		"Cards": h.Catalog.Cards(products, catalog.VariantGrid, saved),
	})
}

// Toggle adds or removes product_id and goes back to the page it came from.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing product_id")
	}
	back := backTo(c, "/wishlist")
	added, err := h.Wish.Toggle(c.UserContext(), sessionFrom(c), pid)
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, back, userMessage(err, "Could not update your wishlist."))
	}
	if added {
		applog.Audit(c, "wishlist.add", map[string]any{"product": pid})
		return flashBack(c, back, "Saved to your wishlist")
	}
	applog.Audit(c, "wishlist.remove", map[string]any{"product": pid})
	return flashBack(c, back, "Removed from your wishlist")
}
