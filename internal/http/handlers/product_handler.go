package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
	Wish    *services.WishlistService
}

// Detail renders the product page. size, color and qty in the query string
// preselect the variant, so a failed add-to-cart can come back to the same
// choice.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	d, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return err
	}

	sel := d.Selection
	var selErr error
	if v := c.Query("size"); v != "" {
		selErr = sel.SelectSize(v)
	}
	if v := c.Query("color"); v != "" && selErr == nil {
		selErr = sel.SelectColor(v)
	}
	if v := c.Query("qty"); v != "" {
		sel.SetQuantity(validate.Qty(v))
	}

	data := fiber.Map{
		"P":          d.Product,
		"Image":      d.Image,
		"Card":       catalog.NewCard(d.Product, h.Catalog.ImageBase, catalog.VariantGrid),
		"Sizes":      sel.SizeOptions(),
		"Colors":     d.Product.Colors,
		"Color":      sel.Color(),
		"Quantity":   sel.Quantity(),
		"Available":  sel.Available(),
		"UnitPrice":  sel.UnitPrice(),
		"Reviews":    d.Reviews,
		"Wishlisted": h.Wish.IDs(c.UserContext(), sessionFrom(c))[d.Product.ID],
	}
	if selErr != nil {
		data["SelErr"] = userMessage(selErr, "")
	}
	return render(c, "product", data)
}

func (h *ProductHandler) AddReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	back := "/product/" + id
	err := h.Reviews.Submit(c.UserContext(), sessionFrom(c), id, c.FormValue("rating"), c.FormValue("comment"))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		if fe := fieldErrors(err); fe != nil {
			msg := fe["rating"]
			if msg == "" {
				msg = fe["comment"]
			}
			return flashBack(c, back, msg)
		}
		return flashBack(c, back, userMessage(err, "Your review could not be saved."))
	}
	applog.Audit(c, "review.create", map[string]any{"product": id})
	return flashBack(c, back, "Thanks for your review!")
}
