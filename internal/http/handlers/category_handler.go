package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/catalog"
	"storefront/internal/listing"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
	Wish    *services.WishlistService
}

// sortOption is one entry of the sort dropdown.
type sortOption struct {
	Key      catalog.SortKey
	Label    string
	Selected bool
}

var sortLabels = map[catalog.SortKey]string{
	catalog.SortDefault:   "Relevance",
	catalog.SortPriceLow:  "Price: Low to High",
	catalog.SortPriceHigh: "Price: High to Low",
	catalog.SortRating:    "Top Rated",
	catalog.SortName:      "Name",
}

func sortOptions(cur catalog.SortKey) []sortOption {
	out := make([]sortOption, 0, len(catalog.SortKeys))
	for _, k := range catalog.SortKeys {
		out = append(out, sortOption{Key: k, Label: sortLabels[k], Selected: k == cur})
	}
	return out
}

// showListing loads page, applies the query string filters and renders the
// shared listing template.
func showListing(c *fiber.Ctx, page *listing.Page, cat *services.CatalogService, wish *services.WishlistService) error {
	crit := catalog.ParseCriteria(func(k string) string { return c.Query(k) })
	page.SetCriteria(crit)

	data := fiber.Map{
		"Title": page.Title,
		"Sorts": sortOptions(crit.Sort),
		"Form": fiber.Map{
			"q":      c.Query("q"),
			"min":    c.Query("min"),
			"max":    c.Query("max"),
			"rating": c.Query("rating"),
		},
		"Filtered": crit.Active(),
		"Q":        c.Query("q"),
	}
	if page.Load(c.UserContext()) == listing.Failed {
		if ok, err := routeErr(c, page.Err()); ok {
			return err
		}
		applog.Error(c, "listing.load.fail", page.Err(), map[string]any{"title": page.Title})
		data["Err"] = userMessage(page.Err(), "We could not load products right now.")
		return render(c.Status(fiber.StatusBadGateway), "products", data)
	}

	wished := wish.IDs(c.UserContext(), sessionFrom(c))
	lo, hi := page.PriceBounds()
	data["Cards"] = cat.Cards(page.View(), catalog.VariantGrid, wished)
	data["Total"] = len(page.All())
	data["Empty"] = page.Empty()
	data["PriceMin"] = lo
	data["PriceMax"] = hi
	return render(c, "products", data)
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	home, err := h.Catalog.Home(c.UserContext())
	if err != nil {
		applog.Error(c, "home.load.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "home", fiber.Map{
			"Err": userMessage(err, "We could not load the store right now."),
		})
	}
	wished := h.Wish.IDs(c.UserContext(), sessionFrom(c))
	return render(c, "home", fiber.Map{
		"Slides":     home.Slides,
		"Banners":    home.Banners,
		"Categories": home.Categories,
		"Brands":     home.Brands,
		"Featured":   h.Catalog.Cards(home.Products.View(), catalog.VariantGrid, wished),
		"Deals":      h.Catalog.Cards(home.Deals, catalog.VariantGrid, wished),
		"TopRated":   h.Catalog.Cards(home.TopRated, catalog.VariantGrid, wished),
	})
}

func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	return showListing(c, h.Catalog.AllProducts(), h.Catalog, h.Wish)
}

func (h *CategoryHandler) Category(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	return showListing(c, h.Catalog.CategoryPage(c.UserContext(), id), h.Catalog, h.Wish)
}

func (h *CategoryHandler) Brand(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	return showListing(c, h.Catalog.BrandPage(c.UserContext(), id), h.Catalog, h.Wish)
}
