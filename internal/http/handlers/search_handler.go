package handlers

import (
	"context"
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/api"
	"storefront/internal/catalog"
	applog "storefront/internal/log"
	"storefront/internal/search"
	"storefront/internal/services"
	"storefront/internal/validate"
)

const (
	suggestLimit   = 8
	suggestMinRune = 2
)

type SearchHandler struct {
	Catalog *services.CatalogService
	Wish    *services.WishlistService
	Guard   *search.Guard
}

// Search is the full results page; filters work on top of the results.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		if q == "" {
			return c.Redirect("/products")
		}
		applog.Security(c, "search.invalid_query", map[string]any{"q": q})
		return render(c.Status(fiber.StatusBadRequest), "products", fiber.Map{
			"Title": "Search",
			"Sorts": sortOptions(catalog.SortDefault),
			"Err":   "Search with letters, numbers and spaces only.",
		})
	}
	return showListing(c, h.Catalog.SearchPage(q), h.Catalog, h.Wish)
}

type suggestion struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Badge string  `json:"badge,omitempty"`
	URL   string  `json:"url"`
}

// guardKey scopes sequence numbers to a browser. The key outlives the
// request, so it is the loaded session's ID and never the cookie string,
// whose bytes fasthttp reuses.
func guardKey(c *fiber.Ctx) string {
	if sess := sessionFrom(c); sess != nil && sess.ID == c.Cookies(SessionCookie) {
		return sess.ID
	}
	return "ip:" + c.IP()
}

// Suggest answers the live search box. Each request carries the client's
// sequence number; a request older than one already seen, or superseded
// while its backend call was in flight, gets 409 and no results.
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	seq, _ := strconv.ParseUint(c.Query("seq"), 10, 64)
	ctx, ticket, err := h.Guard.Begin(c.UserContext(), guardKey(c), seq)
	if errors.Is(err, search.ErrStale) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "stale", "seq": seq})
	}
	defer ticket.Done()

	q, ok := validate.Q(c.Query("q"))
	if !ok || utf8.RuneCountInString(q) < suggestMinRune {
		return c.JSON(fiber.Map{"seq": seq, "items": []suggestion{}})
	}

	cards, err := h.Catalog.Suggest(ctx, q, suggestLimit)
	if !ticket.Current() || errors.Is(err, context.Canceled) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "stale", "seq": seq})
	}
	if err != nil {
		applog.Error(c, "search.suggest.fail", err, map[string]any{"q": q})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": api.GenericMessage})
	}

	items := make([]suggestion, 0, len(cards))
	for _, card := range cards {
		items = append(items, suggestion{
			ID:    card.ID.String(),
			Title: card.Title,
			Price: card.Price,
			Image: card.Image,
			Badge: card.Badge(),
			URL:   "/product/" + card.ID.String(),
		})
	}
	return c.JSON(fiber.Map{"seq": seq, "items": items})
}
