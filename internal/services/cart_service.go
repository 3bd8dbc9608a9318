package services

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
	"storefront/internal/validate"
)

type CartService struct {
	API *api.Client
	Bus *events.Bus
}

func NewCartService(c *api.Client, bus *events.Bus) *CartService {
	return &CartService{API: c, Bus: bus}
}

// AddRequest is an add-to-cart from a product card. Stocks is the stock the
// card was rendered with.
type AddRequest struct {
	ProductID string
	Quantity  int
	Stocks    int
}

// Add checks login and stock before anything goes to the backend.
func (s *CartService) Add(ctx context.Context, sess *session.Session, req AddRequest) error {
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	if req.Stocks <= 0 {
		return catalog.ErrOutOfStock
	}
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > req.Stocks {
		qty = req.Stocks
	}
	if err := s.API.AddToCart(ctx, tok, req.ProductID, api.AddToCart{Quantity: qty}); err != nil {
		return err
	}
	publish(ctx, s.Bus, events.CartChanged, sess)
	return nil
}

// AddSelection adds from the product page once size and color are chosen.
func (s *CartService) AddSelection(ctx context.Context, sess *session.Session, sel *catalog.Selection) error {
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	if err := sel.Validate(); err != nil {
		return err
	}
	in := api.AddToCart{Quantity: sel.Quantity(), SelectedSize: sel.Size(), SelectedColor: sel.Color()}
	if err := s.API.AddToCart(ctx, tok, sel.Product().ID.String(), in); err != nil {
		return err
	}
	publish(ctx, s.Bus, events.CartChanged, sess)
	return nil
}

func (s *CartService) View(ctx context.Context, sess *session.Session) (domain.Cart, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.API.Cart(ctx, tok)
}

// Update sets a line's quantity; zero or less removes the line.
func (s *CartService) Update(ctx context.Context, sess *session.Session, itemID string, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, sess, itemID)
	}
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	if qty > validate.MaxQty {
		qty = validate.MaxQty
	}
	if err := s.API.UpdateCartItem(ctx, tok, itemID, qty); err != nil {
		return err
	}
	publish(ctx, s.Bus, events.CartChanged, sess)
	return nil
}

func (s *CartService) Remove(ctx context.Context, sess *session.Session, itemID string) error {
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	if err := s.API.RemoveCartItem(ctx, tok, itemID); err != nil {
		return err
	}
	publish(ctx, s.Bus, events.CartChanged, sess)
	return nil
}
