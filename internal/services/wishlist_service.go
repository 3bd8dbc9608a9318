package services

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
)

type WishlistService struct {
	API *api.Client
	Bus *events.Bus
}

func NewWishlistService(c *api.Client, bus *events.Bus) *WishlistService {
	return &WishlistService{API: c, Bus: bus}
}

func (s *WishlistService) List(ctx context.Context, sess *session.Session) ([]domain.WishlistItem, error) {
	tok, err := userToken(sess)
	if err != nil {
		return nil, err
	}
	return s.API.Wishlist(ctx, tok)
}

// IDs returns the wishlisted product ids for marking cards. Logged-out
// visitors and fetch failures get an empty set.
func (s *WishlistService) IDs(ctx context.Context, sess *session.Session) map[domain.ID]bool {
	out := map[domain.ID]bool{}
	items, err := s.List(ctx, sess)
	if err != nil {
		return out
	}
	for _, it := range items {
		out[it.ProductID] = true
	}
	return out
}

// Toggle flips membership and reports whether the product is now saved.
func (s *WishlistService) Toggle(ctx context.Context, sess *session.Session, productID string) (bool, error) {
	tok, err := userToken(sess)
	if err != nil {
		return false, err
	}
	items, err := s.API.Wishlist(ctx, tok)
	if err != nil {
		return false, err
	}
	present := false
	for _, it := range items {
		if it.ProductID.String() == productID {
			present = true
			break
		}
	}
	if present {
		err = s.API.RemoveFromWishlist(ctx, tok, productID)
	} else {
		err = s.API.AddToWishlist(ctx, tok, productID)
	}
	if err != nil {
		return false, err
	}
	publish(ctx, s.Bus, events.WishlistChanged, sess)
	return !present, nil
}
