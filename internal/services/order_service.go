package services

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
	"storefront/internal/validate"
)

// Payment methods offered at checkout; the backend handles settlement.
var PaymentMethods = []string{"cod", "upi", "card"}

var ErrCouponRequired = errors.New("enter a coupon code")

type OrderService struct {
	API *api.Client
	Bus *events.Bus
}

func NewOrderService(c *api.Client, bus *events.Bus) *OrderService {
	return &OrderService{API: c, Bus: bus}
}

// Checkout is everything the checkout page shows.
type Checkout struct {
	Cart      domain.Cart
	Addresses []domain.Address
	Coupons   []domain.Coupon
	Applied   *domain.CouponQuote
	// CouponNote explains why a remembered coupon no longer applies.
	CouponNote string
	Totals     domain.Totals
	Payments   []string
}

// Prepare loads cart, addresses and coupons together, then re-prices the
// session's coupon against the current subtotal.
func (s *OrderService) Prepare(ctx context.Context, sess *session.Session) (*Checkout, error) {
	tok, err := userToken(sess)
	if err != nil {
		return nil, err
	}
	out := &Checkout{Payments: PaymentMethods}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cart, err := s.API.Cart(gctx, tok)
		out.Cart = cart
		return err
	})
	g.Go(func() error {
		addrs, err := s.API.Addresses(gctx, tok)
		out.Addresses = addrs
		return err
	})
	g.Go(func() error {
		// an empty coupon list is fine
		out.Coupons, _ = s.API.Coupons(gctx, tok)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	subtotal := out.Cart.Subtotal()
	discount := 0.0
	if sess.Coupon != "" && len(out.Cart.Items) > 0 {
		q, err := s.API.ApplyCoupon(ctx, tok, sess.Coupon, subtotal)
		switch {
		case err == nil:
			out.Applied = &q
			discount = q.Discount
		case errors.Is(err, api.ErrUnauthorized):
			return nil, err
		default:
			out.CouponNote = api.UserMessage(err, "Coupon could not be applied")
			sess.SetCoupon("")
		}
	}
	out.Totals = domain.NewTotals(subtotal, discount)
	return out, nil
}

// ApplyCoupon asks the backend to price code against the cart and keeps it
// in the session on success.
func (s *OrderService) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (domain.CouponQuote, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.CouponQuote{}, err
	}
	code, ok := validate.Coupon(code)
	if !ok {
		return domain.CouponQuote{}, ErrCouponRequired
	}
	cart, err := s.API.Cart(ctx, tok)
	if err != nil {
		return domain.CouponQuote{}, err
	}
	if len(cart.Items) == 0 {
		return domain.CouponQuote{}, ErrEmptyCart
	}
	q, err := s.API.ApplyCoupon(ctx, tok, code, cart.Subtotal())
	if err != nil {
		return domain.CouponQuote{}, err
	}
	sess.SetCoupon(q.Code)
	return q, nil
}

func (s *OrderService) RemoveCoupon(sess *session.Session) { sess.SetCoupon("") }

// Place submits the order. A successful order empties the cart on the
// backend, so listeners are told to re-read it.
func (s *OrderService) Place(ctx context.Context, sess *session.Session, addressID, payment string) (domain.Order, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.Order{}, err
	}
	fe := validate.Errors{}
	addressID, ok := validate.ID(addressID)
	if !ok {
		fe.Add("address", "Choose a delivery address")
	}
	if !slices.Contains(PaymentMethods, payment) {
		fe.Add("payment", "Choose a payment method")
	}
	if err := formErr(fe); err != nil {
		return domain.Order{}, err
	}
	order, err := s.API.PlaceOrder(ctx, tok, domain.PlaceOrder{
		AddressID:     domain.ID(addressID),
		CouponCode:    sess.Coupon,
		PaymentMethod: payment,
	})
	if err != nil {
		return domain.Order{}, err
	}
	sess.SetCoupon("")
	publish(ctx, s.Bus, events.CartChanged, sess)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, sess *session.Session) ([]domain.Order, error) {
	tok, err := userToken(sess)
	if err != nil {
		return nil, err
	}
	return s.API.Orders(ctx, tok)
}

func (s *OrderService) Get(ctx context.Context, sess *session.Session, id string) (domain.Order, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.Order{}, err
	}
	return s.API.Order(ctx, tok, id)
}
