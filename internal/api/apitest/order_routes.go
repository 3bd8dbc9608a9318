package apitest

import (
	"encoding/json"
	"math"
	"net/http"
	"slices"
	"strings"

	"storefront/internal/domain"
)

// quote prices a coupon the way the real backend does.
func (b *Backend) quote(code string, amount float64) (domain.CouponQuote, string) {
	for _, c := range b.Coupons {
		if !strings.EqualFold(c.Code, code) {
			continue
		}
		if !c.Active {
			return domain.CouponQuote{}, "Coupon expired"
		}
		if amount < c.MinOrderAmount {
			return domain.CouponQuote{}, "Minimum order amount is " + domain.Money(c.MinOrderAmount)
		}
		d := c.Value
		if c.Type == domain.CouponPercentage {
			d = amount * c.Value / 100
			if c.MaxDiscount > 0 {
				d = math.Min(d, c.MaxDiscount)
			}
		}
		return domain.CouponQuote{Code: c.Code, Discount: round2(math.Min(d, amount)), Message: "Coupon applied"}, ""
	}
	return domain.CouponQuote{}, "Invalid coupon code"
}

func (b *Backend) orderRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/coupons", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, _ string) {
		out := []domain.Coupon{}
		for _, c := range b.Coupons {
			if c.Active {
				out = append(out, c)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("POST /api/coupons/apply", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, _ string) {
		var in struct {
			Code        string  `json:"code"`
			OrderAmount float64 `json:"order_amount"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		q, msg := b.quote(in.Code, in.OrderAmount)
		if msg != "" {
			fail(w, http.StatusBadRequest, msg)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}))

	mux.HandleFunc("GET /api/address", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		writeJSON(w, http.StatusOK, orEmpty(b.Addresses[tok]))
	}))
	mux.HandleFunc("POST /api/address", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		var in domain.NewAddress
		_ = json.NewDecoder(r.Body).Decode(&in)
		a := domain.Address{ID: b.id("a"), Name: in.Name, Phone: in.Phone, Line1: in.Line1, Line2: in.Line2,
			City: in.City, State: in.State, Pincode: in.Pincode, Default: len(b.Addresses[tok]) == 0}
		b.Addresses[tok] = append(b.Addresses[tok], a)
		writeJSON(w, http.StatusCreated, a)
	}))
	mux.HandleFunc("DELETE /api/address/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, _ domain.User, tok string) {
		b.Addresses[tok] = slices.DeleteFunc(b.Addresses[tok], func(a domain.Address) bool { return a.ID.String() == r.PathValue("id") })
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("POST /api/orders", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, tok string) {
		var in domain.PlaceOrder
		_ = json.NewDecoder(r.Body).Decode(&in)
		items := b.carts[tok]
		if len(items) == 0 {
			fail(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		var addr *domain.Address
		for _, a := range b.Addresses[tok] {
			if a.ID == in.AddressID {
				addr = &a
			}
		}
		if addr == nil {
			fail(w, http.StatusBadRequest, "Address not found")
			return
		}
		cart := domain.Cart{Items: items}
		discount := 0.0
		if in.CouponCode != "" {
			q, msg := b.quote(in.CouponCode, cart.Subtotal())
			if msg != "" {
				fail(w, http.StatusBadRequest, msg)
				return
			}
			discount = q.Discount
		}
		t := domain.NewTotals(cart.Subtotal(), discount)
		o := domain.Order{ID: b.id("o"), Status: "pending", Subtotal: t.Subtotal, Discount: t.Discount, Total: t.Total,
			CouponCode: in.CouponCode, PaymentMethod: in.PaymentMethod, Address: addr, UserID: u.ID}
		for _, it := range items {
			o.Items = append(o.Items, domain.OrderItem{ProductID: it.ProductID, Title: it.Title, Quantity: it.Quantity, Price: it.Price,
				SelectedSize: it.SelectedSize, SelectedColor: it.SelectedColor})
		}
		b.Orders = append(b.Orders, o)
		delete(b.carts, tok)
		writeJSON(w, http.StatusCreated, o)
	}))
	mux.HandleFunc("GET /api/orders", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		out := []domain.Order{}
		for _, o := range b.Orders {
			if o.UserID == u.ID {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("GET /api/orders/{id}", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		for _, o := range b.Orders {
			if o.UserID == u.ID && o.ID.String() == r.PathValue("id") {
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
		fail(w, http.StatusNotFound, "Order not found")
	}))
}
