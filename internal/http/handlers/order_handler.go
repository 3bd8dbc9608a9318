package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

var paymentLabels = map[string]string{
	"cod":  "Cash on Delivery",
	"upi":  "UPI",
	"card": "Credit / Debit Card",
}

type paymentOption struct {
	Key   string
	Label string
}

func paymentOptions(keys []string) []paymentOption {
	out := make([]paymentOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, paymentOption{Key: k, Label: paymentLabels[k]})
	}
	return out
}

// couponRow is an available coupon with its eligibility at the current subtotal.
type couponRow struct {
	domain.Coupon
	Offer     string
	Eligible  bool
	Shortfall float64
}

func (h *OrderHandler) checkoutPage(c *fiber.Ctx, status int, errs map[string]string) error {
	co, err := h.Order.Prepare(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "checkout.load.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "checkout", fiber.Map{
			"Err": userMessage(err, "We could not load checkout."),
		})
	}
	if len(co.Cart.Items) == 0 {
		return flashBack(c, "/cart", "Your cart is empty.")
	}
	sub := co.Cart.Subtotal()
	coupons := make([]couponRow, 0, len(co.Coupons))
	for _, cp := range co.Coupons {
		if !cp.Active {
			continue
		}
		coupons = append(coupons, couponRow{Coupon: cp, Offer: cp.Label(), Eligible: cp.Eligible(sub), Shortfall: cp.Shortfall(sub)})
	}
	return render(c.Status(status), "checkout", fiber.Map{
		"Cart":       co.Cart,
		"Addresses":  co.Addresses,
		"Coupons":    coupons,
		"Applied":    co.Applied,
		"CouponNote": co.CouponNote,
		"Totals":     co.Totals,
		"Payments":   paymentOptions(co.Payments),
		"Errors":     errs,
	})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	return h.checkoutPage(c, fiber.StatusOK, nil)
}

func (h *OrderHandler) ApplyCoupon(c *fiber.Ctx) error {
	q, err := h.Order.ApplyCoupon(c.UserContext(), sessionFrom(c), c.FormValue("code"))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Info(c, "coupon.apply.rejected", map[string]any{"reason": err.Error()})
		return flashBack(c, "/checkout", userMessage(err, "This coupon could not be applied."))
	}
	applog.Audit(c, "coupon.apply", map[string]any{"code": q.Code, "discount": q.Discount})
	msg := q.Message
	if msg == "" {
		msg = "Coupon " + q.Code + " applied. You save " + domain.Money(q.Discount) + "."
	}
	return flashBack(c, "/checkout", msg)
}

func (h *OrderHandler) RemoveCoupon(c *fiber.Ctx) error {
	if sess := sessionFrom(c); sess != nil {
		h.Order.RemoveCoupon(sess)
	}
	return flashBack(c, "/checkout", "Coupon removed")
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	order, err := h.Order.Place(c.UserContext(), sessionFrom(c), c.FormValue("address_id"), c.FormValue("payment"))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		if fe := fieldErrors(err); fe != nil {
			return h.checkoutPage(c, fiber.StatusUnprocessableEntity, fe)
		}
		applog.Error(c, "order.place.fail", err, nil)
		return flashBack(c, "/checkout", userMessage(err, "Your order could not be placed."))
	}
	applog.Audit(c, "order.place", map[string]any{"order": order.ID.String(), "total": order.Total})
	return flashBack(c, "/order/"+order.ID.String(), "Order placed. Thank you!")
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Order.List(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "orders.list.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "orders", fiber.Map{
			"Err": userMessage(err, "We could not load your orders."),
		})
	}
	return render(c, "orders", fiber.Map{"Orders": orders})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	order, err := h.Order.Get(c.UserContext(), sessionFrom(c), id)
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return err
	}
	return render(c, "order", fiber.Map{
		"Order":   order,
		"Payment": paymentLabels[order.PaymentMethod],
	})
}
