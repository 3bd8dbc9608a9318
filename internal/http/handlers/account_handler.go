package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AccountHandler struct {
	Account *services.AccountService
}

func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	u, err := h.Account.Profile(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return err
	}
	return render(c, "account", fiber.Map{"Profile": u, "Form": fiber.Map{"name": u.Name, "phone": u.Phone}})
}

func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	name, phone := c.FormValue("name"), c.FormValue("phone")
	_, err := h.Account.UpdateProfile(c.UserContext(), sessionFrom(c), name, phone)
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		if fe := fieldErrors(err); fe != nil {
			return render(c.Status(fiber.StatusUnprocessableEntity), "account", fiber.Map{
				"Errors": fe,
				"Form":   fiber.Map{"name": name, "phone": phone},
			})
		}
		return flashBack(c, "/account", userMessage(err, "Your profile could not be saved."))
	}
	applog.Audit(c, "account.update", nil)
	return flashBack(c, "/account", "Profile updated")
}

func (h *AccountHandler) addressesPage(c *fiber.Ctx, status int, errs map[string]string, form domain.NewAddress) error {
	addrs, err := h.Account.Addresses(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "address.list.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "addresses", fiber.Map{
			"Err": userMessage(err, "We could not load your addresses."),
		})
	}
	return render(c.Status(status), "addresses", fiber.Map{
		"Addresses": addrs,
		"Errors":    errs,
		"Form":      form,
	})
}

func (h *AccountHandler) Addresses(c *fiber.Ctx) error {
	return h.addressesPage(c, fiber.StatusOK, nil, domain.NewAddress{})
}

func (h *AccountHandler) AddAddress(c *fiber.Ctx) error {
	in := domain.NewAddress{
		Name:    c.FormValue("name"),
		Phone:   c.FormValue("phone"),
		Line1:   c.FormValue("line1"),
		Line2:   c.FormValue("line2"),
		City:    c.FormValue("city"),
		State:   c.FormValue("state"),
		Pincode: c.FormValue("pincode"),
	}
	addr, err := h.Account.AddAddress(c.UserContext(), sessionFrom(c), in)
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		if fe := fieldErrors(err); fe != nil {
			return h.addressesPage(c, fiber.StatusUnprocessableEntity, fe, in)
		}
		return flashBack(c, "/account/addresses", userMessage(err, "The address could not be saved."))
	}
	applog.Audit(c, "address.create", map[string]any{"address": addr.ID.String()})
	return flashBack(c, backTo(c, "/account/addresses"), "Address saved")
}

func (h *AccountHandler) DeleteAddress(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	if err := h.Account.DeleteAddress(c.UserContext(), sessionFrom(c), id); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, "/account/addresses", userMessage(err, "The address could not be removed."))
	}
	applog.Audit(c, "address.delete", map[string]any{"address": id})
	return flashBack(c, "/account/addresses", "Address removed")
}
