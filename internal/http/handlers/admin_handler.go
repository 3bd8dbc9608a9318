package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Admin *services.AdminService
}

// adminFail renders the friendly admin error or passes auth errors through.
func adminFail(c *fiber.Ctx, action string, err error) error {
	if ok, rerr := routeErr(c, err); ok {
		return rerr
	}
	applog.Error(c, action, err, nil)
	return flashBack(c, "/admin", userMessage(err, ""))
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Admin.Dashboard(c.UserContext(), sessionFrom(c))
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "admin/dashboard", fiber.Map{
			"Err":       userMessage(err, ""),
			"Resources": services.Resources,
		})
	}
	return render(c, "admin/dashboard", fiber.Map{"Stats": stats, "Resources": services.Resources})
}

func (h *AdminHandler) resourcePage(c *fiber.Ctx, r services.Resource, status int, errs map[string]string) error {
	rows, err := h.Admin.List(c.UserContext(), sessionFrom(c), r)
	if err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "admin.resource.list.fail", err, map[string]any{"resource": r.Name})
		return render(c.Status(fiber.StatusBadGateway), "admin/resource", fiber.Map{
			"Resource": r,
			"Err":      userMessage(err, ""),
		})
	}
	form := fiber.Map{}
	for _, f := range r.Fields {
		form[f.Name] = c.FormValue(f.Name)
	}
	return render(c.Status(status), "admin/resource", fiber.Map{
		"Resource": r,
		"Rows":     rows,
		"Errors":   errs,
		"Form":     form,
	})
}

func (h *AdminHandler) lookup(c *fiber.Ctx) (services.Resource, error) {
	r, ok := services.LookupResource(c.Params("resource"))
	if !ok {
		return r, fiber.ErrNotFound
	}
	return r, nil
}

func (h *AdminHandler) ResourcePage(c *fiber.Ctx) error {
	r, err := h.lookup(c)
	if err != nil {
		return err
	}
	return h.resourcePage(c, r, fiber.StatusOK, nil)
}

func (h *AdminHandler) CreateResource(c *fiber.Ctx) error {
	r, err := h.lookup(c)
	if err != nil {
		return err
	}
	back := "/admin/" + r.Name
	if err := h.Admin.Create(c.UserContext(), sessionFrom(c), r, func(k string) string { return c.FormValue(k) }); err != nil {
		if fe := fieldErrors(err); fe != nil {
			return h.resourcePage(c, r, fiber.StatusUnprocessableEntity, fe)
		}
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "admin.resource.create.fail", err, map[string]any{"resource": r.Name})
		return flashBack(c, back, userMessage(err, ""))
	}
	applog.Audit(c, "admin.resource.create", map[string]any{"resource": r.Name})
	return flashBack(c, back, r.Title+": entry created")
}

func (h *AdminHandler) DeleteResource(c *fiber.Ctx) error {
	r, err := h.lookup(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	back := "/admin/" + r.Name
	if err := h.Admin.Delete(c.UserContext(), sessionFrom(c), r.Name, id); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Error(c, "admin.resource.delete.fail", err, map[string]any{"resource": r.Name, "id": id})
		return flashBack(c, back, userMessage(err, ""))
	}
	applog.Audit(c, "admin.resource.delete", map[string]any{"resource": r.Name, "id": id})
	return flashBack(c, back, r.Title+": entry deleted")
}

func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	orders, err := h.Admin.Orders(c.UserContext(), sessionFrom(c))
	if err != nil {
		return adminFail(c, "admin.orders.list.fail", err)
	}
	return render(c, "admin/orders", fiber.Map{"Orders": orders, "Statuses": domain.OrderStatuses})
}

func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	status := c.FormValue("status")
	if err := h.Admin.SetOrderStatus(c.UserContext(), sessionFrom(c), id, status); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		applog.Security(c, "admin.order.status.rejected", map[string]any{"order": id, "status": status})
		return flashBack(c, "/admin/orders", userMessage(err, ""))
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order": id, "status": status})
	return flashBack(c, "/admin/orders", "Order "+id+" is now "+status)
}

func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Admin.Users(c.UserContext(), sessionFrom(c))
	if err != nil {
		return adminFail(c, "admin.users.list.fail", err)
	}
	return render(c, "admin/users", fiber.Map{"Users": users})
}

func (h *AdminHandler) ToggleBlock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	blocked := c.FormValue("blocked") == "true"
	if err := h.Admin.SetBlocked(c.UserContext(), sessionFrom(c), id, blocked); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, "/admin/users", userMessage(err, ""))
	}
	applog.Audit(c, "admin.user.block", map[string]any{"target": id, "blocked": blocked})
	msg := "User unblocked"
	if blocked {
		msg = "User blocked"
	}
	return flashBack(c, "/admin/users", msg)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Admin.DeleteUser(c.UserContext(), sessionFrom(c), id); err != nil {
		if ok, rerr := routeErr(c, err); ok {
			return rerr
		}
		return flashBack(c, "/admin/users", userMessage(err, ""))
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"target": id})
	return flashBack(c, "/admin/users", "User deleted")
}
