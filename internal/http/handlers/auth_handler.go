package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/api"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/session"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// loginFailed re-renders a login form. Credential problems are 401, a
// backend outage keeps its own message.
func loginFailed(c *fiber.Ctx, tmpl, email string, err error) error {
	status := fiber.StatusUnauthorized
	msg := "Invalid email or password"
	switch {
	case errors.Is(err, services.ErrBlocked), errors.Is(err, services.ErrNotAdmin):
		status = fiber.StatusForbidden
		msg = err.Error()
	case errors.Is(err, services.ErrBadCreds), fieldErrors(err) != nil:
	default:
		status = fiber.StatusBadGateway
		var ae *api.Error
		if errors.As(err, &ae) && ae.Status < 500 {
			status = ae.Status
		}
		msg = userMessage(err, "")
	}
	return render(c.Status(status), tmpl, fiber.Map{"Err": msg, "Email": email})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if sess := sessionFrom(c); sess != nil && sess.LoggedIn(session.ScopeUser) {
		return c.Redirect("/")
	}
	return render(c, "login", fiber.Map{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	u, err := h.Auth.Login(c.UserContext(), sessionFrom(c), email, c.FormValue("password"))
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": err.Error()})
		return loginFailed(c, "login", email, err)
	}
	c.Locals("user_id", u.ID.String())
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return flashBack(c, "/", "Welcome back, "+u.Name+"!")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if sess := sessionFrom(c); sess != nil && sess.LoggedIn(session.ScopeUser) {
		return c.Redirect("/")
	}
	return render(c, "register", fiber.Map{})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	r := services.Registration{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Password: c.FormValue("password"),
		Confirm:  c.FormValue("confirm"),
	}
	u, err := h.Auth.Register(c.UserContext(), sessionFrom(c), r)
	if err != nil {
		form := fiber.Map{"name": r.Name, "email": r.Email, "phone": r.Phone}
		if fe := fieldErrors(err); fe != nil {
			return render(c.Status(fiber.StatusUnprocessableEntity), "register", fiber.Map{"Errors": fe, "Form": form})
		}
		applog.Security(c, "auth.register.fail", map[string]any{"email": r.Email, "reason": err.Error()})
		status := fiber.StatusBadGateway
		if errors.Is(err, services.ErrBlocked) {
			status = fiber.StatusForbidden
		}
		return render(c.Status(status), "register", fiber.Map{
			"Err":  userMessage(err, "We could not create your account."),
			"Form": form,
		})
	}
	c.Locals("user_id", u.ID.String())
	applog.Audit(c, "auth.register.success", map[string]any{"email": u.Email})
	return flashBack(c, "/", "Welcome, "+u.Name+"! Your account is ready.")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	if sess != nil && h.Auth.End(c.UserContext(), sess, session.ScopeUser) {
		applog.Audit(c, "auth.logout", nil)
	}
	return flashBack(c, "/", "You have been logged out.")
}

// resetPath is where the session's password reset step lives.
func resetPath(sess *session.Session) string {
	switch services.ResetStep(sess) {
	case session.ResetVerify:
		return "/verify-otp"
	case session.ResetNew:
		return "/reset-password"
	}
	return "/forgot-password"
}

// resetForm renders tmpl when the session is on its step, otherwise it
// sends the visitor to the step they are on.
func resetForm(c *fiber.Ctx, path, tmpl string) error {
	sess := sessionFrom(c)
	if sess == nil {
		return c.Redirect("/forgot-password")
	}
	if p := resetPath(sess); p != path {
		return c.Redirect(p)
	}
	data := fiber.Map{}
	if sess.Reset != nil {
		data["Email"] = sess.Reset.Email
	}
	return render(c, tmpl, data)
}

func resetFailed(c *fiber.Ctx, tmpl string, err error) error {
	if errors.Is(err, services.ErrResetStep) {
		return flashBack(c, resetPath(sessionFrom(c)), err.Error())
	}
	status := fiber.StatusBadGateway
	data := fiber.Map{"Err": userMessage(err, "")}
	if fe := fieldErrors(err); fe != nil {
		status = fiber.StatusUnprocessableEntity
		data["Errors"] = fe
	} else if api.IsClientError(err) {
		status = fiber.StatusBadRequest
	}
	if sess := sessionFrom(c); sess != nil && sess.Reset != nil {
		data["Email"] = sess.Reset.Email
	}
	return render(c.Status(status), tmpl, data)
}

func (h *AuthHandler) ForgotForm(c *fiber.Ctx) error {
	return resetForm(c, "/forgot-password", "forgot")
}

func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if err := h.Auth.StartReset(c.UserContext(), sessionFrom(c), email); err != nil {
		applog.Security(c, "auth.reset.request.fail", map[string]any{"email": email, "reason": err.Error()})
		return resetFailed(c, "forgot", err)
	}
	applog.Audit(c, "auth.reset.request", map[string]any{"email": email})
	return flashBack(c, "/verify-otp", "We sent a verification code to your email.")
}

func (h *AuthHandler) VerifyForm(c *fiber.Ctx) error {
	return resetForm(c, "/verify-otp", "verify")
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	if c.FormValue("cancel") != "" && sess != nil {
		h.Auth.CancelReset(sess)
		return c.Redirect("/forgot-password")
	}
	if err := h.Auth.VerifyOTP(c.UserContext(), sess, c.FormValue("otp")); err != nil {
		applog.Security(c, "auth.reset.otp.fail", map[string]any{"reason": err.Error()})
		return resetFailed(c, "verify", err)
	}
	applog.Audit(c, "auth.reset.otp.ok", nil)
	return c.Redirect("/reset-password")
}

func (h *AuthHandler) ResetForm(c *fiber.Ctx) error {
	return resetForm(c, "/reset-password", "reset")
}

func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	if c.FormValue("cancel") != "" && sess != nil {
		h.Auth.CancelReset(sess)
		return c.Redirect("/forgot-password")
	}
	if err := h.Auth.ResetPassword(c.UserContext(), sess, c.FormValue("password"), c.FormValue("confirm")); err != nil {
		applog.Security(c, "auth.reset.fail", map[string]any{"reason": err.Error()})
		return resetFailed(c, "reset", err)
	}
	applog.Audit(c, "auth.reset.success", nil)
	return flashBack(c, "/login", "Password updated. Please log in.")
}

func (h *AuthHandler) AdminLoginForm(c *fiber.Ctx) error {
	if sess := sessionFrom(c); sess != nil && sess.LoggedIn(session.ScopeAdmin) {
		return c.Redirect("/admin")
	}
	return render(c, "admin/login", fiber.Map{})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	u, err := h.Auth.AdminLogin(c.UserContext(), sessionFrom(c), email, c.FormValue("password"))
	if err != nil {
		applog.Security(c, "admin.login.fail", map[string]any{"email": email, "reason": err.Error()})
		return loginFailed(c, "admin/login", email, err)
	}
	c.Locals("user_id", u.ID.String())
	applog.Audit(c, "admin.login.success", map[string]any{"email": u.Email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	if sess != nil && h.Auth.End(c.UserContext(), sess, session.ScopeAdmin) {
		applog.Audit(c, "admin.logout", nil)
	}
	return flashBack(c, "/admin/login", "You have been logged out.")
}
