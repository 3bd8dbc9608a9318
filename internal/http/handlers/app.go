package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"storefront/internal/domain"
	"storefront/internal/http/views"
	applog "storefront/internal/log"
)

func newEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.Reload(reload)
	engine.AddFuncMap(template.FuncMap{
		"money":     domain.Money,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"list":      func(v ...string) []string { return v },
		"stars":     stars,
		"dict":      dict,
	})
	return engine
}

// stars renders a 0-5 rating as filled and empty stars.
func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// dict lets a template pass several values to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// NewApp builds the storefront with its middleware chain and route table.
func NewApp(d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        newEngine(d.Config.TemplateReload),
		ErrorHandler: d.ErrorHandler,
		// Global body size guard
		BodyLimit: 1 << 20,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: applog.Logger().Writer()}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        d.Config.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/") || c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests. Please slow down.")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   d.Config.CookieSecure,
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).SendString("Security check failed. Please refresh and try again.")
		},
	}))

	// ---------- Static assets ----------
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(views.FS),
		PathPrefix: "static",
		MaxAge:     3600,
	}))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	app.Use(d.SessionMiddleware())
	d.routes(app)

	app.Use(func(c *fiber.Ctx) error {
		return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

func (d *Deps) routes(app *fiber.App) {
	// Public pages
	app.Get("/", d.CategoryHandler.Home)
	app.Get("/products", d.CategoryHandler.Products)
	app.Get("/category/:id", d.CategoryHandler.Category)
	app.Get("/brand/:id", d.CategoryHandler.Brand)
	app.Get("/search", d.SearchHandler.Search)
	app.Get("/product/:id", d.ProductHandler.Detail)
	app.Post("/product/:id/reviews", d.ProductHandler.AddReview)

	// Live search
	api := app.Group("/api/v1")
	api.Get("/suggest", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|suggest"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.suggest.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.SearchHandler.Suggest)

	// Cart, wishlist & orders
	app.Get("/cart", RequireUser(), d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/:id/update", d.CartHandler.Update)
	app.Post("/cart/:id/delete", d.CartHandler.Remove)
	app.Get("/wishlist", RequireUser(), d.WishlistHandler.List)
	app.Post("/wishlist", d.WishlistHandler.Toggle)
	app.Get("/checkout", RequireUser(), d.OrderHandler.Checkout)
	app.Post("/checkout/coupon", d.OrderHandler.ApplyCoupon)
	app.Post("/checkout/coupon/remove", d.OrderHandler.RemoveCoupon)
	app.Get("/orders", RequireUser(), d.OrderHandler.History)
	app.Post("/orders", d.OrderHandler.Place)
	app.Get("/order/:id", RequireUser(), d.OrderHandler.View)

	// Account
	acct := app.Group("/account", RequireUser())
	acct.Get("/", d.AccountHandler.Profile)
	acct.Post("/", d.AccountHandler.UpdateProfile)
	acct.Get("/addresses", d.AccountHandler.Addresses)
	acct.Post("/addresses", d.AccountHandler.AddAddress)
	acct.Post("/addresses/:id/delete", d.AccountHandler.DeleteAddress)

	// Auth routes (login throttled)
	loginLimit := func(tmpl string) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        10,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|" + tmpl
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", map[string]any{"form": tmpl})
				return render(c.Status(fiber.StatusTooManyRequests), tmpl, fiber.Map{"Err": "Too many attempts. Please try again later."})
			},
		})
	}
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", loginLimit("login"), d.AuthHandler.Login)
	app.Get("/register", d.AuthHandler.RegisterForm)
	app.Post("/register", loginLimit("register"), d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)
	app.Get("/forgot-password", d.AuthHandler.ForgotForm)
	app.Post("/forgot-password", loginLimit("forgot"), d.AuthHandler.Forgot)
	app.Get("/verify-otp", d.AuthHandler.VerifyForm)
	app.Post("/verify-otp", loginLimit("verify"), d.AuthHandler.Verify)
	app.Get("/reset-password", d.AuthHandler.ResetForm)
	app.Post("/reset-password", d.AuthHandler.Reset)

	// Admin
	app.Get("/admin/login", d.AuthHandler.AdminLoginForm)
	app.Post("/admin/login", loginLimit("admin/login"), d.AuthHandler.AdminLogin)
	app.Post("/admin/logout", d.AuthHandler.AdminLogout)

	admin := app.Group("/admin", RequireAdmin())
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Get("/orders", d.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)
	admin.Get("/users", d.AdminHandler.UsersPage)
	admin.Post("/users/:id/block", d.AdminHandler.ToggleBlock)
	admin.Post("/users/:id/delete", d.AdminHandler.DeleteUser)
	admin.Get("/:resource", d.AdminHandler.ResourcePage)
	admin.Post("/:resource", d.AdminHandler.CreateResource)
	admin.Post("/:resource/:id/delete", d.AdminHandler.DeleteResource)
}
