package handlers

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/events"
	applog "storefront/internal/log"
	"storefront/internal/search"
	"storefront/internal/services"
	"storefront/internal/session"
)

type Deps struct {
	Config   config.Config
	Sessions *session.Manager
	Bus      *events.Bus
	Badges   *services.Badges
	Auth     *services.AuthService

	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	OrderHandler    *OrderHandler
	AccountHandler  *AccountHandler
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler

	detach func()
}

func NewDeps(cfg config.Config, client *api.Client, sessions *session.Manager) *Deps {
	bus := events.NewBus(func(n events.Notification, err error) {
		applog.Logger().WithField("topic", string(n.Topic)).WithError(err).Warn("events.subscriber.fail")
	})
	// nothing cached per session outlives an idle session
	badges := services.NewBadges(client, sessions.TTL())
	guard := search.NewGuard(sessions.TTL())

	catalogSvc := services.NewCatalogService(client, cfg.ImageBaseURL)
	cartSvc := services.NewCartService(client, bus)
	wishSvc := services.NewWishlistService(client, bus)
	authSvc := services.NewAuthService(client, bus)
	authSvc.Sessions = sessions
	orderSvc := services.NewOrderService(client, bus)
	acctSvc := services.NewAccountService(client)
	reviewSvc := services.NewReviewService(client)
	adminSvc := services.NewAdminService(client)

	detachBadges := badges.Attach(bus)
	detachGuard := bus.Subscribe(events.SessionEnded, func(_ context.Context, n events.Notification) error {
		guard.Forget(n.SessionID)
		return nil
	})

	return &Deps{
		Config:   cfg,
		Sessions: sessions,
		Bus:      bus,
		Badges:   badges,
		Auth:     authSvc,

		CategoryHandler: &CategoryHandler{Catalog: catalogSvc, Wish: wishSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc, Wish: wishSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc, Wish: wishSvc, Guard: guard},
		CartHandler:     &CartHandler{Cart: cartSvc, Catalog: catalogSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc, Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		AccountHandler:  &AccountHandler{Account: acctSvc},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		AdminHandler:    &AdminHandler{Admin: adminSvc},

		detach: func() {
			detachBadges()
			detachGuard()
		},
	}
}

// Close detaches bus subscribers and closes the session manager.
func (d *Deps) Close() error {
	if d.detach != nil {
		d.detach()
	}
	return d.Sessions.Close()
}
