package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/services"
)

func TestAddRequiresLoginAndMakesNoRequest(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)

	err := cart.Add(context.Background(), guest(), services.AddRequest{ProductID: "1", Quantity: 1, Stocks: 10})
	assert.ErrorIs(t, err, services.ErrLoginRequired)
	assert.Empty(t, e.backend.Calls())
}

func TestAddOutOfStockMakesNoRequest(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)

	err := cart.Add(context.Background(), shopper(), services.AddRequest{ProductID: "2", Quantity: 1, Stocks: 0})
	assert.ErrorIs(t, err, catalog.ErrOutOfStock)
	assert.Zero(t, e.backend.CallCount("POST /api/cart"))
}

func TestAddPublishesAndBadgesRefetch(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)
	sess := shopper()

	var seen []events.Notification
	off := e.bus.Subscribe(events.CartChanged, func(_ context.Context, n events.Notification) error {
		seen = append(seen, n)
		return nil
	})
	defer off()

	// quantity beyond the card's stock is clamped
	require.NoError(t, cart.Add(context.Background(), sess, services.AddRequest{ProductID: "3", Quantity: 9, Stocks: 3}))
	require.Len(t, seen, 1)
	assert.Equal(t, sess.ID, seen[0].SessionID)
	assert.Equal(t, 3, e.badges.Get(sess.ID).Cart)
	assert.Empty(t, e.errs)

	c, err := cart.View(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddSelectionValidatesFirst(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)
	p, err := e.client.Product(context.Background(), "4")
	require.NoError(t, err)

	sel := catalog.NewSelection(p)
	err = cart.AddSelection(context.Background(), shopper(), sel)
	assert.ErrorIs(t, err, catalog.ErrSizeRequired)
	assert.Zero(t, e.backend.CallCount("POST /api/cart"))

	require.NoError(t, sel.SelectSize("XL"))
	require.NoError(t, sel.SelectColor("Black"))
	sel.SetQuantity(2)
	require.NoError(t, cart.AddSelection(context.Background(), shopper(), sel))

	c, err := cart.View(context.Background(), shopper())
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "XL", c.Items[0].SelectedSize)
	assert.Equal(t, 1700.0, c.Items[0].Price)
}

func TestUpdateToZeroRemoves(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)
	sess := shopper()
	require.NoError(t, cart.Add(context.Background(), sess, services.AddRequest{ProductID: "1", Quantity: 1, Stocks: 10}))
	c, err := cart.View(context.Background(), sess)
	require.NoError(t, err)
	id := c.Items[0].ID.String()

	require.NoError(t, cart.Update(context.Background(), sess, id, 4))
	assert.Equal(t, 4, e.badges.Get(sess.ID).Cart)

	require.NoError(t, cart.Update(context.Background(), sess, id, 0))
	assert.Equal(t, 0, e.backend.CartLen(sess.Token("user")))
	assert.Equal(t, 0, e.badges.Get(sess.ID).Cart)
}

func TestExpiredTokenSurfacesUnauthorized(t *testing.T) {
	e := newEnv(t)
	cart := services.NewCartService(e.client, e.bus)
	sess := shopper()
	e.backend.Revoke(sess.Token("user"))

	_, err := cart.View(context.Background(), sess)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
