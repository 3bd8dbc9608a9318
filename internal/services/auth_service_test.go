package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api/apitest"
	"storefront/internal/services"
	"storefront/internal/session"
)

func TestLoginStoresPrincipalAndWarmsBadges(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)
	e.backend.SeedCart(apitest.TokenFor("asha@shop.test"), cartLine("ci-1", "1", 2, 2499))
	sess := guest()

	u, err := auth.Login(context.Background(), sess, " Asha@Shop.test ", apitest.Password)
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.True(t, sess.LoggedIn(session.ScopeUser))
	assert.False(t, sess.LoggedIn(session.ScopeAdmin))
	assert.Equal(t, 2, e.badges.Get(sess.ID).Cart)
}

func TestLoginRotatesSessionID(t *testing.T) {
	e := newEnv(t)
	store, err := session.OpenSQLite(":memory:")
	require.NoError(t, err)
	mgr := session.NewManager(store, time.Hour)
	t.Cleanup(func() { _ = mgr.Close() })
	auth := services.NewAuthService(e.client, e.bus)
	auth.Sessions = mgr
	ctx := context.Background()

	sess := mgr.New()
	planted := sess.ID
	require.NoError(t, e.badges.Refresh(ctx, planted, ""))
	require.NoError(t, mgr.Save(ctx, sess))

	_, err = auth.Login(ctx, sess, "asha@shop.test", apitest.Password)
	require.NoError(t, err)
	assert.NotEqual(t, planted, sess.ID)
	assert.False(t, e.badges.Known(planted))
	assert.True(t, e.badges.Known(sess.ID))
	_, err = store.Get(ctx, planted)
	assert.ErrorIs(t, err, session.ErrNotFound)

	before := sess.ID
	_, err = auth.AdminLogin(ctx, sess, apitest.AdminEmail, apitest.Password)
	require.NoError(t, err)
	assert.NotEqual(t, before, sess.ID)
	assert.True(t, sess.LoggedIn(session.ScopeUser))
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)
	ctx := context.Background()

	_, err := auth.Login(ctx, guest(), "asha@shop.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	_, err = auth.Login(ctx, guest(), "blocked@shop.test", apitest.Password)
	assert.ErrorIs(t, err, services.ErrBlocked)

	var fe *services.FormError
	_, err = auth.Login(ctx, guest(), "not-an-email", "")
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "email")
	assert.Contains(t, fe.Fields, "password")
}

func TestAdminLoginIsSeparateScope(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)
	sess := guest()

	_, err := auth.AdminLogin(context.Background(), sess, "asha@shop.test", apitest.Password)
	require.ErrorIs(t, err, services.ErrNotAdmin)
	assert.False(t, sess.LoggedIn(session.ScopeAdmin))

	_, err = auth.AdminLogin(context.Background(), sess, apitest.AdminEmail, apitest.Password)
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn(session.ScopeAdmin))
	assert.False(t, sess.LoggedIn(session.ScopeUser))

	assert.True(t, auth.End(context.Background(), sess, session.ScopeAdmin))
	assert.False(t, sess.LoggedIn(session.ScopeAdmin))
}

func TestRegisterValidatesBeforeCalling(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)

	var fe *services.FormError
	_, err := auth.Register(context.Background(), guest(), services.Registration{Name: "Neel", Email: "neel@shop.test", Password: "weak", Confirm: "weak2"})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "password")
	assert.Contains(t, fe.Fields, "confirm")
	assert.Empty(t, e.backend.Calls())

	sess := guest()
	u, err := auth.Register(context.Background(), sess, services.Registration{
		Name: "Neel", Email: "neel@shop.test", Phone: "9876543210", Password: apitest.Password, Confirm: apitest.Password,
	})
	require.NoError(t, err)
	assert.Equal(t, "neel@shop.test", u.Email)
	assert.True(t, sess.LoggedIn(session.ScopeUser))
}

func TestEndPublishesSessionEnded(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)
	sess := shopper()
	sess.SetCoupon("SAVE10")
	require.NoError(t, e.badges.Refresh(context.Background(), sess.ID, sess.Token(session.ScopeUser)))

	assert.True(t, auth.End(context.Background(), sess, session.ScopeUser))
	assert.False(t, sess.LoggedIn(session.ScopeUser))
	assert.Empty(t, sess.Coupon)
	assert.False(t, e.badges.Known(sess.ID))
	assert.False(t, auth.End(context.Background(), sess, session.ScopeUser))
}

func TestPasswordResetSteps(t *testing.T) {
	e := newEnv(t)
	auth := services.NewAuthService(e.client, e.bus)
	ctx := context.Background()
	sess := guest()

	assert.Equal(t, session.ResetRequest, services.ResetStep(sess))
	assert.ErrorIs(t, auth.VerifyOTP(ctx, sess, apitest.OTP), services.ErrResetStep)
	assert.ErrorIs(t, auth.ResetPassword(ctx, sess, apitest.Password, apitest.Password), services.ErrResetStep)

	require.NoError(t, auth.StartReset(ctx, sess, "asha@shop.test"))
	assert.Equal(t, session.ResetVerify, services.ResetStep(sess))

	require.Error(t, auth.VerifyOTP(ctx, sess, "000000"))
	assert.Equal(t, session.ResetVerify, services.ResetStep(sess))

	require.NoError(t, auth.VerifyOTP(ctx, sess, apitest.OTP))
	assert.Equal(t, session.ResetNew, services.ResetStep(sess))
	assert.Equal(t, apitest.ResetToken, sess.Reset.ResetToken)

	require.NoError(t, auth.ResetPassword(ctx, sess, apitest.Password, apitest.Password))
	assert.Equal(t, session.ResetRequest, services.ResetStep(sess))
	assert.Nil(t, sess.Reset)
}
