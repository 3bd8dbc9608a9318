package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/services"
)

func form(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResourcePayload(t *testing.T) {
	r, ok := services.LookupResource(api.ResourceCoupons)
	require.True(t, ok)

	body, err := r.Payload(form(map[string]string{
		"code": "fest20", "discount_type": "percentage", "discount_value": "20", "usage_limit": "100",
	}))
	require.NoError(t, err)
	assert.Equal(t, "FEST20", body["code"])
	assert.Equal(t, 20.0, body["discount_value"])
	assert.Equal(t, 100, body["usage_limit"])
	assert.NotContains(t, body, "max_discount")

	var fe *services.FormError
	_, err = r.Payload(form(map[string]string{"discount_type": "percentage", "discount_value": "150", "usage_limit": "-1"}))
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "code")
	assert.Contains(t, fe.Fields, "discount_value")
	assert.Contains(t, fe.Fields, "usage_limit")

	_, ok = services.LookupResource("widgets")
	assert.False(t, ok)
}

func TestAdminRequiresAdminScope(t *testing.T) {
	e := newEnv(t)
	svc := services.NewAdminService(e.client)
	_, err := svc.Dashboard(context.Background(), shopper())
	assert.ErrorIs(t, err, services.ErrAdminRequired)
	assert.Empty(t, e.backend.Calls())
}

func TestAdminCreateListDelete(t *testing.T) {
	e := newEnv(t)
	svc := services.NewAdminService(e.client)
	sess := admin()
	ctx := context.Background()
	r, _ := services.LookupResource(api.ResourceBrands)

	require.NoError(t, svc.Create(ctx, sess, r, form(map[string]string{"name": "Kite"})))
	rows, err := svc.List(ctx, sess, r)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	last := rows[len(rows)-1]
	assert.Equal(t, "Kite", last.Cells[0])

	require.NoError(t, svc.Delete(ctx, sess, r.Name, last.ID))
	rows, err = svc.List(ctx, sess, r)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	for _, res := range services.Resources {
		_, err := svc.List(ctx, sess, res)
		assert.NoError(t, err, res.Name)
	}
}

func TestAdminOrdersAndUsers(t *testing.T) {
	e := newEnv(t)
	svc := services.NewAdminService(e.client)
	sess := admin()
	ctx := context.Background()

	var fe *services.FormError
	assert.ErrorAs(t, svc.SetOrderStatus(ctx, sess, "o1", "lost"), &fe)

	require.NoError(t, svc.SetBlocked(ctx, sess, "u1", true))
	users, err := svc.Users(ctx, sess)
	require.NoError(t, err)
	assert.True(t, users[0].Blocked)

	require.NoError(t, svc.DeleteUser(ctx, sess, "u2"))
	users, err = svc.Users(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	stats, err := svc.Dashboard(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Products)
	assert.Equal(t, 2, stats.Users)
}
