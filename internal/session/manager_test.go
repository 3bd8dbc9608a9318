package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUnknownOrEmptyGivesFreshSession(t *testing.T) {
	m := NewManager(newSQLite(t), time.Hour)
	defer m.Close()

	a, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	b, err := m.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Dirty())
	assert.Empty(t, a.Replaces())
	assert.Equal(t, "nope", b.Replaces())
}

func TestNewSessionIsNotPersistedUntilWritten(t *testing.T) {
	store := newSQLite(t)
	m := NewManager(store, time.Hour)
	defer m.Close()
	ctx := context.Background()

	s := m.New()
	assert.False(t, s.Dirty())
	s.SetFlash("hi")
	assert.True(t, s.Dirty())
	require.NoError(t, m.Save(ctx, s))
	_, err := store.Get(ctx, s.ID)
	assert.NoError(t, err)
}

func TestRotateMovesSessionToNewID(t *testing.T) {
	store := newSQLite(t)
	m := NewManager(store, time.Hour)
	defer m.Close()
	ctx := context.Background()

	s := m.New()
	s.SetCoupon("SAVE10")
	require.NoError(t, m.Save(ctx, s))
	old := s.ID

	require.NoError(t, m.Rotate(ctx, s))
	assert.NotEqual(t, old, s.ID)
	assert.True(t, s.Dirty())
	_, err := store.Get(ctx, old)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, s))
	got, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", got.Coupon)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	m := NewManager(newSQLite(t), time.Hour)
	defer m.Close()
	ctx := context.Background()

	s := m.New()
	s.SetPrincipal(ScopeUser, &Principal{Token: "opaque"})
	require.NoError(t, m.Save(ctx, s))
	assert.False(t, s.Dirty())

	got, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "opaque", got.Token(ScopeUser))
	assert.False(t, got.Dirty())

	require.NoError(t, m.Destroy(ctx, s.ID))
	fresh, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, fresh.ID)
}

func TestLoadDropsExpiredPrincipal(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(newSQLite(t), 24*time.Hour, WithClock(func() time.Time { return now }))
	defer m.Close()
	ctx := context.Background()

	s := m.New()
	s.SetPrincipal(ScopeUser, &Principal{Token: signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})})
	s.SetPrincipal(ScopeAdmin, &Principal{Token: signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})})
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.LoggedIn(ScopeUser))
	assert.True(t, got.LoggedIn(ScopeAdmin))
	assert.True(t, got.Dirty())
	assert.Equal(t, []Scope{ScopeUser}, got.Dropped())
}

func TestLoadExpiredSessionIsReplaced(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := NewManager(newSQLite(t), time.Hour, WithClock(clock))
	defer m.Close()
	ctx := context.Background()

	s := m.New()
	require.NoError(t, m.Save(ctx, s))

	now = now.Add(2 * time.Hour)
	got, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, got.ID)
	assert.Equal(t, s.ID, got.Replaces())
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewManager(newSQLite(t), time.Hour, WithSweep(10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
