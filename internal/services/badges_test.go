package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/services"
)

func TestBadgesExpireUntouchedSessions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.badges.Refresh(ctx, "sid-a", ""))
	require.NoError(t, e.badges.Refresh(ctx, "sid-b", ""))
	assert.Equal(t, 2, e.badges.Len())

	assert.Equal(t, 2, e.badges.Expire(time.Now().Add(time.Minute)))
	assert.False(t, e.badges.Known("sid-a"))
	assert.Zero(t, e.badges.Len())
}

func TestBadgesSweepIdleEntriesOnUpdate(t *testing.T) {
	b := services.NewBadges(nil, 20*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, b.Refresh(ctx, "sid-old", ""))
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, b.Refresh(ctx, "sid-new", ""))
	assert.False(t, b.Known("sid-old"))
	assert.True(t, b.Known("sid-new"))
	assert.Equal(t, 1, b.Len())
}
