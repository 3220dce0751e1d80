package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/pkg/cache"
)

func TestStatsWithoutCache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	donor := e.register(t, models.RoleDonor, "O+")
	requester := e.register(t, models.RoleRequester, "")
	e.register(t, models.RoleStaff, "")

	_, err := e.donations.RecordDonation(ctx, donor, DonationInput{UnitsDonated: 1})
	require.NoError(t, err)
	_, err = e.requests.CreateRequest(ctx, requester, RequestInput{BloodType: "O+", UnitsRequired: 1})
	require.NoError(t, err)

	s, err := e.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalUsers: 3, TotalDonors: 1, TotalRequests: 1, TotalDonations: 1, PendingRequests: 1}, *s)
}

func TestStatsCachedUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	e := newEnv(t)
	e.dashboard.ttl = func() time.Duration { return time.Minute }
	ctx := context.Background()
	e.register(t, models.RoleDonor, "")

	s, err := e.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.TotalUsers)
	assert.True(t, mr.Exists(StatsCacheKey))

	e.register(t, models.RoleRequester, "")
	s, err = e.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.TotalUsers, "served from cache")

	e.dashboard.Invalidate(ctx)
	assert.False(t, mr.Exists(StatsCacheKey))
	s, err = e.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.TotalUsers)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(StatsCacheKey))
}
