package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/pkg/cache"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

// StatsCacheKey holds the cached admin counts.
const StatsCacheKey = "bloodbank:admin:stats"

// Stats are the admin dashboard counts.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalDonors     int64 `json:"total_donors"`
	TotalRequests   int64 `json:"total_requests"`
	TotalDonations  int64 `json:"total_donations"`
	PendingRequests int64 `json:"pending_requests"`
}

type DashboardService struct {
	store *repositories.Store
	ttl   func() time.Duration
}

func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{store: store, ttl: config.StatsCacheTTL}
}

// Stats returns the counts, served from Redis when a fresh copy is cached.
func (d *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	err := cache.Remember(ctx, StatsCacheKey, d.ttl(), &out, func() (interface{}, error) {
		return d.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Invalidate drops the cached counts; the next Stats call recomputes them.
func (d *DashboardService) Invalidate(ctx context.Context) {
	if err := cache.Del(ctx, StatsCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("stats cache invalidation failed", "error", err)
	}
}

func (d *DashboardService) compute(ctx context.Context) (Stats, error) {
	var s Stats

	roles, err := d.store.Users.CountByRole(ctx)
	if err != nil {
		return s, err
	}
	for _, n := range roles {
		s.TotalUsers += n
	}
	s.TotalDonors = roles[models.RoleDonor]

	statuses, err := d.store.Requests.CountByStatus(ctx)
	if err != nil {
		return s, err
	}
	for _, n := range statuses {
		s.TotalRequests += n
	}
	s.PendingRequests = statuses[models.RequestPending]

	if s.TotalDonations, err = d.store.Donations.Count(ctx); err != nil {
		return s, err
	}
	return s, nil
}
