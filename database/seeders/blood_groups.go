package seeders

import (
	"context"

	"github.com/shashiranjanraj/bloodbank/app/services"
)

func init() {
	Register("blood_groups", func(ctx context.Context, svc *services.Services) error {
		return svc.BloodGroups.EnsureCanonical(ctx)
	})
}
