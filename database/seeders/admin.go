package seeders

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

func init() {
	Register("admin", seedAdmin)
}

// seedAdmin creates the bootstrap administrator from ADMIN_EMAIL,
// ADMIN_PASSWORD and ADMIN_MOBILE. It is skipped when ADMIN_EMAIL is unset
// and promotes an existing account with that email instead of failing.
func seedAdmin(ctx context.Context, svc *services.Services) error {
	email := config.AdminEmail()
	if email == "" {
		logger.Info("admin seeder skipped", "reason", "ADMIN_EMAIL not set")
		return nil
	}

	_, err := svc.Auth.Register(ctx, services.RegisterInput{
		FirstName: "Admin",
		Email:     email,
		MobileNo:  config.AdminMobile(),
		Password:  config.AdminPassword(),
		Pincode:   config.Get("ADMIN_PINCODE", "110001"),
	})
	if err != nil && !errors.Is(err, services.ErrDuplicateEmail) {
		return err
	}

	_, err = svc.Users.AssignRole(ctx, email, string(models.RoleAdmin))
	return err
}
