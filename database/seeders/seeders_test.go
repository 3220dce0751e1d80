package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/database/seeders"
	"github.com/shashiranjanraj/bloodbank/internal/testdb"
)

func TestSeedIsRepeatable(t *testing.T) {
	config.Set("BCRYPT_COST", "4")
	config.Set("ADMIN_EMAIL", "Root@Example.com")
	config.Set("ADMIN_PASSWORD", "admin-secret")
	config.Set("ADMIN_MOBILE", "9000000001")
	t.Cleanup(func() { config.Set("ADMIN_EMAIL", "") })

	db := testdb.New(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ran, err := seeders.RunAll(ctx, db)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"admin", "blood_groups"}, ran)
	}

	store := repositories.NewStore(db)
	groups, err := store.BloodGroups.All(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 8)
	assert.Equal(t, "BG0001", groups[0].ID)

	admin, err := store.Users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	users, err := store.Users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminSkippedWithoutEmail(t *testing.T) {
	config.Set("ADMIN_EMAIL", "")
	db := testdb.New(t)

	_, err := seeders.RunAll(context.Background(), db)
	require.NoError(t, err)

	users, err := repositories.NewStore(db).Users.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
