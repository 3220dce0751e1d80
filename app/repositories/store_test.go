package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/internal/testdb"
)

func seedGroup(t *testing.T, store *repositories.Store, id, bloodType string) {
	t.Helper()
	require.NoError(t, store.BloodGroups.Create(context.Background(), &models.BloodGroup{ID: id, BloodType: bloodType}))
}

func seedUser(t *testing.T, store *repositories.Store, id, email, mobile string, role models.Role) {
	t.Helper()
	require.NoError(t, store.Users.Create(context.Background(), &models.User{
		ID: id, FirstName: "T", Email: email, MobileNo: mobile,
		PasswordHash: "x", Pincode: "560001", Role: role,
	}))
}

func TestTransactionRollsBack(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		seedGroup(t, tx, "BG0001", "O+")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.BloodGroups.FindByType(ctx, "O+")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUniqueViolationsAreDuplicates(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	seedUser(t, store, "U0001", "a@example.com", "9000000001", models.RoleDonor)

	err := store.Users.Create(context.Background(), &models.User{
		ID: "U0002", FirstName: "B", Email: "a@example.com", MobileNo: "9000000002",
		PasswordHash: "x", Pincode: "560001", Role: models.RoleDonor,
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	taken, err := store.Users.MobileTaken(context.Background(), "9000000001")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestSequenceIncrement(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		created, err := tx.Sequences.Ensure(ctx, "users", "U")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = tx.Sequences.Ensure(ctx, "users", "U")
		require.NoError(t, err)
		assert.False(t, created)

		require.NoError(t, tx.Sequences.Seed(ctx, "users", "U", 41))
		n, err := tx.Sequences.Increment(ctx, "users", "U")
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)

		_, err = tx.Sequences.Increment(ctx, "users", "X")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestPluckIDsByPrefix(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	seedUser(t, store, "U0001", "a@example.com", "9000000001", models.RoleDonor)
	seedUser(t, store, "U0010", "b@example.com", "9000000002", models.RoleStaff)
	seedUser(t, store, "LEGACY1", "c@example.com", "9000000003", models.RoleDonor)

	ids, err := store.Sequences.PluckIDs(context.Background(), "users", "user_id", "U")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"U0001", "U0010"}, ids)
}

func TestInventoryInsertConflictAndBalance(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	ctx := context.Background()
	seedGroup(t, store, "BG0001", "O+")
	now := time.Now().UTC()

	ok, err := store.Inventory.Insert(ctx, &models.BloodInventory{ID: "IN0001", BloodGroupID: "BG0001", UnitsAvailable: 2, LastUpdated: now})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Inventory.Insert(ctx, &models.BloodInventory{ID: "IN0002", BloodGroupID: "BG0001", UnitsAvailable: 9, LastUpdated: now})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Inventory.DecrementIfAvailable(ctx, "BG0001", 3, now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Inventory.Increment(ctx, "BG0001", 1, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Inventory.DecrementIfAvailable(ctx, "BG0001", 3, now)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := store.Inventory.Available(ctx, "BG0001")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.Inventory.Available(ctx, "BG0404")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRequestTransitionsOnlyFromPending(t *testing.T) {
	store := repositories.NewStore(testdb.New(t))
	ctx := context.Background()
	seedGroup(t, store, "BG0001", "A+")
	seedUser(t, store, "U0001", "r@example.com", "9000000001", models.RoleRequester)

	require.NoError(t, store.Requests.Create(ctx, &models.BloodRequest{
		ID: "RQ0001", RequesterID: "U0001", BloodGroupID: "BG0001", UnitsRequired: 1,
		Urgency: models.UrgencyNormal, Status: models.RequestPending, RequestDate: time.Now().UTC(),
	}))

	ok, err := store.Requests.MarkFulfilled(ctx, "RQ0001", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Requests.MarkCancelled(ctx, "RQ0001")
	require.NoError(t, err)
	assert.False(t, ok)

	req, err := store.Requests.FindByID(ctx, "RQ0001")
	require.NoError(t, err)
	assert.Equal(t, models.RequestFulfilled, req.Status)
	require.NotNil(t, req.FulfilledDate)
	assert.Equal(t, "A+", req.BloodGroup.BloodType)

	counts, err := store.Requests.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.RequestFulfilled])
	assert.Zero(t, counts[models.RequestPending])
}
