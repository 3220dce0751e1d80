package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/internal/testdb"
	"github.com/shashiranjanraj/bloodbank/pkg/cache"
	"github.com/shashiranjanraj/bloodbank/pkg/event"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

func TestMain(m *testing.M) {
	config.Set("BCRYPT_COST", "4")
	config.Set("JWT_SECRET", "services-secret")
	logger.L = logger.New("test", "")
	cache.Use(nil)
	event.Flush()
	os.Exit(m.Run())
}

// env wires every service over one private database with a fixed clock.
type env struct {
	store     *repositories.Store
	auth      *AuthService
	users     *UserService
	ledger    *InventoryLedger
	donations *DonationRecorder
	requests  *RequestBroker
	dashboard *DashboardService
	now       time.Time
	seq       int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := repositories.NewStore(testdb.New(t))
	e := &env{store: store, now: time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)}
	clock := func() time.Time { return e.now }

	e.auth = NewAuthService(store)
	e.auth.now = clock
	e.users = NewUserService(store)
	e.users.now = clock
	e.ledger = NewInventoryLedger(store)
	e.ledger.now = clock
	e.donations = NewDonationRecorder(store, e.ledger)
	e.donations.now = clock
	e.requests = NewRequestBroker(store, e.ledger)
	e.requests.now = clock
	e.dashboard = NewDashboardService(store)
	return e
}

func (e *env) register(t *testing.T, role models.Role, bloodType string) Actor {
	t.Helper()
	e.seq++
	u, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: "Test",
		Email:     fmt.Sprintf("user%d@example.com", e.seq),
		MobileNo:  fmt.Sprintf("90000%05d", e.seq),
		Password:  "secret1",
		Pincode:   "560001",
		BloodType: bloodType,
		Role:      string(models.RoleRequester),
	})
	require.NoError(t, err)
	if role != models.RoleRequester {
		require.NoError(t, e.store.Users.UpdateRole(context.Background(), u.ID, role))
	}
	return Actor{UserID: u.ID, Role: role}
}

// stock credits units of bloodType directly through the ledger.
func (e *env) stock(t *testing.T, bloodType string, units int) string {
	t.Helper()
	ctx := context.Background()
	var groupID string
	err := e.store.Transaction(ctx, func(tx *repositories.Store) error {
		g, err := resolveBloodGroup(ctx, tx, bloodType)
		if err != nil {
			return err
		}
		groupID = g.ID
		_, err = e.ledger.Credit(ctx, tx, g.ID, units)
		return err
	})
	require.NoError(t, err)
	return groupID
}

func (e *env) available(t *testing.T, groupID string) int {
	t.Helper()
	n, err := e.store.Inventory.Available(context.Background(), groupID)
	require.NoError(t, err)
	return n
}

// competeOnInsert makes the first insert into table lose to a row written by
// stmt just before it, as a concurrent writer would. It reports whether the
// competing row was written.
func competeOnInsert(t *testing.T, db *gorm.DB, table, stmt string, args ...interface{}) *bool {
	t.Helper()
	fired := new(bool)
	err := db.Callback().Create().Before("gorm:create").Register("test:compete:"+table, func(tx *gorm.DB) {
		if *fired || tx.Statement.Table != table {
			return
		}
		*fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Exec(stmt, args...).Error; err != nil {
			t.Errorf("competing insert: %v", err)
		}
	})
	require.NoError(t, err)
	return fired
}
