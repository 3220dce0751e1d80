package repositories

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// Store groups the repositories over one gorm handle. A Store created by
// Transaction shares that transaction across every repository.
type Store struct {
	db *gorm.DB

	Users       *UserRepository
	BloodGroups *BloodGroupRepository
	Donations   *DonationRepository
	Requests    *RequestRepository
	Inventory   *InventoryRepository
	Sequences   *SequenceRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       &UserRepository{db: db},
		BloodGroups: &BloodGroupRepository{db: db},
		Donations:   &DonationRepository{db: db},
		Requests:    &RequestRepository{db: db},
		Inventory:   &InventoryRepository{db: db},
		Sequences:   &SequenceRepository{db: db},
	}
}

// Transaction runs fn inside a database transaction. fn's error, or a
// panic, rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks that the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "store: sql.DB")
	}
	return sqlDB.PingContext(ctx)
}

// translate maps driver errors onto the repository sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return errors.Wrapf(ErrDuplicate, "%s: %v", op, err)
	}
	return errors.Wrap(err, op)
}

// isDuplicate recognises unique violations from drivers that do not
// implement gorm's error translation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
