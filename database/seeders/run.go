// Package seeders holds the named seed steps run by `bloodbank seed`.
//
// A step registers itself from init():
//
//	func init() {
//	    seeders.Register("blood_groups", seedBloodGroups)
//	}
//
// Every step must be safe to run again on a seeded database.
package seeders

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

// SeederFunc is the signature for a seed step.
type SeederFunc func(ctx context.Context, svc *services.Services) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and
// returns the names that ran. It stops on the first error.
func RunAll(ctx context.Context, db *gorm.DB) ([]string, error) {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	svc := services.New(repositories.NewStore(db))
	var ran []string
	for _, e := range current {
		if err := e.fn(ctx, svc); err != nil {
			logger.Error("seeder failed", "seeder", e.name, "error", err)
			return ran, errors.Wrapf(err, "seeder %q", e.name)
		}
		logger.Info("seeder done", "seeder", e.name)
		ran = append(ran, e.name)
	}
	return ran, nil
}
