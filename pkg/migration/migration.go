// Package migration runs and tracks versioned schema changes.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260301000000_create_blood_groups_table", &CreateBloodGroupsTable{})
//	}
//
// and are applied in name order by `bloodbank migrate`.
package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the GORM model stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry. name should be
// timestamp-prefixed so lexical order is chronological.
func Register(name string, m Migration) {
	for _, reg := range registry {
		if reg.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ErrNoMigrations is returned when Run is called but no migrations are registered.
var ErrNoMigrations = errors.New("no migrations registered")

// ------------------- Runner -------------------

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by the provided gorm.DB.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})

	return pending, nil
}

// Run executes all pending migrations as one batch and returns the names
// that were applied.
func (r *Runner) Run() ([]string, error) {
	if len(registry) == 0 {
		return nil, ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Debug("migration: nothing to migrate")
		return nil, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	batch++

	ran := make([]string, 0, len(pending))
	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return ran, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch}
		if err := r.db.Create(&record).Error; err != nil {
			return ran, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		ran = append(ran, reg.name)
	}

	logger.Info("migration: done", "ran", len(ran), "batch", batch)
	return ran, nil
}

// Rollback reverses all migrations from the most recent batch and returns
// the names that were rolled back.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	if batch == 0 {
		return nil, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).
		Order("id desc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	var rolled []string
	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return rolled, fmt.Errorf("migration: cannot rollback %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return rolled, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return rolled, err
		}
		rolled = append(rolled, rec.Name)
	}

	return rolled, nil
}

// Status lists every registered migration in name order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	out := make([]Status, 0, len(registry))
	for _, reg := range registry {
		rec, ok := ranMap[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch).Error
	return maxBatch.Max, err
}
