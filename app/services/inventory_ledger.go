package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
)

// InventoryLine is one blood group's balance as shown to staff and admins.
type InventoryLine struct {
	InventoryID    string    `json:"inventory_id"`
	BloodID        string    `json:"blood_id"`
	BloodType      string    `json:"blood_type"`
	UnitsAvailable int       `json:"units_available"`
	UnitsReserved  int       `json:"units_reserved"`
	TotalUnits     int       `json:"total_units"`
	LastUpdated    time.Time `json:"last_updated"`
}

// InventoryLedger keeps the per-group balances. Credit and Debit take the
// caller's transaction so they commit or roll back with the change that
// triggered them.
type InventoryLedger struct {
	store *repositories.Store
	now   func() time.Time
}

func NewInventoryLedger(store *repositories.Store) *InventoryLedger {
	return &InventoryLedger{store: store, now: time.Now}
}

// Credit adds units to bloodID's balance, creating the row on first use.
// It returns the balance after the credit.
func (l *InventoryLedger) Credit(ctx context.Context, tx *repositories.Store, bloodID string, units int) (int, error) {
	if units <= 0 {
		return 0, errors.Errorf("inventory: credit of %d units", units)
	}
	at := l.now().UTC()

	ok, err := tx.Inventory.Increment(ctx, bloodID, units, at)
	if err != nil {
		return 0, err
	}
	if !ok {
		id, err := NextID(ctx, tx, InventoryIDs)
		if err != nil {
			return 0, err
		}
		inserted, err := tx.Inventory.Insert(ctx, &models.BloodInventory{
			ID:             id,
			BloodGroupID:   bloodID,
			UnitsAvailable: units,
			LastUpdated:    at,
		})
		if err != nil {
			return 0, err
		}
		if !inserted {
			// Another writer created the row in between.
			if err := releaseID(ctx, tx, InventoryIDs, id); err != nil {
				return 0, err
			}
			if ok, err = tx.Inventory.Increment(ctx, bloodID, units, at); err != nil {
				return 0, err
			} else if !ok {
				return 0, errors.Errorf("inventory: row for %s vanished during credit", bloodID)
			}
		}
	}
	return tx.Inventory.Available(ctx, bloodID)
}

// Debit removes units from bloodID's balance. When the balance cannot cover
// it, nothing changes and an *InsufficientStockError carries the shortfall.
// It returns the balance after the debit.
func (l *InventoryLedger) Debit(ctx context.Context, tx *repositories.Store, bloodID string, units int) (int, error) {
	if units <= 0 {
		return 0, errors.Errorf("inventory: debit of %d units", units)
	}

	ok, err := tx.Inventory.DecrementIfAvailable(ctx, bloodID, units, l.now().UTC())
	if err != nil {
		return 0, err
	}
	available, err := tx.Inventory.Available(ctx, bloodID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return available, &InsufficientStockError{Available: available, Required: units}
	}
	return available, nil
}

// Snapshot lists every inventory row ordered by blood group.
func (l *InventoryLedger) Snapshot(ctx context.Context) ([]InventoryLine, error) {
	rows, err := l.store.Inventory.All(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]InventoryLine, 0, len(rows))
	for _, row := range rows {
		line := InventoryLine{
			InventoryID:    row.ID,
			BloodID:        row.BloodGroupID,
			UnitsAvailable: row.UnitsAvailable,
			UnitsReserved:  row.UnitsReserved,
			TotalUnits:     row.UnitsAvailable + row.UnitsReserved,
			LastUpdated:    row.LastUpdated,
		}
		if row.BloodGroup != nil {
			line.BloodType = row.BloodGroup.BloodType
		}
		lines = append(lines, line)
	}
	return lines, nil
}
