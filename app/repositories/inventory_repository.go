package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// InventoryRepository handles database operations for BloodInventory.
// Balance changes are single conditional UPDATEs so no read-modify-write
// window exists between concurrent callers.
type InventoryRepository struct {
	db *gorm.DB
}

// Increment adds units to the group's balance. It returns false when the
// group has no inventory row yet.
func (r *InventoryRepository) Increment(ctx context.Context, bloodID string, units int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.BloodInventory{}).
		Where("blood_id = ?", bloodID).
		Updates(map[string]interface{}{
			"units_available": gorm.Expr("units_available + ?", units),
			"last_updated":    at,
		})
	if res.Error != nil {
		return false, translate(res.Error, "inventory: increment")
	}
	return res.RowsAffected > 0, nil
}

// Insert creates the group's row. It returns false, without error, when
// another writer created the row first.
func (r *InventoryRepository) Insert(ctx context.Context, inv *models.BloodInventory) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("BloodGroup").
		Create(inv)
	if res.Error != nil {
		return false, translate(res.Error, "inventory: insert")
	}
	return res.RowsAffected == 1, nil
}

// DecrementIfAvailable removes units only while the balance covers them.
// It returns false, leaving the row untouched, when stock is short or the
// row does not exist.
func (r *InventoryRepository) DecrementIfAvailable(ctx context.Context, bloodID string, units int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.BloodInventory{}).
		Where("blood_id = ? AND units_available >= ?", bloodID, units).
		Updates(map[string]interface{}{
			"units_available": gorm.Expr("units_available - ?", units),
			"last_updated":    at,
		})
	if res.Error != nil {
		return false, translate(res.Error, "inventory: decrement")
	}
	return res.RowsAffected == 1, nil
}

// Available returns the group's available units, zero when it has no row.
func (r *InventoryRepository) Available(ctx context.Context, bloodID string) (int, error) {
	var inv models.BloodInventory
	err := r.db.WithContext(ctx).Where("blood_id = ?", bloodID).Limit(1).Find(&inv).Error
	if err != nil {
		return 0, translate(err, "inventory: available")
	}
	return inv.UnitsAvailable, nil
}

// All returns every inventory row with its blood group, ordered by group.
func (r *InventoryRepository) All(ctx context.Context) ([]models.BloodInventory, error) {
	var rows []models.BloodInventory
	err := r.db.WithContext(ctx).Preload("BloodGroup").Order("blood_id").Find(&rows).Error
	return rows, translate(err, "inventory: all")
}
