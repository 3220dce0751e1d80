package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// SequenceRepository maintains the id_sequences counters. Every method must
// run on a transaction handle so the counter row lock lasts until commit.
type SequenceRepository struct {
	db *gorm.DB
}

// Ensure inserts a zeroed counter for (entity, prefix) if none exists.
// created is true only for the call that inserted the row.
func (r *SequenceRepository) Ensure(ctx context.Context, entity, prefix string) (created bool, err error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.IDSequence{Entity: entity, Prefix: prefix})
	if res.Error != nil {
		return false, translate(res.Error, "sequence: ensure")
	}
	return res.RowsAffected == 1, nil
}

// Seed raises the counter to at least value.
func (r *SequenceRepository) Seed(ctx context.Context, entity, prefix string, value int64) error {
	err := r.db.WithContext(ctx).Model(&models.IDSequence{}).
		Where("entity = ? AND prefix = ? AND last_value < ?", entity, prefix, value).
		Update("last_value", value).Error
	return translate(err, "sequence: seed")
}

// Increment bumps the counter by one and returns the new value. The UPDATE
// takes the row lock, so concurrent callers are serialised.
func (r *SequenceRepository) Increment(ctx context.Context, entity, prefix string) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.IDSequence{}).
		Where("entity = ? AND prefix = ?", entity, prefix).
		Update("last_value", gorm.Expr("last_value + ?", 1))
	if res.Error != nil {
		return 0, translate(res.Error, "sequence: increment")
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var seq models.IDSequence
	if err := db.Where("entity = ? AND prefix = ?", entity, prefix).First(&seq).Error; err != nil {
		return 0, translate(err, "sequence: read back")
	}
	return seq.LastValue, nil
}

// Release hands value back when it is still the counter's latest. The
// caller's earlier Increment holds the row lock, so no later value can
// have been issued.
func (r *SequenceRepository) Release(ctx context.Context, entity, prefix string, value int64) error {
	err := r.db.WithContext(ctx).Model(&models.IDSequence{}).
		Where("entity = ? AND prefix = ? AND last_value = ?", entity, prefix, value).
		Update("last_value", gorm.Expr("last_value - ?", 1)).Error
	return translate(err, "sequence: release")
}

// PluckIDs returns every value of column in table that starts with prefix.
func (r *SequenceRepository) PluckIDs(ctx context.Context, table, column, prefix string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Table(table).
		Where(clause.Like{Column: clause.Column{Name: column}, Value: prefix + "%"}).
		Pluck(column, &ids).Error
	return ids, translate(err, "sequence: pluck ids")
}
