package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// BloodGroupRepository handles database operations for BloodGroup.
type BloodGroupRepository struct {
	db *gorm.DB
}

func (r *BloodGroupRepository) FindByType(ctx context.Context, bloodType string) (*models.BloodGroup, error) {
	var g models.BloodGroup
	err := r.db.WithContext(ctx).Where("blood_type = ?", bloodType).First(&g).Error
	if err != nil {
		return nil, translate(err, "blood group: find by type")
	}
	return &g, nil
}

func (r *BloodGroupRepository) FindByID(ctx context.Context, id string) (*models.BloodGroup, error) {
	var g models.BloodGroup
	if err := r.db.WithContext(ctx).First(&g, "blood_id = ?", id).Error; err != nil {
		return nil, translate(err, "blood group: find by id")
	}
	return &g, nil
}

func (r *BloodGroupRepository) Create(ctx context.Context, g *models.BloodGroup) error {
	return translate(r.db.WithContext(ctx).Create(g).Error, "blood group: create")
}

// Insert creates g unless a group with the same id or type exists.
func (r *BloodGroupRepository) Insert(ctx context.Context, g *models.BloodGroup) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(g)
	if res.Error != nil {
		return false, translate(res.Error, "blood group: insert")
	}
	return res.RowsAffected == 1, nil
}

// All returns every blood group ordered by id.
func (r *BloodGroupRepository) All(ctx context.Context) ([]models.BloodGroup, error) {
	var groups []models.BloodGroup
	err := r.db.WithContext(ctx).Order("blood_id").Find(&groups).Error
	return groups, translate(err, "blood group: all")
}
