package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// DonationRepository handles database operations for BloodDonation.
type DonationRepository struct {
	db *gorm.DB
}

func (r *DonationRepository) Create(ctx context.Context, d *models.BloodDonation) error {
	return translate(r.db.WithContext(ctx).Omit("Donor", "BloodGroup").Create(d).Error, "donation: create")
}

// ListByDonor returns the donor's donations, newest first.
func (r *DonationRepository) ListByDonor(ctx context.Context, donorID string) ([]models.BloodDonation, error) {
	var out []models.BloodDonation
	err := r.db.WithContext(ctx).Preload("BloodGroup").
		Where("donor_id = ?", donorID).
		Order("donation_date DESC, donation_id DESC").
		Find(&out).Error
	return out, translate(err, "donation: list by donor")
}

// Recent returns the latest limit donations with donor and blood group.
func (r *DonationRepository) Recent(ctx context.Context, limit int) ([]models.BloodDonation, error) {
	var out []models.BloodDonation
	err := r.db.WithContext(ctx).Preload("Donor").Preload("BloodGroup").
		Order("donation_date DESC, donation_id DESC").
		Limit(limit).
		Find(&out).Error
	return out, translate(err, "donation: recent")
}

func (r *DonationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BloodDonation{}).Count(&n).Error
	return n, translate(err, "donation: count")
}
