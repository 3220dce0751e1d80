package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("BloodGroup").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "user: find by email")
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("BloodGroup").First(&user, "user_id = ?", id).Error
	if err != nil {
		return nil, translate(err, "user: find by id")
	}
	return &user, nil
}

// EmailTaken reports whether another user already holds email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// MobileTaken reports whether another user already holds mobile.
func (r *UserRepository) MobileTaken(ctx context.Context, mobile string) (bool, error) {
	return r.exists(ctx, "mobile_no = ?", mobile)
}

func (r *UserRepository) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, arg).Count(&n).Error
	return n > 0, translate(err, "user: exists")
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit("BloodGroup").Create(user).Error, "user: create")
}

// UpdateProfile writes the editable profile columns of user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", user.ID).
		Select("first_name", "last_name", "date_of_birth", "gender", "pincode", "blood_id").
		Updates(map[string]interface{}{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"date_of_birth": user.DateOfBirth,
			"gender":        user.Gender,
			"pincode":       user.Pincode,
			"blood_id":      user.BloodGroupID,
		})
	return translate(res.Error, "user: update profile")
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", id).Update("role", role)
	return translate(res.Error, "user: update role")
}

// SetLastDonationDate stamps the donor's most recent donation day.
func (r *UserRepository) SetLastDonationDate(ctx context.Context, id string, day time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", id).Update("last_donation_date", day)
	return translate(res.Error, "user: set last donation date")
}

// All returns every user with their blood group, oldest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("BloodGroup").Order("created_at, user_id").Find(&users).Error
	return users, translate(err, "user: all")
}

// CountByRole returns the number of users per role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "user: count by role")
	}
	out := make(map[models.Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}
