package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleDonor     Role = "donor"
	RoleRequester Role = "requester"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRequester, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// ParseGender accepts m/f/o in any case. Anything else yields nil.
func ParseGender(s string) *Gender {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return &g
	}
	return nil
}

// User is an account of any role.
type User struct {
	ID               string      `gorm:"column:user_id;primaryKey;size:10"   json:"user_id"`
	BloodGroupID     *string     `gorm:"column:blood_id;size:10;index"       json:"blood_id,omitempty"`
	BloodGroup       *BloodGroup `gorm:"foreignKey:BloodGroupID"             json:"blood_group,omitempty"`
	FirstName        string      `gorm:"size:100;not null"                   json:"first_name"`
	LastName         string      `gorm:"size:100"                            json:"last_name,omitempty"`
	Email            string      `gorm:"size:255;not null;uniqueIndex"       json:"email"`
	MobileNo         string      `gorm:"size:10;not null;uniqueIndex"        json:"mobile_no"`
	PasswordHash     string      `gorm:"size:255;not null"                   json:"-"` // bcrypt, never serialised
	DateOfBirth      *time.Time  `gorm:"type:date"                           json:"date_of_birth,omitempty"`
	Gender           *Gender     `gorm:"size:1"                              json:"gender,omitempty"`
	Pincode          string      `gorm:"size:6;not null"                     json:"pincode"`
	Role             Role        `gorm:"size:20;not null;default:donor;index" json:"role"`
	LastDonationDate *time.Time  `gorm:"type:date"                           json:"last_donation_date,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

func (User) TableName() string { return "users" }

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// BloodType returns the user's blood type, or "" when unknown or not loaded.
func (u User) BloodType() string {
	if u.BloodGroup == nil {
		return ""
	}
	return u.BloodGroup.BloodType
}
