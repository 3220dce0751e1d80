package models

import "time"

type DonationStatus string

const (
	DonationCompleted DonationStatus = "completed"
	DonationPending   DonationStatus = "pending"
	DonationRejected  DonationStatus = "rejected"
)

// BloodDonation records one donation visit. The blood group is copied from
// the donor at donation time.
type BloodDonation struct {
	ID                string         `gorm:"column:donation_id;primaryKey;size:10"         json:"donation_id"`
	DonorID           string         `gorm:"size:10;not null;index"                        json:"donor_id"`
	Donor             *User          `gorm:"foreignKey:DonorID"                            json:"donor,omitempty"`
	BloodGroupID      string         `gorm:"column:blood_id;size:10;not null;index"        json:"blood_id"`
	BloodGroup        *BloodGroup    `gorm:"foreignKey:BloodGroupID"                       json:"blood_group,omitempty"`
	DonationDate      time.Time      `gorm:"not null;index"                                json:"donation_date"`
	UnitsDonated      int            `gorm:"not null;default:1"                            json:"units_donated"`
	Status            DonationStatus `gorm:"size:20;not null;default:completed"            json:"status"`
	HealthCheckPassed bool           `gorm:"not null"                                      json:"health_check_passed"`
	Notes             string         `gorm:"size:500"                                      json:"notes,omitempty"`
}

func (BloodDonation) TableName() string { return "blood_donations" }
