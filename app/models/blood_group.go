package models

import "github.com/shashiranjanraj/bloodbank/pkg/validate"

// BloodGroup is one ABO/Rh combination. Rows are created on first reference
// and never deleted.
type BloodGroup struct {
	ID          string `gorm:"column:blood_id;primaryKey;size:10"  json:"blood_id"`
	BloodType   string `gorm:"size:5;not null;uniqueIndex"          json:"blood_type"`
	Description string `gorm:"size:200"                             json:"description,omitempty"`
}

func (BloodGroup) TableName() string { return "blood_groups" }

// BloodTypes lists the eight canonical blood types in display order.
var BloodTypes = validate.BloodTypes

// CanonicalBloodType maps user input to one of BloodTypes using the same
// folding as the blood_type validation rule.
func CanonicalBloodType(s string) (string, bool) {
	return validate.BloodType(s)
}
