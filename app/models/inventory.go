package models

import "time"

// BloodInventory is the running balance for one blood group.
type BloodInventory struct {
	ID             string      `gorm:"column:inventory_id;primaryKey;size:10"     json:"inventory_id"`
	BloodGroupID   string      `gorm:"column:blood_id;size:10;not null;uniqueIndex" json:"blood_id"`
	BloodGroup     *BloodGroup `gorm:"foreignKey:BloodGroupID"                    json:"blood_group,omitempty"`
	UnitsAvailable int         `gorm:"not null;default:0"                         json:"units_available"`
	UnitsReserved  int         `gorm:"not null;default:0"                         json:"units_reserved"`
	LastUpdated    time.Time   `gorm:"not null"                                   json:"last_updated"`
}

func (BloodInventory) TableName() string { return "blood_inventory" }

// IDSequence is the counter behind one human-readable id series.
type IDSequence struct {
	Entity    string `gorm:"primaryKey;size:50"`
	Prefix    string `gorm:"primaryKey;size:10"`
	LastValue int64  `gorm:"not null;default:0"`
}

func (IDSequence) TableName() string { return "id_sequences" }
