package models

import "time"

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// Rank orders urgencies for triage; higher is more urgent. Unknown values
// rank below normal.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyUrgent:
		return 2
	case UrgencyNormal:
		return 1
	}
	return 0
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestCancelled RequestStatus = "cancelled"
)

// BloodRequest asks for units of one blood group. Only the status and
// fulfilled date change after creation.
type BloodRequest struct {
	ID            string        `gorm:"column:request_id;primaryKey;size:10"     json:"request_id"`
	RequesterID   string        `gorm:"size:10;not null;index"                   json:"requester_id"`
	Requester     *User         `gorm:"foreignKey:RequesterID"                   json:"requester,omitempty"`
	BloodGroupID  string        `gorm:"column:blood_id;size:10;not null;index"   json:"blood_id"`
	BloodGroup    *BloodGroup   `gorm:"foreignKey:BloodGroupID"                  json:"blood_group,omitempty"`
	UnitsRequired int           `gorm:"not null"                                 json:"units_required"`
	Urgency       Urgency       `gorm:"size:20;not null;default:normal"          json:"urgency"`
	Status        RequestStatus `gorm:"size:20;not null;default:pending;index"   json:"status"`
	HospitalName  string        `gorm:"size:200"                                 json:"hospital_name,omitempty"`
	RequestDate   time.Time     `gorm:"not null;index"                           json:"request_date"`
	FulfilledDate *time.Time    `                                                json:"fulfilled_date,omitempty"`
	Notes         string        `gorm:"size:500"                                 json:"notes,omitempty"`
}

func (BloodRequest) TableName() string { return "blood_requests" }
