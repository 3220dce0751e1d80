package services

import "github.com/shashiranjanraj/bloodbank/app/models"

// Events fired after a successful commit. Payloads are the structs below.
const (
	EventUserRegistered   = "user.registered"
	EventUserRoleChanged  = "user.role_changed"
	EventLoginSucceeded   = "auth.login_succeeded"
	EventLoginFailed      = "auth.login_failed"
	EventDonationRecorded = "donation.recorded"
	EventRequestCreated   = "request.created"
	EventRequestFulfilled = "request.fulfilled"
	EventRequestCancelled = "request.cancelled"
)

type UserRegistered struct {
	User models.User
}

type UserRoleChanged struct {
	UserID string
	From   models.Role
	To     models.Role
	By     string
}

type DonationRecorded struct {
	Donation  models.BloodDonation
	BloodType string
	Available int
}

type RequestChanged struct {
	Request   models.BloodRequest
	BloodType string
	// Available is the group's balance after the change; only set on fulfilment.
	Available int
}
