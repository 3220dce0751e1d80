package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/pkg/event"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/validate"
)

// RecentDonationsLimit is the default size of the staff recent list.
const RecentDonationsLimit = 20

// DonationInput is one donation visit submitted by a donor.
type DonationInput struct {
	DonationDate      string `json:"donation_date"       validate:"omitempty,datetime=2006-01-02"`
	UnitsDonated      int    `json:"units_donated"       validate:"gte=1,lte=2"`
	HealthCheckPassed *bool  `json:"health_check_passed"`
	Notes             string `json:"notes"               validate:"max=500"`
}

type DonationRecorder struct {
	store  *repositories.Store
	ledger *InventoryLedger
	now    func() time.Time
}

func NewDonationRecorder(store *repositories.Store, ledger *InventoryLedger) *DonationRecorder {
	return &DonationRecorder{store: store, ledger: ledger, now: time.Now}
}

// RecordDonation stores a completed donation for the acting donor, stamps
// their last donation date and credits the inventory, all in one
// transaction.
func (r *DonationRecorder) RecordDonation(ctx context.Context, actor Actor, in DonationInput) (*models.BloodDonation, error) {
	if !actor.Is(models.RoleDonor) {
		return nil, ErrForbidden
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	today := truncateDay(r.now())
	day := today
	if in.DonationDate != "" {
		d, err := parseOptionalDate(in.DonationDate)
		if err != nil {
			return nil, fieldError("donation_date", "The donation_date does not match the format 2006-01-02.")
		}
		day = *d
	}
	if day.After(today) {
		return nil, fieldError("donation_date", "The donation_date cannot be in the future.")
	}
	passed := true
	if in.HealthCheckPassed != nil {
		passed = *in.HealthCheckPassed
	}

	var (
		donation  models.BloodDonation
		bloodType string
		available int
	)
	err := r.store.Transaction(ctx, func(tx *repositories.Store) error {
		donor, err := tx.Users.FindByID(ctx, actor.UserID)
		if err != nil {
			return notFound(err)
		}
		if donor.BloodGroupID == nil {
			return ErrMissingBloodGroup
		}
		bloodType = donor.BloodType()

		id, err := NextID(ctx, tx, DonationIDs)
		if err != nil {
			return err
		}
		donation = models.BloodDonation{
			ID:                id,
			DonorID:           donor.ID,
			BloodGroupID:      *donor.BloodGroupID,
			DonationDate:      day,
			UnitsDonated:      in.UnitsDonated,
			Status:            models.DonationCompleted,
			HealthCheckPassed: passed,
			Notes:             strings.TrimSpace(in.Notes),
		}
		if err := tx.Donations.Create(ctx, &donation); err != nil {
			return err
		}
		if err := tx.Users.SetLastDonationDate(ctx, donor.ID, day); err != nil {
			return err
		}
		available, err = r.ledger.Credit(ctx, tx, donation.BloodGroupID, donation.UnitsDonated)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("donation recorded",
		"donation_id", donation.ID, "donor_id", donation.DonorID,
		"blood_type", bloodType, "units", donation.UnitsDonated)
	event.Fire(EventDonationRecorded, DonationRecorded{Donation: donation, BloodType: bloodType, Available: available})
	return &donation, nil
}

// ListDonorDonations returns the actor's donations, newest first.
func (r *DonationRecorder) ListDonorDonations(ctx context.Context, actor Actor) ([]models.BloodDonation, error) {
	return r.store.Donations.ListByDonor(ctx, actor.UserID)
}

// RecentDonations returns the latest donations across all donors. A
// non-positive limit uses RecentDonationsLimit.
func (r *DonationRecorder) RecentDonations(ctx context.Context, limit int) ([]models.BloodDonation, error) {
	if limit <= 0 || limit > 100 {
		limit = RecentDonationsLimit
	}
	return r.store.Donations.Recent(ctx, limit)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
