package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
)

var bloodTypeDescriptions = map[string]string{
	"A+":  "A RhD positive",
	"A-":  "A RhD negative",
	"B+":  "B RhD positive",
	"B-":  "B RhD negative",
	"AB+": "AB RhD positive",
	"AB-": "AB RhD negative",
	"O+":  "O RhD positive",
	"O-":  "O RhD negative",
}

type BloodGroupService struct {
	store *repositories.Store
}

func NewBloodGroupService(store *repositories.Store) *BloodGroupService {
	return &BloodGroupService{store: store}
}

// List returns every blood group known to the store.
func (s *BloodGroupService) List(ctx context.Context) ([]models.BloodGroup, error) {
	return s.store.BloodGroups.All(ctx)
}

// EnsureCanonical creates any of the eight canonical groups that are missing.
func (s *BloodGroupService) EnsureCanonical(ctx context.Context) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		for _, bt := range models.BloodTypes {
			if _, err := resolveBloodGroup(ctx, tx, bt); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveBloodGroup maps user input to its BloodGroup row, creating the row
// on first use. Input outside the canonical eight is a ValidationError.
func resolveBloodGroup(ctx context.Context, tx *repositories.Store, raw string) (*models.BloodGroup, error) {
	bloodType, ok := models.CanonicalBloodType(raw)
	if !ok {
		return nil, fieldError("blood_type", "The selected blood_type is invalid.")
	}

	g, err := tx.BloodGroups.FindByType(ctx, bloodType)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	id, err := NextID(ctx, tx, BloodGroupIDs)
	if err != nil {
		return nil, err
	}
	g = &models.BloodGroup{ID: id, BloodType: bloodType, Description: bloodTypeDescriptions[bloodType]}
	created, err := tx.BloodGroups.Insert(ctx, g)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with another writer; use theirs.
		if err := releaseID(ctx, tx, BloodGroupIDs, id); err != nil {
			return nil, err
		}
		return tx.BloodGroups.FindByType(ctx, bloodType)
	}
	return g, nil
}
