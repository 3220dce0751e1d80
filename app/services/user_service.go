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

// ProfileInput changes the caller's own profile. Nil fields are left as is.
// Email, mobile and role are not editable here.
type ProfileInput struct {
	FirstName   *string `json:"first_name"    validate:"omitnil,min=1,max=100"`
	LastName    *string `json:"last_name"     validate:"omitnil,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender"`
	Pincode     *string `json:"pincode"       validate:"omitnil,pincode"`
	BloodType   *string `json:"blood_type"    validate:"omitnil,blood_type"`
}

type UserService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewUserService(store *repositories.Store) *UserService {
	return &UserService{store: store, now: time.Now}
}

// Profile returns the actor's own account.
func (s *UserService) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	return s.find(ctx, s.store, actor.UserID)
}

func (s *UserService) find(ctx context.Context, store *repositories.Store, id string) (*models.User, error) {
	u, err := store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateProfile applies in to the actor's own account.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*models.User, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		u, err := s.find(ctx, tx, actor.UserID)
		if err != nil {
			return err
		}
		if in.FirstName != nil {
			u.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			u.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.DateOfBirth != nil {
			dob, err := parseOptionalDate(*in.DateOfBirth)
			if err != nil {
				return fieldError("date_of_birth", "The date_of_birth does not match the format 2006-01-02.")
			}
			if dob != nil && dob.After(s.now()) {
				return fieldError("date_of_birth", "The date_of_birth must be in the past.")
			}
			u.DateOfBirth = dob
		}
		if in.Gender != nil {
			u.Gender = models.ParseGender(*in.Gender)
		}
		if in.Pincode != nil {
			u.Pincode = *in.Pincode
		}
		if in.BloodType != nil {
			g, err := resolveBloodGroup(ctx, tx, *in.BloodType)
			if err != nil {
				return err
			}
			u.BloodGroupID = &g.ID
		}
		return tx.Users.UpdateProfile(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, actor)
}

// List returns every user with their blood group.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.All(ctx)
}

// ChangeRole sets userID's role. Only admins may call it, and an admin
// cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, userID, role string) (*models.User, error) {
	if !actor.Is(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	newRole := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !newRole.Valid() {
		return nil, fieldError("role", "The selected role is invalid.")
	}
	if userID == actor.UserID {
		return nil, fieldError("role", "You cannot change your own role.")
	}

	var from models.Role
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		u, err := s.find(ctx, tx, userID)
		if err != nil {
			return err
		}
		from = u.Role
		return tx.Users.UpdateRole(ctx, userID, newRole)
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user role changed", "user_id", userID, "from", from, "to", newRole, "by", actor.UserID)
	event.Fire(EventUserRoleChanged, UserRoleChanged{UserID: userID, From: from, To: newRole, By: actor.UserID})
	return s.find(ctx, s.store, userID)
}

// AssignRole sets the role of the account registered under email. It is
// the operator path used by seeding and the CLI, so no actor is checked.
func (s *UserService) AssignRole(ctx context.Context, email, role string) (*models.User, error) {
	newRole := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !newRole.Valid() {
		return nil, fieldError("role", "The selected role is invalid.")
	}

	var (
		id   string
		from models.Role
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		u, err := tx.Users.FindByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return notFound(err)
		}
		id, from = u.ID, u.Role
		if from == newRole {
			return nil
		}
		return tx.Users.UpdateRole(ctx, u.ID, newRole)
	})
	if err != nil {
		return nil, err
	}

	if from != newRole {
		logger.WithCtx(ctx).Info("user role assigned", "user_id", id, "from", from, "to", newRole)
		event.Fire(EventUserRoleChanged, UserRoleChanged{UserID: id, From: from, To: newRole, By: "system"})
	}
	return s.find(ctx, s.store, id)
}
