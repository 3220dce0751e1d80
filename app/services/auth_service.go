package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/pkg/auth"
	"github.com/shashiranjanraj/bloodbank/pkg/event"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/validate"
)

const dateLayout = "2006-01-02"

// RegisterInput is a self-service sign-up.
type RegisterInput struct {
	FirstName   string `json:"first_name"    validate:"required,max=100"`
	LastName    string `json:"last_name"     validate:"max=100"`
	Email       string `json:"email"         validate:"required,email_address,max=255"`
	MobileNo    string `json:"mobile_no"     validate:"required,mobile"`
	Password    string `json:"password"      validate:"required,min=6,max=72"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender"`
	Pincode     string `json:"pincode"       validate:"required,pincode"`
	BloodType   string `json:"blood_type"    validate:"omitempty,blood_type"`
	Role        string `json:"role"`
}

type AuthService struct {
	store   *repositories.Store
	now     func() time.Time
	compare func(hash, plain string) bool
}

func NewAuthService(store *repositories.Store) *AuthService {
	return &AuthService{store: store, now: time.Now, compare: auth.CheckPassword}
}

// Register validates in and creates the account. Email and mobile must be
// unused. Only donor and requester can be chosen; anything else becomes donor.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.MobileNo = strings.TrimSpace(in.MobileNo)
	in.Pincode = strings.TrimSpace(in.Pincode)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}
	dob, err := parseOptionalDate(in.DateOfBirth)
	if err != nil {
		return nil, fieldError("date_of_birth", "The date_of_birth does not match the format 2006-01-02.")
	}
	if dob != nil && dob.After(s.now()) {
		return nil, fieldError("date_of_birth", "The date_of_birth must be in the past.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if taken, err := tx.Users.EmailTaken(ctx, in.Email); err != nil {
			return err
		} else if taken {
			return ErrDuplicateEmail
		}
		if taken, err := tx.Users.MobileTaken(ctx, in.MobileNo); err != nil {
			return err
		} else if taken {
			return ErrDuplicateMobile
		}

		var group *models.BloodGroup
		if in.BloodType != "" {
			g, err := resolveBloodGroup(ctx, tx, in.BloodType)
			if err != nil {
				return err
			}
			group = g
		}

		id, err := NextID(ctx, tx, UserIDs)
		if err != nil {
			return err
		}
		user = models.User{
			ID:           id,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			MobileNo:     in.MobileNo,
			PasswordHash: hash,
			DateOfBirth:  dob,
			Gender:       models.ParseGender(in.Gender),
			Pincode:      in.Pincode,
			Role:         selfServiceRole(in.Role),
		}
		if group != nil {
			user.BloodGroupID = &group.ID
		}
		if err := tx.Users.Create(ctx, &user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return duplicateUserError(err)
			}
			return err
		}
		user.BloodGroup = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	event.Fire(EventUserRegistered, UserRegistered{User: user})
	return &user, nil
}

// Authenticate resolves credentials to a user. Unknown email and wrong
// password fail with the same ErrInvalidCredentials after one bcrypt
// comparison each.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		s.compare(auth.DecoyHash(), password)
		event.Fire(EventLoginFailed, nil)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.compare(user.PasswordHash, password) {
		event.Fire(EventLoginFailed, nil)
		return nil, ErrInvalidCredentials
	}
	event.Fire(EventLoginSucceeded, user.ID)
	return user, nil
}

// Login authenticates and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, errors.Wrap(err, "issue token")
	}
	return token, user, nil
}

func selfServiceRole(raw string) models.Role {
	if r := models.Role(strings.ToLower(strings.TrimSpace(raw))); r == models.RoleRequester {
		return r
	}
	return models.RoleDonor
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func duplicateUserError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "mobile") {
		return ErrDuplicateMobile
	}
	return ErrDuplicateEmail
}
