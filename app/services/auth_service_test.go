package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/pkg/auth"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName:   "Asha",
		LastName:    "Rao",
		Email:       "asha@example.com",
		MobileNo:    "9876543210",
		Password:    "secret1",
		DateOfBirth: "1990-04-12",
		Gender:      "f",
		Pincode:     "560001",
		BloodType:   " o+ ",
	}
}

func TestRegisterCreatesDonorWithLazyBloodGroup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "U0001", u.ID)
	assert.Equal(t, models.RoleDonor, u.Role)
	assert.Equal(t, "O+", u.BloodType())
	require.NotNil(t, u.Gender)
	assert.Equal(t, models.GenderFemale, *u.Gender)
	require.NotNil(t, u.DateOfBirth)
	assert.Equal(t, "1990-04-12", u.DateOfBirth.Format(dateLayout))
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "secret1"))

	g, err := e.store.BloodGroups.FindByType(ctx, "O+")
	require.NoError(t, err)
	assert.Equal(t, "BG0001", g.ID)
}

func TestRegisterFoldsBloodTypeSpellings(t *testing.T) {
	cases := map[string]string{
		"AB–": "AB-",
		"A +": "A+",
		"O＋":  "O+",
		"b−":  "B-",
	}
	e := newEnv(t)
	i := 0
	for raw, want := range cases {
		i++
		in := validRegistration()
		in.Email = "fold" + string(rune('a'+i)) + "@example.com"
		in.MobileNo = "923456789" + string(rune('0'+i))
		in.BloodType = raw
		u, err := e.auth.Register(context.Background(), in)
		require.NoError(t, err, raw)
		assert.Equal(t, want, u.BloodType(), raw)
	}
}

func TestRegisterRoleSelection(t *testing.T) {
	cases := map[string]models.Role{
		"":          models.RoleDonor,
		"donor":     models.RoleDonor,
		"Requester": models.RoleRequester,
		"staff":     models.RoleDonor,
		"admin":     models.RoleDonor,
		"superuser": models.RoleDonor,
	}
	e := newEnv(t)
	i := 0
	for raw, want := range cases {
		i++
		in := validRegistration()
		in.Email = "role" + string(rune('a'+i)) + "@example.com"
		in.MobileNo = "912345678" + string(rune('0'+i))
		in.Role = raw
		u, err := e.auth.Register(context.Background(), in)
		require.NoError(t, err, raw)
		assert.Equal(t, want, u.Role, raw)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		field  string
		mutate func(*RegisterInput)
	}{
		{"email", func(in *RegisterInput) { in.Email = "asha@example" }},
		{"mobile_no", func(in *RegisterInput) { in.MobileNo = "98765-4321" }},
		{"pincode", func(in *RegisterInput) { in.Pincode = "012345" }},
		{"pincode", func(in *RegisterInput) { in.Pincode = "56001" }},
		{"password", func(in *RegisterInput) { in.Password = "12345" }},
		{"first_name", func(in *RegisterInput) { in.FirstName = "  " }},
		{"blood_type", func(in *RegisterInput) { in.BloodType = "C+" }},
		{"date_of_birth", func(in *RegisterInput) { in.DateOfBirth = "12/04/1990" }},
		{"date_of_birth", func(in *RegisterInput) { in.DateOfBirth = "2030-01-01" }},
	}
	for _, tc := range cases {
		in := validRegistration()
		tc.mutate(&in)
		_, err := e.auth.Register(context.Background(), in)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "%s: got %v", tc.field, err)
		assert.Contains(t, verr.Fields, tc.field)
	}

	groups, err := e.store.BloodGroups.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups, "rejected registrations must not create blood groups")
}

func TestRegisterDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	dupEmail := validRegistration()
	dupEmail.Email = "  ASHA@example.com "
	dupEmail.MobileNo = "9000000000"
	_, err = e.auth.Register(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	dupMobile := validRegistration()
	dupMobile.Email = "other@example.com"
	_, err = e.auth.Register(ctx, dupMobile)
	assert.ErrorIs(t, err, ErrDuplicateMobile)

	users, err := e.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthenticateFailsIdentically(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	u, err := e.auth.Authenticate(ctx, "Asha@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "U0001", u.ID)

	_, wrongPassword := e.auth.Authenticate(ctx, "asha@example.com", "secret2")
	_, unknownEmail := e.auth.Authenticate(ctx, "nobody@example.com", "secret1")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticateRunsBcryptForUnknownEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	var hashes []string
	e.auth.compare = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return auth.CheckPassword(hash, plain)
	}

	_, err = e.auth.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Authenticate(ctx, "asha@example.com", "wrong1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, hashes, 2)
	assert.Equal(t, auth.DecoyHash(), hashes[0])
	decoyCost, err := bcrypt.Cost([]byte(hashes[0]))
	require.NoError(t, err)
	userCost, err := bcrypt.Cost([]byte(hashes[1]))
	require.NoError(t, err)
	assert.Equal(t, userCost, decoyCost)
}

func TestLoginIssuesToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := validRegistration()
	in.Role = "requester"
	_, err := e.auth.Register(ctx, in)
	require.NoError(t, err)

	token, u, err := e.auth.Login(ctx, in.Email, in.Password)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "requester", claims.Role)
}
