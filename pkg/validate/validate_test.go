package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bloodbank/pkg/validate"
)

type signupInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email_address,max=255"`
	Password  string `json:"password"   validate:"required,min=8"`
	Mobile    string `json:"mobile_no"  validate:"required,mobile"`
	Pincode   string `json:"pincode"    validate:"required,pincode"`
	BloodType string `json:"blood_type" validate:"omitempty,blood_type"`
	DOB       string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Urgency   string `json:"urgency"    validate:"omitempty,oneof=normal urgent critical"`
	Units     int    `json:"units"      validate:"gte=1,lte=10"`
}

func valid() signupInput {
	return signupInput{
		FirstName: "Asha",
		Email:     "asha@example.com",
		Password:  "secret123",
		Mobile:    "9876543210",
		Pincode:   "560001",
		BloodType: "o+",
		DOB:       "1990-04-12",
		Urgency:   "urgent",
		Units:     2,
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(valid())
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(signupInput{Units: 1})
	assert.True(t, validate.HasErrors(errs))
	assert.Equal(t, "The first_name field is required.", errs["first_name"])
	assert.Equal(t, "The email field is required.", errs["email"])
	assert.Contains(t, errs, "mobile_no")
	assert.NotContains(t, errs, "blood_type")
}

func TestEmailRule(t *testing.T) {
	in := valid()
	for _, bad := range []string{"not-an-email", "user@localhost", "a b@example.com"} {
		in.Email = bad
		assert.Equal(t, "The email must be a valid email address.", validate.Struct(in)["email"], bad)
	}
}

func TestMobileAndPincode(t *testing.T) {
	in := valid()
	in.Mobile = "98765"
	in.Pincode = "56000a"
	errs := validate.Struct(in)
	assert.Equal(t, "The mobile_no must be 10 digits.", errs["mobile_no"])
	assert.Equal(t, "The pincode must be 6 digits.", errs["pincode"])

	in.Pincode = "056000"
	assert.Contains(t, validate.Struct(in), "pincode")
	in.Pincode = "999999"
	assert.NotContains(t, validate.Struct(in), "pincode")
}

func TestBloodTypeRule(t *testing.T) {
	in := valid()
	in.BloodType = "C+"
	assert.Contains(t, validate.Struct(in), "blood_type")

	for _, ok := range []string{" ab- ", "AB–", "A +", "O＋", "b−"} {
		in.BloodType = ok
		assert.NotContains(t, validate.Struct(in), "blood_type", ok)
	}
}

func TestBloodTypeFolding(t *testing.T) {
	for raw, want := range map[string]string{"o+ ": "O+", "AB–": "AB-", "A +": "A+", "O＋": "O+"} {
		got, ok := validate.BloodType(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, bad := range []string{"", "C+", "A", "ABO+", "A++"} {
		_, ok := validate.BloodType(bad)
		assert.False(t, ok, bad)
	}
}

func TestDateAndOneOf(t *testing.T) {
	in := valid()
	in.DOB = "12/04/1990"
	in.Urgency = "asap"
	errs := validate.Struct(in)
	assert.Contains(t, errs["date_of_birth"], "2006-01-02")
	assert.Equal(t, "The selected urgency is invalid.", errs["urgency"])
}

func TestNumericBounds(t *testing.T) {
	in := valid()
	in.Units = 0
	assert.Equal(t, "The units must be greater than or equal to 1.", validate.Struct(in)["units"])
	in.Units = 11
	assert.Equal(t, "The units must be less than or equal to 10.", validate.Struct(in)["units"])
}

func TestPasswordLength(t *testing.T) {
	in := valid()
	in.Password = "short"
	assert.Equal(t, "The password must be at least 8 characters.", validate.Struct(in)["password"])
}
