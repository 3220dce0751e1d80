// Package validate runs struct-tag validation and renders failures as
// human-readable, per-field messages.
//
// Tags use go-playground/validator syntax plus these project rules:
//
//	email_address  local@domain.tld
//	mobile         exactly 10 decimal digits
//	pincode        6 digits in [100000, 999999]
//	blood_type     anything BloodType accepts
//
// Example:
//
//	type Input struct {
//	    Email  string `json:"email"     validate:"required,email_address,max=255"`
//	    Mobile string `json:"mobile_no" validate:"required,mobile"`
//	    DOB    string `json:"dob"       validate:"omitempty,datetime=2006-01-02"`
//	}
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate

	emailRE   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRE  = regexp.MustCompile(`^\d{10}$`)
	pincodeRE = regexp.MustCompile(`^[1-9]\d{5}$`)
)

// BloodTypes lists the eight ABO/Rh types in display order.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

var signFolder = strings.NewReplacer("−", "-", "–", "-", "＋", "+", " ", "")

// BloodType folds raw ("o+ ", "AB−", "A +") to one of BloodTypes.
func BloodType(raw string) (string, bool) {
	s := signFolder.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	for _, bt := range BloodTypes {
		if s == bt {
			return bt, true
		}
	}
	return "", false
}

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
			return emailRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobileRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodeRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("blood_type", func(fl validator.FieldLevel) bool {
			_, ok := BloodType(fl.Field().String())
			return ok
		})
	})
	return v
}

// Struct validates s and returns a map of json field name → message. An
// empty map means s is valid. Only the first failure per field is kept.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)
	err := instance().Struct(s)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a struct, or nil pointer.
		errs["_"] = "The given data was invalid."
		return errs
	}
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := errs[name]; seen {
			continue
		}
		errs[name] = message(fe)
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email", "email_address":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "mobile":
		return fmt.Sprintf("The %s must be 10 digits.", field)
	case "pincode":
		return fmt.Sprintf("The %s must be 6 digits.", field)
	case "blood_type":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format %s.", field, param)
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}
