package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
)

var (
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrDuplicateMobile    = errors.New("mobile number is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyResolved    = errors.New("request is no longer pending")
	ErrMissingBloodGroup  = errors.New("no blood group on file; update your profile first")
	ErrForbidden          = errors.New("not allowed for this user")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// InsufficientStockError reports a debit the balance could not cover.
// Nothing was mutated.
type InsufficientStockError struct {
	BloodType string
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d required", e.BloodType, e.Available, e.Required)
}

// GenerationError means a stored id does not follow its series' format.
// It aborts the enclosing transaction.
type GenerationError struct {
	Entity string
	ID     string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("id generation for %s: malformed id %q: %v", e.Entity, e.ID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// notFound maps the repository miss onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
