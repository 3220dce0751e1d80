package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/repositories"
)

// IDSpec names one human-readable id series.
type IDSpec struct {
	Entity string // counter key, also the table holding the ids
	Column string
	Prefix string
}

var (
	UserIDs       = IDSpec{Entity: "users", Column: "user_id", Prefix: "U"}
	BloodGroupIDs = IDSpec{Entity: "blood_groups", Column: "blood_id", Prefix: "BG"}
	DonationIDs   = IDSpec{Entity: "blood_donations", Column: "donation_id", Prefix: "DN"}
	RequestIDs    = IDSpec{Entity: "blood_requests", Column: "request_id", Prefix: "RQ"}
	InventoryIDs  = IDSpec{Entity: "blood_inventory", Column: "inventory_id", Prefix: "IN"}
)

// NextID returns the next id in spec's series, e.g. "RQ0007". Call it with
// the transaction that inserts the row: the counter row stays locked until
// that transaction ends, so concurrent callers never see the same value.
//
// A counter created for the first time starts after the highest id already
// stored in the entity table.
func NextID(ctx context.Context, tx *repositories.Store, spec IDSpec) (string, error) {
	created, err := tx.Sequences.Ensure(ctx, spec.Entity, spec.Prefix)
	if err != nil {
		return "", err
	}
	if created {
		highest, err := highestExisting(ctx, tx, spec)
		if err != nil {
			return "", err
		}
		if highest > 0 {
			if err := tx.Sequences.Seed(ctx, spec.Entity, spec.Prefix, highest); err != nil {
				return "", err
			}
		}
	}

	n, err := tx.Sequences.Increment(ctx, spec.Entity, spec.Prefix)
	if err != nil {
		return "", errors.Wrapf(err, "next id for %s", spec.Entity)
	}
	return FormatID(spec.Prefix, n), nil
}

// releaseID returns an id taken by NextID in the same transaction whose row
// was never written, keeping the series gap-free.
func releaseID(ctx context.Context, tx *repositories.Store, spec IDSpec, id string) error {
	n, err := ParseID(spec.Prefix, id)
	if err != nil {
		return &GenerationError{Entity: spec.Entity, ID: id, Err: err}
	}
	return tx.Sequences.Release(ctx, spec.Entity, spec.Prefix, n)
}

func highestExisting(ctx context.Context, tx *repositories.Store, spec IDSpec) (int64, error) {
	ids, err := tx.Sequences.PluckIDs(ctx, spec.Entity, spec.Column, spec.Prefix)
	if err != nil {
		return 0, err
	}
	var highest int64
	for _, id := range ids {
		// LIKE is case-insensitive on some drivers.
		if !strings.HasPrefix(id, spec.Prefix) {
			continue
		}
		n, err := ParseID(spec.Prefix, id)
		if err != nil {
			return 0, &GenerationError{Entity: spec.Entity, ID: id, Err: err}
		}
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}

// FormatID renders prefix followed by n zero-padded to four digits.
func FormatID(prefix string, n int64) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// ParseID returns the numeric suffix of id.
func ParseID(prefix, id string) (int64, error) {
	suffix, ok := strings.CutPrefix(id, prefix)
	if !ok || suffix == "" {
		return 0, errors.Errorf("missing %q prefix", prefix)
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.Errorf("suffix %q is not a number", suffix)
	}
	return n, nil
}
