package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/repositories"
	"github.com/shashiranjanraj/bloodbank/pkg/event"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/validate"
)

// RequestInput is a new blood request from a requester.
type RequestInput struct {
	BloodType     string `json:"blood_type"     validate:"required,blood_type"`
	UnitsRequired int    `json:"units_required" validate:"gte=1,lte=10"`
	Urgency       string `json:"urgency"        validate:"omitempty,oneof=normal urgent critical"`
	HospitalName  string `json:"hospital_name"  validate:"max=200"`
	Notes         string `json:"notes"          validate:"max=500"`
}

type RequestBroker struct {
	store  *repositories.Store
	ledger *InventoryLedger
	now    func() time.Time
}

func NewRequestBroker(store *repositories.Store, ledger *InventoryLedger) *RequestBroker {
	return &RequestBroker{store: store, ledger: ledger, now: time.Now}
}

// CreateRequest files a pending request for the acting requester.
func (b *RequestBroker) CreateRequest(ctx context.Context, actor Actor, in RequestInput) (*models.BloodRequest, error) {
	if !actor.Is(models.RoleRequester) {
		return nil, ErrForbidden
	}
	in.Urgency = strings.ToLower(strings.TrimSpace(in.Urgency))
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}
	urgency := models.Urgency(in.Urgency)
	if urgency == "" {
		urgency = models.UrgencyNormal
	}

	var req models.BloodRequest
	err := b.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.FindByID(ctx, actor.UserID); err != nil {
			return notFound(err)
		}
		group, err := resolveBloodGroup(ctx, tx, in.BloodType)
		if err != nil {
			return err
		}
		id, err := NextID(ctx, tx, RequestIDs)
		if err != nil {
			return err
		}
		req = models.BloodRequest{
			ID:            id,
			RequesterID:   actor.UserID,
			BloodGroupID:  group.ID,
			UnitsRequired: in.UnitsRequired,
			Urgency:       urgency,
			Status:        models.RequestPending,
			HospitalName:  strings.TrimSpace(in.HospitalName),
			RequestDate:   b.now().UTC(),
			Notes:         strings.TrimSpace(in.Notes),
		}
		if err := tx.Requests.Create(ctx, &req); err != nil {
			return err
		}
		req.BloodGroup = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("blood request created",
		"request_id", req.ID, "blood_type", req.BloodGroup.BloodType,
		"units", req.UnitsRequired, "urgency", req.Urgency)
	event.Fire(EventRequestCreated, RequestChanged{Request: req, BloodType: req.BloodGroup.BloodType})
	return &req, nil
}

// Fulfill debits the request's units and marks it fulfilled in one
// transaction. On *InsufficientStockError the request stays pending and the
// inventory is untouched.
func (b *RequestBroker) Fulfill(ctx context.Context, actor Actor, requestID string) (*models.BloodRequest, error) {
	if !actor.Is(models.RoleStaff, models.RoleAdmin) {
		return nil, ErrForbidden
	}

	var (
		bloodType string
		available int
	)
	err := b.store.Transaction(ctx, func(tx *repositories.Store) error {
		req, err := tx.Requests.FindByID(ctx, requestID)
		if err != nil {
			return notFound(err)
		}
		if req.Status != models.RequestPending {
			return ErrAlreadyResolved
		}
		if req.BloodGroup != nil {
			bloodType = req.BloodGroup.BloodType
		}

		claimed, err := tx.Requests.MarkFulfilled(ctx, req.ID, b.now().UTC())
		if err != nil {
			return err
		}
		if !claimed {
			return ErrAlreadyResolved
		}

		available, err = b.ledger.Debit(ctx, tx, req.BloodGroupID, req.UnitsRequired)
		var short *InsufficientStockError
		if errors.As(err, &short) {
			short.BloodType = bloodType
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	req, err := b.store.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err)
	}
	logger.WithCtx(ctx).Info("blood request fulfilled",
		"request_id", req.ID, "blood_type", bloodType,
		"units", req.UnitsRequired, "available", available, "by", actor.UserID)
	event.Fire(EventRequestFulfilled, RequestChanged{Request: *req, BloodType: bloodType, Available: available})
	return req, nil
}

// Cancel moves a pending request to cancelled. Requesters may cancel only
// their own requests; staff and admins may cancel any.
func (b *RequestBroker) Cancel(ctx context.Context, actor Actor, requestID string) (*models.BloodRequest, error) {
	var bloodType string
	err := b.store.Transaction(ctx, func(tx *repositories.Store) error {
		req, err := tx.Requests.FindByID(ctx, requestID)
		if err != nil {
			return notFound(err)
		}
		if !actor.Is(models.RoleStaff, models.RoleAdmin) && req.RequesterID != actor.UserID {
			return ErrForbidden
		}
		if req.Status != models.RequestPending {
			return ErrAlreadyResolved
		}
		if req.BloodGroup != nil {
			bloodType = req.BloodGroup.BloodType
		}
		ok, err := tx.Requests.MarkCancelled(ctx, req.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyResolved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	req, err := b.store.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err)
	}
	logger.WithCtx(ctx).Info("blood request cancelled", "request_id", req.ID, "by", actor.UserID)
	event.Fire(EventRequestCancelled, RequestChanged{Request: *req, BloodType: bloodType})
	return req, nil
}

// ListPending returns pending requests in triage order: most urgent first,
// oldest first within the same urgency.
func (b *RequestBroker) ListPending(ctx context.Context) ([]models.BloodRequest, error) {
	reqs, err := b.store.Requests.Pending(ctx)
	if err != nil {
		return nil, err
	}
	SortTriage(reqs)
	return reqs, nil
}

// SortTriage orders reqs by urgency rank descending, then request date
// ascending, then id.
func SortTriage(reqs []models.BloodRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		ri, rj := reqs[i].Urgency.Rank(), reqs[j].Urgency.Rank()
		if ri != rj {
			return ri > rj
		}
		if !reqs[i].RequestDate.Equal(reqs[j].RequestDate) {
			return reqs[i].RequestDate.Before(reqs[j].RequestDate)
		}
		return reqs[i].ID < reqs[j].ID
	})
}

// ListRequesterRequests returns the actor's own requests, newest first.
func (b *RequestBroker) ListRequesterRequests(ctx context.Context, actor Actor) ([]models.BloodRequest, error) {
	return b.store.Requests.ListByRequester(ctx, actor.UserID)
}

// ListAll returns every request, newest first.
func (b *RequestBroker) ListAll(ctx context.Context) ([]models.BloodRequest, error) {
	return b.store.Requests.All(ctx)
}
