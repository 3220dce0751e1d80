package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

func TestFulfillInsufficientStockIsNoop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	staff := e.register(t, models.RoleStaff, "")
	requester := e.register(t, models.RoleRequester, "")
	groupID := e.stock(t, "O+", 1)

	req, err := e.requests.CreateRequest(ctx, requester, RequestInput{BloodType: "O+", UnitsRequired: 5})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyNormal, req.Urgency)

	_, err = e.requests.Fulfill(ctx, staff, req.ID)
	var short *InsufficientStockError
	require.True(t, errors.As(err, &short), "got %v", err)
	assert.Equal(t, 1, short.Available)
	assert.Equal(t, 5, short.Required)
	assert.Equal(t, "O+", short.BloodType)

	after, err := e.store.Requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, after.Status)
	assert.Nil(t, after.FulfilledDate)
	assert.Equal(t, 1, e.available(t, groupID))
}

func TestFulfillDebitsAndResolves(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	staff := e.register(t, models.RoleStaff, "")
	requester := e.register(t, models.RoleRequester, "")
	groupID := e.stock(t, "B+", 3)

	req, err := e.requests.CreateRequest(ctx, requester, RequestInput{BloodType: "b+", UnitsRequired: 2, Urgency: "Urgent", HospitalName: "City"})
	require.NoError(t, err)

	done, err := e.requests.Fulfill(ctx, staff, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestFulfilled, done.Status)
	require.NotNil(t, done.FulfilledDate)
	assert.True(t, done.FulfilledDate.Equal(e.now))
	assert.Equal(t, 1, e.available(t, groupID))

	_, err = e.requests.Fulfill(ctx, staff, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, 1, e.available(t, groupID))

	_, err = e.requests.Fulfill(ctx, staff, "RQ9999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.requests.Fulfill(ctx, requester, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConcurrentFulfilmentsNeverOverspend(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	staff := e.register(t, models.RoleStaff, "")
	requester := e.register(t, models.RoleRequester, "")
	groupID := e.stock(t, "A+", 5)

	var ids []string
	for i := 0; i < 10; i++ {
		req, err := e.requests.CreateRequest(ctx, requester, RequestInput{BloodType: "A+", UnitsRequired: 1})
		require.NoError(t, err)
		ids = append(ids, req.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		fulfilled int
		short     int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.requests.Fulfill(ctx, staff, id)
			mu.Lock()
			defer mu.Unlock()
			var s *InsufficientStockError
			switch {
			case err == nil:
				fulfilled++
			case errors.As(err, &s):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 5, fulfilled)
	assert.Equal(t, 5, short)
	assert.Equal(t, 0, e.available(t, groupID))
}

func TestCreateRequestValidation(t *testing.T) {
	e := newEnv(t)
	requester := e.register(t, models.RoleRequester, "")
	donor := e.register(t, models.RoleDonor, "O+")

	for _, in := range []RequestInput{
		{BloodType: "O+", UnitsRequired: 0},
		{BloodType: "O+", UnitsRequired: 11},
		{BloodType: "O+", UnitsRequired: 1, Urgency: "asap"},
		{BloodType: "Z", UnitsRequired: 1},
		{UnitsRequired: 1},
	} {
		_, err := e.requests.CreateRequest(context.Background(), requester, in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "%+v: %v", in, err)
	}

	_, err := e.requests.CreateRequest(context.Background(), donor, RequestInput{BloodType: "O+", UnitsRequired: 1})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTriageOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	requester := e.register(t, models.RoleRequester, "")

	file := func(day int, urgency string) string {
		e.now = time.Date(2024, 1, day, 8, 0, 0, 0, time.UTC)
		req, err := e.requests.CreateRequest(ctx, requester, RequestInput{BloodType: "O+", UnitsRequired: 1, Urgency: urgency})
		require.NoError(t, err)
		return req.ID
	}
	urgent := file(1, "urgent")
	critical := file(2, "critical")
	normalOld := file(1, "normal")
	normalNew := file(3, "")
	urgentNew := file(4, "urgent")

	pending, err := e.requests.ListPending(ctx)
	require.NoError(t, err)

	var got []string
	for _, r := range pending {
		got = append(got, r.ID)
	}
	assert.Equal(t, []string{critical, urgent, urgentNew, normalOld, normalNew}, got)
}

func TestSortTriageTieBreaks(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reqs := []models.BloodRequest{
		{ID: "RQ0003", Urgency: models.UrgencyNormal, RequestDate: day},
		{ID: "RQ0002", Urgency: models.UrgencyCritical, RequestDate: day.Add(time.Hour)},
		{ID: "RQ0001", Urgency: models.UrgencyNormal, RequestDate: day},
		{ID: "RQ0004", Urgency: models.UrgencyCritical, RequestDate: day},
	}
	SortTriage(reqs)
	assert.Equal(t, "RQ0004", reqs[0].ID)
	assert.Equal(t, "RQ0002", reqs[1].ID)
	assert.Equal(t, "RQ0001", reqs[2].ID)
	assert.Equal(t, "RQ0003", reqs[3].ID)
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, models.RoleRequester, "")
	other := e.register(t, models.RoleRequester, "")
	staff := e.register(t, models.RoleStaff, "")

	req, err := e.requests.CreateRequest(ctx, owner, RequestInput{BloodType: "AB+", UnitsRequired: 1})
	require.NoError(t, err)

	_, err = e.requests.Cancel(ctx, other, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := e.requests.Cancel(ctx, owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, cancelled.Status)

	_, err = e.requests.Cancel(ctx, staff, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	_, err = e.requests.Fulfill(ctx, staff, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	pending, err := e.requests.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	mine, err := e.requests.ListRequesterRequests(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := e.requests.ListRequesterRequests(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := e.requests.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.RequestCancelled, all[0].Status)
}
