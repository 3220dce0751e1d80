package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bloodbank/app/models"
)

// RequestRepository handles database operations for BloodRequest.
type RequestRepository struct {
	db *gorm.DB
}

func (r *RequestRepository) Create(ctx context.Context, req *models.BloodRequest) error {
	return translate(r.db.WithContext(ctx).Omit("Requester", "BloodGroup").Create(req).Error, "request: create")
}

// FindByID loads a request with its blood group and requester.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.BloodRequest, error) {
	var req models.BloodRequest
	err := r.db.WithContext(ctx).Preload("BloodGroup").Preload("Requester").
		First(&req, "request_id = ?", id).Error
	if err != nil {
		return nil, translate(err, "request: find")
	}
	return &req, nil
}

// MarkFulfilled moves a pending request to fulfilled. It returns false when
// the request was no longer pending.
func (r *RequestRepository) MarkFulfilled(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.transition(ctx, id, map[string]interface{}{
		"status":         models.RequestFulfilled,
		"fulfilled_date": at,
	})
}

// MarkCancelled moves a pending request to cancelled. It returns false when
// the request was no longer pending.
func (r *RequestRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	return r.transition(ctx, id, map[string]interface{}{"status": models.RequestCancelled})
}

func (r *RequestRepository) transition(ctx context.Context, id string, values map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Where("request_id = ? AND status = ?", id, models.RequestPending).
		Updates(values)
	if res.Error != nil {
		return false, translate(res.Error, "request: transition")
	}
	return res.RowsAffected == 1, nil
}

// Pending returns pending requests oldest first.
func (r *RequestRepository) Pending(ctx context.Context) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	err := r.db.WithContext(ctx).Preload("BloodGroup").Preload("Requester").
		Where("status = ?", models.RequestPending).
		Order("request_date ASC, request_id ASC").
		Find(&out).Error
	return out, translate(err, "request: pending")
}

// ListByRequester returns the requester's requests, newest first.
func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	err := r.db.WithContext(ctx).Preload("BloodGroup").
		Where("requester_id = ?", requesterID).
		Order("request_date DESC, request_id DESC").
		Find(&out).Error
	return out, translate(err, "request: list by requester")
}

// All returns every request, newest first.
func (r *RequestRepository) All(ctx context.Context) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	err := r.db.WithContext(ctx).Preload("BloodGroup").Preload("Requester").
		Order("request_date DESC, request_id DESC").
		Find(&out).Error
	return out, translate(err, "request: all")
}

// CountByStatus returns the number of requests per status.
func (r *RequestRepository) CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error) {
	var rows []struct {
		Status models.RequestStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.BloodRequest{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "request: count by status")
	}
	out := make(map[models.RequestStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
