package controllers

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/middleware"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

// fail writes the response for a service error. Anything unrecognised is
// logged and reported as a 500 without its cause.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *services.ValidationError
		short *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields)
	case errors.As(err, &short):
		response.Conflict(w, short.Error(), map[string]interface{}{
			"blood_type": short.BloodType,
			"available":  short.Available,
			"required":   short.Required,
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		response.Conflict(w, err.Error(), map[string]string{"field": "email"})
	case errors.Is(err, services.ErrDuplicateMobile):
		response.Conflict(w, err.Error(), map[string]string{"field": "mobile_no"})
	case errors.Is(err, services.ErrAlreadyResolved):
		response.Conflict(w, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrMissingBloodGroup):
		response.ValidationError(w, map[string]string{"blood_type": err.Error()})
	default:
		logger.WithCtx(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		response.InternalError(w)
	}
}

// actor is the authenticated caller. The auth middleware guarantees claims
// on every route that reaches a controller needing one.
func actor(r *http.Request) services.Actor {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{UserID: claims.UserID, Role: models.Role(claims.Role)}
}
