package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/bind"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
	"github.com/shashiranjanraj/bloodbank/pkg/router"
)

type RequesterController struct {
	requests *services.RequestBroker
}

func NewRequesterController(svc *services.Services) *RequesterController {
	return &RequesterController{requests: svc.Requests}
}

// Store handles POST /api/requester/requests.
func (c *RequesterController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.RequestInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	req, err := c.requests.CreateRequest(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, req)
}

// Index handles GET /api/requester/requests.
func (c *RequesterController) Index(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.requests.ListRequesterRequests(r.Context(), actor(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, reqs)
}

// Cancel handles POST /api/requester/requests/{id}/cancel.
func (c *RequesterController) Cancel(w http.ResponseWriter, r *http.Request) {
	req, err := c.requests.Cancel(r.Context(), actor(r), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, req)
}
