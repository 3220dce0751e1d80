package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/bind"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

type DonorController struct {
	donations *services.DonationRecorder
}

func NewDonorController(svc *services.Services) *DonorController {
	return &DonorController{donations: svc.Donations}
}

// Store handles POST /api/donor/donations.
func (c *DonorController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.DonationInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	donation, err := c.donations.RecordDonation(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, donation)
}

// Index handles GET /api/donor/donations.
func (c *DonorController) Index(w http.ResponseWriter, r *http.Request) {
	donations, err := c.donations.ListDonorDonations(r.Context(), actor(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, donations)
}
