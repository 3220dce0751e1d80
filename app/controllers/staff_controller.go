package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
	"github.com/shashiranjanraj/bloodbank/pkg/router"
)

// StaffController serves the inventory desk. Admins share the inventory
// view through AdminController.
type StaffController struct {
	ledger    *services.InventoryLedger
	requests  *services.RequestBroker
	donations *services.DonationRecorder
}

func NewStaffController(svc *services.Services) *StaffController {
	return &StaffController{ledger: svc.Ledger, requests: svc.Requests, donations: svc.Donations}
}

// Inventory handles GET /api/staff/inventory.
func (c *StaffController) Inventory(w http.ResponseWriter, r *http.Request) {
	inventory(c.ledger, w, r)
}

// Pending handles GET /api/staff/requests/pending.
func (c *StaffController) Pending(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.requests.ListPending(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, reqs)
}

// Fulfill handles POST /api/staff/requests/{id}/fulfill.
func (c *StaffController) Fulfill(w http.ResponseWriter, r *http.Request) {
	req, err := c.requests.Fulfill(r.Context(), actor(r), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, req)
}

// Cancel handles POST /api/staff/requests/{id}/cancel.
func (c *StaffController) Cancel(w http.ResponseWriter, r *http.Request) {
	req, err := c.requests.Cancel(r.Context(), actor(r), router.Param(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, req)
}

// RecentDonations handles GET /api/staff/donations/recent?limit=n.
func (c *StaffController) RecentDonations(w http.ResponseWriter, r *http.Request) {
	limit := services.RecentDonationsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}

	donations, err := c.donations.RecentDonations(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, donations)
}

func inventory(ledger *services.InventoryLedger, w http.ResponseWriter, r *http.Request) {
	lines, err := ledger.Snapshot(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, lines)
}
