package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/bind"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
	"github.com/shashiranjanraj/bloodbank/pkg/router"
)

type AdminController struct {
	users     *services.UserService
	ledger    *services.InventoryLedger
	requests  *services.RequestBroker
	dashboard *services.DashboardService
}

func NewAdminController(svc *services.Services) *AdminController {
	return &AdminController{
		users:     svc.Users,
		ledger:    svc.Ledger,
		requests:  svc.Requests,
		dashboard: svc.Dashboard,
	}
}

type roleInput struct {
	Role string `json:"role"`
}

// Users handles GET /api/admin/users.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, users)
}

// ChangeRole handles PUT /api/admin/users/{id}/role.
func (c *AdminController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var in roleInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := c.users.ChangeRole(r.Context(), actor(r), router.Param(r, "id"), in.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Inventory handles GET /api/admin/inventory.
func (c *AdminController) Inventory(w http.ResponseWriter, r *http.Request) {
	inventory(c.ledger, w, r)
}

// Requests handles GET /api/admin/requests.
func (c *AdminController) Requests(w http.ResponseWriter, r *http.Request) {
	reqs, err := c.requests.ListAll(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, reqs)
}

// Stats handles GET /api/admin/stats.
func (c *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, stats)
}
