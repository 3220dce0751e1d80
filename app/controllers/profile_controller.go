package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/bind"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

// ProfileController serves endpoints open to every signed-in role.
type ProfileController struct {
	users  *services.UserService
	groups *services.BloodGroupService
}

func NewProfileController(svc *services.Services) *ProfileController {
	return &ProfileController{users: svc.Users, groups: svc.BloodGroups}
}

// BloodGroups handles GET /api/blood-groups.
func (c *ProfileController) BloodGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := c.groups.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, groups)
}

// Show handles GET /api/me.
func (c *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := c.users.Profile(r.Context(), actor(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Update handles PUT /api/me.
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := c.users.UpdateProfile(r.Context(), actor(r), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}
