// Package routes maps the JSON API onto the controllers.
package routes

import (
	"github.com/shashiranjanraj/bloodbank/app/controllers"
	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/middleware"
	"github.com/shashiranjanraj/bloodbank/pkg/rbac"
	"github.com/shashiranjanraj/bloodbank/pkg/router"
)

func RegisterAPI(r *router.Router, svc *services.Services) {
	authController := controllers.NewAuthController(svc)
	profileController := controllers.NewProfileController(svc)
	donorController := controllers.NewDonorController(svc)
	requesterController := controllers.NewRequesterController(svc)
	staffController := controllers.NewStaffController(svc)
	adminController := controllers.NewAdminController(svc)

	api := r.Group("/api")

	guest := api.Group("/auth", rbac.Guest)
	guest.Post("/register", "auth.register", authController.Register)
	guest.Post("/login", "auth.login", authController.Login)

	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/blood-groups", "blood_groups.index", profileController.BloodGroups)
	protected.Get("/me", "profile.show", profileController.Show)
	protected.Put("/me", "profile.update", profileController.Update)

	donor := protected.Group("/donor", rbac.HasRole(models.RoleDonor))
	donor.Post("/donations", "donor.donations.store", donorController.Store)
	donor.Get("/donations", "donor.donations.index", donorController.Index)

	requester := protected.Group("/requester", rbac.HasRole(models.RoleRequester))
	requester.Post("/requests", "requester.requests.store", requesterController.Store)
	requester.Get("/requests", "requester.requests.index", requesterController.Index)
	requester.Post("/requests/{id}/cancel", "requester.requests.cancel", requesterController.Cancel)

	staff := protected.Group("/staff", rbac.HasRole(models.RoleStaff, models.RoleAdmin))
	staff.Get("/inventory", "staff.inventory", staffController.Inventory)
	staff.Get("/requests/pending", "staff.requests.pending", staffController.Pending)
	staff.Post("/requests/{id}/fulfill", "staff.requests.fulfill", staffController.Fulfill)
	staff.Post("/requests/{id}/cancel", "staff.requests.cancel", staffController.Cancel)
	staff.Get("/donations/recent", "staff.donations.recent", staffController.RecentDonations)

	admin := protected.Group("/admin", rbac.HasRole(models.RoleAdmin))
	admin.Get("/users", "admin.users.index", adminController.Users)
	admin.Put("/users/{id}/role", "admin.users.role", adminController.ChangeRole)
	admin.Get("/inventory", "admin.inventory", adminController.Inventory)
	admin.Get("/requests", "admin.requests.index", adminController.Requests)
	admin.Get("/stats", "admin.stats", adminController.Stats)
}
