package kernel

import (
	"context"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/pkg/event"
	"github.com/shashiranjanraj/bloodbank/pkg/metrics"
)

// registerListeners keeps the domain metrics current and drops the cached
// dashboard counts whenever one of them changes.
func registerListeners(svc *services.Services) {
	invalidate := func(interface{}) { svc.Dashboard.Invalidate(context.Background()) }

	event.Listen(services.EventUserRegistered, func(interface{}) {
		metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	})
	event.Listen(services.EventUserRegistered, invalidate)
	event.Listen(services.EventUserRoleChanged, invalidate)

	event.Listen(services.EventLoginSucceeded, func(interface{}) {
		metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	})
	event.Listen(services.EventLoginFailed, func(interface{}) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
	})

	event.Listen(services.EventDonationRecorded, func(p interface{}) {
		d, ok := p.(services.DonationRecorded)
		if !ok {
			return
		}
		metrics.DonationUnits.WithLabelValues(d.BloodType).Add(float64(d.Donation.UnitsDonated))
		metrics.InventoryUnits.WithLabelValues(d.BloodType).Set(float64(d.Available))
	})
	event.Listen(services.EventDonationRecorded, invalidate)

	for _, name := range []string{services.EventRequestCreated, services.EventRequestFulfilled, services.EventRequestCancelled} {
		event.Listen(name, func(p interface{}) {
			c, ok := p.(services.RequestChanged)
			if !ok {
				return
			}
			metrics.RequestTransitions.WithLabelValues(string(c.Request.Status), string(c.Request.Urgency)).Inc()
			if c.Request.Status == models.RequestFulfilled {
				metrics.InventoryUnits.WithLabelValues(c.BloodType).Set(float64(c.Available))
			}
		})
		event.Listen(name, invalidate)
	}
}
