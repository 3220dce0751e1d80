package services

import "github.com/shashiranjanraj/bloodbank/app/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   models.Role
}

// Is reports whether the actor holds any of roles.
func (a Actor) Is(roles ...models.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
