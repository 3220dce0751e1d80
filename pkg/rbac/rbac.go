// Package rbac gates route groups by the role carried in the access token.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/pkg/auth"
	"github.com/shashiranjanraj/bloodbank/pkg/middleware"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

// Role is any string-backed role enum, such as models.Role.
type Role interface{ ~string }

// HasRole lets the request through when the token's role is one of roles.
// Mount it below middleware.AuthMiddleware; without claims it answers 403.
func HasRole[R Role](roles ...R) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if _, permitted := allowed[role]; !ok || !permitted {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest guards the sign-up and login routes. A request carrying a valid
// access token is refused with 409; a missing or invalid token passes so an
// expired session can still log in again.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := middleware.BearerToken(r); ok {
			if _, err := auth.ValidateToken(token); err == nil {
				response.Error(w, http.StatusConflict, "Already authenticated")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
