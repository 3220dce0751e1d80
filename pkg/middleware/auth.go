package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bloodbank/pkg/auth"
	"github.com/shashiranjanraj/bloodbank/pkg/logger"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

type claimsKey struct{}

// AuthMiddleware validates the Bearer token and stores its claims in the
// request context. The request logger is tagged with the user id.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		noteUser(r.Context(), claims.UserID)
		ctx := WithClaims(r.Context(), claims)
		ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromCtx returns the claims stored by AuthMiddleware.
func ClaimsFromCtx(r *http.Request) (*auth.Claims, bool) {
	c, ok := r.Context().Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := ClaimsFromCtx(r)
	if !ok {
		return "", false
	}
	return c.Role, true
}
