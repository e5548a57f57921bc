package middleware

import (
	"net/http"

	"camara-formacion/internal/models"
)

// RBACMiddleware handles role-based access control. Roles are carried
// in the validated token, so no lookup is needed per request.
type RBACMiddleware struct{}

// NewRBACMiddleware creates a new RBAC middleware
func NewRBACMiddleware() *RBACMiddleware {
	return &RBACMiddleware{}
}

// RequireRole checks if the actor has the required role
func (m *RBACMiddleware) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return m.RequireAnyRole(role)
}

// RequireAnyRole checks if the actor has any of the required roles
func (m *RBACMiddleware) RequireAnyRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			hasRole := false
			for _, role := range roles {
				if actor.Role == role {
					hasRole = true
					break
				}
			}

			if !hasRole {
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff allows administrators and instructors only
func (m *RBACMiddleware) RequireStaff() func(http.Handler) http.Handler {
	return m.RequireAnyRole(models.RoleAdministrator, models.RoleInstructor)
}
