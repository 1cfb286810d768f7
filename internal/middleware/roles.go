package middleware

import (
	"net/http"

	"blogplatform/internal/reqctx"
	"blogplatform/internal/utils/helpers"
)

func OnlyRole(role string) func(http.Handler) http.Handler {
	return AnyRole(role)
}

func AnyRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{})
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := reqctx.Actor(r.Context())
			if !actor.IsAuthenticated() {
				helpers.Fail(w, http.StatusUnauthorized, "Access token is required")
				return
			}
			if _, found := roleSet[actor.Role]; !found {
				helpers.Fail(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
