package middleware

import (
	"net/http"

	"github.com/chylers/storefront-api/api/responses"
	"github.com/chylers/storefront-api/pkg/enums"
	pkgerrors "github.com/chylers/storefront-api/pkg/errors"
	"github.com/chylers/storefront-api/pkg/logger"
)

// RequireRole must run after Auth. Admin-only routes answer 403 to customers.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(role) {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithField(ctx, "required_role", string(role))
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "not enough permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
