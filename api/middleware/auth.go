package middleware

import (
	"net/http"
	"strings"

	"github.com/modumall/storefront-gateway/api/responses"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

// MemberAuth extracts the member's bearer token and seeds the request
// context with it. The commerce backend owns token verification; this
// gateway only requires a credential to be present so it can pass it
// through.
func MemberAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithMemberToken(r.Context(), token)))
		})
	}
}
