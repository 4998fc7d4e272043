package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/keygateio/keygate/pkg/slogx"
	"github.com/keygateio/keygate/pkg/tokenx"
)

// AuthnMiddleware authenticates requests with a bearer session token.
// Pending second-factor tokens are rejected here: their purpose claim is
// not "session", and purpose isolation is the whole point of the claim.
func AuthnMiddleware(tokens *tokenx.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			if !tokens.IsValid(raw) {
				log.Warn("session token rejected")
				writeBearerError(w, "invalid or expired token")
				return
			}
			if !tokens.IsPurpose(raw, tokenx.PurposeSession) {
				log.Warn("non-session token presented as bearer")
				writeBearerError(w, "invalid or expired token")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				writeBearerError(w, "invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUsername, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
