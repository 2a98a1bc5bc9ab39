package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kharelpawan/uaebackend/internal/auth"
	"github.com/kharelpawan/uaebackend/internal/model"
)

type contextKeyAuth string

// AuthClaimsKey is the context key for the verified admin claims.
const AuthClaimsKey contextKeyAuth = "auth_claims"

// RequireAdmin returns an HTTP middleware gating protected routes. It
// extracts the bearer token from the Authorization header, verifies it,
// and attaches the decoded claims to the request context. Every failure
// kind maps to the same 401 response; the specific kind only surfaces in
// the access log via the auth_reason field.
func RequireAdmin(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			claims, err := authSvc.VerifyToken(token)
			if err != nil {
				setAuthReason(r.Context(), gateReason(err))
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			setAdminID(r.Context(), claims.AdminID)
			ctx := context.WithValue(r.Context(), AuthClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts the verified admin claims from the context. Returns
// nil if the request did not pass the gate.
func GetClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(AuthClaimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

// bearerToken extracts the token from an "Authorization: Bearer ..."
// header. Returns empty string when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func gateReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "missing"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	default:
		return "invalid"
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{Code: status, Message: message},
	})
}
