// Package middleware provides HTTP middleware for Flashdeck.
package middleware

import (
	"context"
	"log"
	"net/http"

	"flashdeck/internal/auth"
	"flashdeck/internal/jwtauth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// claimsContextKey is the context key for storing verified claims.
const claimsContextKey contextKey = "claims"

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*jwtauth.Claims, error)
}

// GetClaims retrieves the verified claims from the request context.
// Returns nil when the request was not authenticated.
func GetClaims(ctx context.Context) *jwtauth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*jwtauth.Claims)
	return claims
}

// ExternalUserID returns the external identity of the authenticated caller,
// or "" when the request was not authenticated.
func ExternalUserID(ctx context.Context) string {
	claims := GetClaims(ctx)
	if claims == nil {
		return ""
	}
	return claims.ExternalUserID()
}

// WithClaims attaches verified claims to a context. Exported for handler tests.
func WithClaims(ctx context.Context, claims *jwtauth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// RequireUser returns middleware that authenticates requests with the
// provided verifier and attaches the caller's claims to the request context.
//
// Error responses:
//   - 401 Unauthorized: missing/malformed Authorization header or invalid token
func RequireUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r)
			if err != nil {
				auth.WriteUnauthorized(w)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Printf("token verification failed: %v", err)
				auth.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
