package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/movielist/movielist-go/internal/crypto"
	"github.com/movielist/movielist-go/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// Identity attaches the caller's identity to the request context when
// a valid bearer token is present. It never rejects: requests without
// a token, or with a bad one, continue unauthenticated and the route's
// own guards decide what that means.
func Identity(codec *crypto.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.VerifyAccess(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, &claims.UserClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user's claims from the
// request context.
func UserFromContext(ctx context.Context) (*model.UserClaims, bool) {
	claims, ok := ctx.Value(userContextKey).(*model.UserClaims)
	return claims, ok
}

// RequireUser rejects requests that carry no authenticated identity.
// It runs after Identity and only checks the context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden: User not authenticated"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
