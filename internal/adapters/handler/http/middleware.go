package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vunes/poll/internal/core/ports"
)

type contextKey string

// UserIDKey carries the authenticated caller's id through the request context.
const UserIDKey contextKey = "userID"

// Authenticator verifies the bearer token and stores the subject user id in
// the context. Missing or invalid credentials end the request with 401.
func Authenticator(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "no token provided")
				return
			}

			userID, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
