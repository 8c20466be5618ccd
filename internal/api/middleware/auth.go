package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"Waver/internal/core/users"
)

// Context keys for storing caller information
type contextKey string

const UserIDKey contextKey = "user_id"

// BasicAuthMiddleware resolves Basic credentials against the user directory
// and injects the caller's user id into the request context. Account
// management itself lives outside this service; the middleware only turns a
// caller identity into a stable user id.
type BasicAuthMiddleware struct {
	directory users.Directory
}

// NewBasicAuthMiddleware creates a new basic auth middleware
func NewBasicAuthMiddleware(directory users.Directory) *BasicAuthMiddleware {
	return &BasicAuthMiddleware{directory: directory}
}

// RequireAuth ensures the request carries valid credentials.
// If not authenticated, returns 401. If authenticated, injects the user id
// into context.
func (m *BasicAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			writeAuthError(w, "Missing or malformed Authorization header")
			return
		}

		user, err := m.directory.GetByUsername(r.Context(), username)
		if errors.Is(err, users.ErrUserNotFound) {
			writeAuthError(w, "Invalid credentials")
			return
		}
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=lookup_error ip=%s path=%s error=%v",
				r.RemoteAddr, r.URL.Path, err)
			writeAuthError(w, "Invalid credentials")
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			log.Printf("[AUTH_FAILURE] type=bad_password ip=%s path=%s user=%s",
				r.RemoteAddr, r.URL.Path, username)
			writeAuthError(w, "Invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user id from the request context.
// Returns 0 for unauthenticated requests.
func GetUserID(r *http.Request) int64 {
	if id, ok := r.Context().Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

// SetTestUserID injects a user id into a context for testing handlers
// without the middleware
func SetTestUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
