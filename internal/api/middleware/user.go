package middleware

import (
	"context"
	"net/http"
)

const UserIDKey contextKey = "user_id"

// UserContext copies the optional caller identity header into the request
// context. The identifier is opaque: it is never authenticated here, only
// threaded through for personalization and logging.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			userID = r.URL.Query().Get("user_id")
		}

		if userID != "" {
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the caller identity from context, or "" for anonymous.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}
