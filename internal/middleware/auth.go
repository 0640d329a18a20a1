package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sobran5883/tasks-management-dashboard/internal/auth"
	"github.com/sobran5883/tasks-management-dashboard/internal/models"
	"github.com/sobran5883/tasks-management-dashboard/internal/repository"
)

const userKey contextKey = "user"

// Auth resolves the session cookie to a user and stores it in the request
// context. Requests without a valid cookie get 401.
func Auth(secret string, users repository.UserRepository, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				unauthorized(w, "not authorized, try logging in again")
				return
			}

			userID, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				unauthorized(w, "not authorized, try logging in again")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"request_id": GetRequestID(r.Context()),
					"user_id":    userID.Hex(),
				}).Warn("session names unknown user")
				unauthorized(w, "not authorized, try logging in again")
				return
			}
			if !user.IsActive {
				unauthorized(w, "account has been deactivated, contact an administrator")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identify resolves the session cookie when one is present but lets the
// request through either way. Routes that accept both anonymous and
// authenticated callers use this instead of Auth.
func Identify(secret string, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(auth.CookieName); err == nil {
				if userID, err := auth.ParseToken(secret, cookie.Value); err == nil {
					if user, err := users.GetByID(r.Context(), userID); err == nil && user.IsActive {
						r = r.WithContext(context.WithValue(r.Context(), userKey, user))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated user stored by Auth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser stores a user in the context. Test helper for handlers that run
// without the full middleware chain.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"status": false, "message": msg})
}
