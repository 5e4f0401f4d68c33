package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"activities-be/internal/domain"
	"activities-be/internal/service"
	"activities-be/pkg/errors"
	"activities-be/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for the authenticated user in context
	UserContextKey ContextKey = "user"
)

// Auth rejects requests without a valid bearer token and puts the resolved
// user on the request context.
func Auth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, appErr := authenticate(r, authService)
			if appErr != nil {
				writeErrorResponse(w, appErr, logger)
				return
			}
			if user == nil {
				writeErrorResponse(w, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a bearer token when one is present and continues
// anonymously otherwise. A present-but-invalid token is still rejected.
func OptionalAuth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, appErr := authenticate(r, authService)
			if appErr != nil {
				writeErrorResponse(w, appErr, logger)
				return
			}
			if user != nil {
				ctx := context.WithValue(r.Context(), UserContextKey, user)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserContextKey).(*domain.User)
	return user
}

// authenticate extracts and validates the bearer token. Returns nil, nil when
// no Authorization header is present.
func authenticate(r *http.Request, authService service.AuthService) (*domain.User, *errors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.NewAuthenticationError("Invalid authorization header format")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return nil, errors.NewAuthenticationError("Token is required")
	}

	user, err := authService.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	return user, nil
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Debug("Request rejected")

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(response)
}
