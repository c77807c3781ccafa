package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/auth"
)

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := &domain.User{
				ID:       claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			}

			ctx := domain.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			switch minRole {
			case domain.RoleAdmin:
				if user.Role != domain.RoleAdmin {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleOperator:
				// Admins can do everything operators can.
				if user.Role != domain.RoleAdmin && user.Role != domain.RoleOperator {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	return domain.UserFromContext(ctx)
}
