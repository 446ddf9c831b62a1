package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-frontdesk/pkg/jwt"
	"clinic-frontdesk/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	StaffIDKey contextKey = "staff_id"
	RoleKey    contextKey = "role"
	TokenIDKey contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
}

func NewAuthMiddleware(jwtService *jwt.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate admits requests carrying a valid staff bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.Role != jwt.RoleStaff {
			response.Forbidden(w, "You don't have permission to access this resource")
			return
		}

		ctx := WithStaff(r.Context(), claims.StaffID, claims.Role)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithStaff stores the acting staff member in ctx.
func WithStaff(ctx context.Context, staffID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, staffID)
	return context.WithValue(ctx, RoleKey, role)
}

// GetStaffIDFromContext extracts the acting staff member's ID from context
func GetStaffIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	staffID, ok := ctx.Value(StaffIDKey).(uuid.UUID)
	return staffID, ok
}

// GetRoleFromContext extracts the role from context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
