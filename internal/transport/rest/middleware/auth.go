package middleware

import (
	"context"
	"net/http"
	"strings"

	"formpulse/internal/model"
)

type contextKey string

const CreatorIDKey contextKey = "creatorId"

// TokenValidator resolves a bearer token to the creator it was issued for
type TokenValidator interface {
	ValidateToken(token string) (*model.CreatorClaims, error)
}

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	tokens TokenValidator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireCreator validates the creator JWT from the Authorization header
func (m *AuthMiddleware) RequireCreator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractBearerToken(r)
		if token == "" {
			unauthorized(w, "Authentication required")
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), CreatorIDKey, claims.CreatorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCreatorID extracts creator ID from context
func GetCreatorID(ctx context.Context) string {
	if v, ok := ctx.Value(CreatorIDKey).(string); ok {
		return v
	}
	return ""
}

// WithCreatorID returns a context carrying creatorID, as RequireCreator does
func WithCreatorID(ctx context.Context, creatorID string) context.Context {
	return context.WithValue(ctx, CreatorIDKey, creatorID)
}

// ExtractBearerToken returns the token from "Authorization: Bearer <token>"
func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
