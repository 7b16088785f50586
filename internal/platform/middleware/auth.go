package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/platform/auth"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

const (
	contextUserID   = "auth.user_id"
	contextUserRole = "auth.user_role"
	contextActor    = "auth.actor"
)

// ActorResolver builds the capability set for an authenticated user.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uuid.UUID, isAdmin bool) (identity.Actor, error)
}

// AuthMiddleware verifies the bearer token and stores the user identity on
// the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUserRole, claims.Role)
		c.Next()
	}
}

// ActorMiddleware resolves the authenticated user's capability set from the
// profile tables. It must run after AuthMiddleware.
func ActorMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		role, _ := GetUserRole(c)

		actor, err := resolver.ResolveActor(c.Request.Context(), userID, role == auth.RoleAdmin)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(contextActor, actor)
		c.Next()
	}
}

// RequireAdmin aborts requests whose token does not carry the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok || role != auth.RoleAdmin {
			c.JSON(403, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(contextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetUserRole returns the authenticated user's role from the request context.
func GetUserRole(c *gin.Context) (string, bool) {
	value, exists := c.Get(contextUserRole)
	if !exists {
		return "", false
	}
	role, ok := value.(string)
	return role, ok
}

// GetActor returns the resolved capability set from the request context.
func GetActor(c *gin.Context) (identity.Actor, bool) {
	value, exists := c.Get(contextActor)
	if !exists {
		return identity.Actor{}, false
	}
	actor, ok := value.(identity.Actor)
	return actor, ok
}
