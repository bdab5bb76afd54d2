package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

const actorContextKey = "auth.actor"

// Middleware authenticates the bearer token and puts the actor on the
// request context. Requests without a valid token are rejected.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		actor, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor placed by Middleware.
func ActorFromContext(c *gin.Context) (programs.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return programs.Actor{}, false
	}
	actor, ok := v.(programs.Actor)
	return actor, ok
}

// RequireRole restricts a route group to the given roles.
func RequireRole(roles ...programs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not allowed to perform this action"})
	}
}
