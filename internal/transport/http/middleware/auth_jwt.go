package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/auth"
)

const keyClaims = "claims"

// RequireToken verifies the bearer token and stashes the claims. Token
// problems answer 403 so clients treat them as a dead session.
func RequireToken(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No token provided"})
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Failed to authenticate token"})
			return
		}
		c.Set(keyClaims, claims)
		c.Next()
	}
}

// RequireRole terminates the request unless the authenticated role passes
// pred. Runs after RequireToken; no repository work happens on failure.
func RequireRole(pred func(role string) bool, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || !pred(claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// Claims returns the verified token claims, or nil on unauthenticated routes.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(keyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// Actor converts the request identity into an audit actor.
func Actor(c *gin.Context) audit.Actor {
	claims := Claims(c)
	if claims == nil {
		return audit.Actor{}
	}
	uid := claims.UID
	return audit.Actor{ID: &uid, Username: claims.Username}
}
