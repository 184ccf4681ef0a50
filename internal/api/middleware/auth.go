package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"smartplanning/backend/pkg/jwt"
	"smartplanning/backend/pkg/redis"
	"smartplanning/backend/pkg/response"
)

// JWTAuth validates the Bearer access token and injects the caller's
// identity into the context. rdb may be nil; the blacklist check is
// then skipped.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "wrong token type")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
			// Redis errors degrade open, same as the rate limiter.
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("team_id", claims.TeamID)
		c.Set("token_jti", claims.ID)
		c.Set("token_expires_at", claims.ExpiresAt.Time)

		c.Next()
	}
}

// RoleAuth allows only the listed roles through. The validation
// workflow mounts it once at the route-group entry, so an
// unauthorized role never reaches any workflow action.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient role")
		c.Abort()
	}
}
