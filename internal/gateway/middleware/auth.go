package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/utils"
)

const (
	SessionKey     = "session"
	denylistPrefix = "auth:denylist:"
)

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// JWTAuth validates the bearer token, rejects denylisted (logged-out)
// tokens and places the caller's session in the request context.
func JWTAuth(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "missing bearer token",
			})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		if rdb != nil && claims.ID != "" {
			if n, err := rdb.Exists(c.Request.Context(), denylistPrefix+claims.ID).Result(); err == nil && n > 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "token has been revoked",
				})
				return
			}
		}

		c.Set(SessionKey, &store.Session{
			UserID:   claims.UserId,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// SessionFrom extracts the authenticated session placed by JWTAuth.
func SessionFrom(c *gin.Context) *store.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*store.Session); ok {
			return sess
		}
	}
	return nil
}

// DenylistKey builds the redis key used to revoke a token on logout.
func DenylistKey(jti string) string {
	return denylistPrefix + jti
}
