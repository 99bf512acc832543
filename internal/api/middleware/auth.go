package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/api/handler"
	"github.com/d60-Lab/marketplace/pkg/auth"
	"github.com/d60-Lab/marketplace/pkg/response"
)

// Auth 解析 Bearer 令牌，把用户ID与角色写入上下文。
// required 为 false 时没有令牌的请求照常放行，但带了无效令牌仍然拒绝。
func Auth(tokens *auth.TokenManager, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				response.Unauthorized(c, "missing token")
				return
			}
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "invalid token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		userID, err := claims.UserID()
		if err != nil || userID <= 0 {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(handler.ContextUserID, userID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole 必须携带令牌且角色在 roles 中
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.Unauthorized(c, "missing token")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Role not permitted")
	}
}
