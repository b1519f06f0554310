package auth

import (
	"net/http"
	"strings"

	"github.com/AutoDealHub/AutoDealHub/internal/common/config"
	"github.com/gin-gonic/gin"
)

const claimsContextKey = "auth_claims"

// Middleware 从 `Authorization: Bearer <token>` 解析 JWT 并把 Claims 放进请求上下文。
// cfg.Enabled 为 false 时直接放行（本地联调）。
func Middleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		tokenStr := strings.TrimSpace(raw)
		if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
			tokenStr = strings.TrimSpace(tokenStr[len("bearer "):])
		}

		claims, err := VerifyToken(cfg, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole 在 Middleware 之后使用，要求 token 带指定角色。
func RequireRole(cfg config.AuthConfig, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}
		claims := FromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		if !claims.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

// FromContext 取出当前请求的鉴权信息，未鉴权时返回 nil。
func FromContext(c *gin.Context) *Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// SubjectFromContext 取当前请求的用户 id；鉴权关闭时为空串。
func SubjectFromContext(c *gin.Context) string {
	if claims := FromContext(c); claims != nil {
		return claims.Subject
	}
	return ""
}
