package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pod-service/internal/core/auth"
	resp "pod-service/internal/transport/http/response"
)

// AuthJWT 解析 Bearer token，把 userId / role 写进上下文供 ez 层读取。
// requireRole 非空时整组限定该角色（管理端引擎用）。
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
