package middleware

import (
	"net/http"
	"strings"

	"github.com/Mieluoxxx/aiconfig-hub/internal/api/handlers"
	"github.com/Mieluoxxx/aiconfig-hub/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context 中保存的鉴权信息
const (
	ContextKeyRole    = "auth_role"
	ContextKeySubject = "auth_subject"
)

// RoleAuthMiddleware JWT 角色验证中间件
// manager 为 nil 时不做鉴权；roles 为允许访问的角色
func RoleAuthMiddleware(manager *auth.Manager, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		// 1. 提取 Authorization 头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handlers.AbortWithFail(c, http.StatusUnauthorized, "未登录", "missing authorization header")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			handlers.AbortWithFail(c, http.StatusUnauthorized, "未登录", "invalid authorization format, expected: Bearer <token>")
			return
		}

		// 3. 验证 Token
		claims, err := manager.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			handlers.AbortWithFail(c, http.StatusUnauthorized, "登录已失效", err.Error())
			return
		}

		// 4. 校验角色
		if _, ok := allowed[claims.Role]; !ok {
			handlers.AbortWithFail(c, http.StatusForbidden, "无权限访问", "role "+claims.Role+" is not allowed")
			return
		}

		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// GetRole 获取当前请求的角色
func GetRole(c *gin.Context) (string, bool) {
	role := c.GetString(ContextKeyRole)
	return role, role != ""
}
