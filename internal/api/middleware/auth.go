package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NecoOcean/we-chat-check-in/pkg/jwt"
	"github.com/NecoOcean/we-chat-check-in/pkg/redis"
	"github.com/NecoOcean/we-chat-check-in/pkg/response"
)

// JWTAuth 管理员 JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// 已注销的 Token（JTI 在黑名单中）同样拒绝。rdb 为 nil 时黑名单检查关闭
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
			// Redis 查询失败时放行，注销降级为客户端行为
		}

		// 将管理员身份注入上下文
		c.Set("claims", claims)
		c.Set("admin_id", claims.AdminID)
		c.Set("role", claims.Role)
		c.Set("county_code", claims.CountyCode)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前管理员是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		adminRole := role.(string)
		for _, r := range allowedRoles {
			if adminRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}
