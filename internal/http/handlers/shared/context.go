package shared

import (
	"github.com/daishou-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey 认证中间件写入的用户 ID 键
const ContextUserIDKey = "user_id"

// ContextUserRoleKey 认证中间件写入的角色键
const ContextUserRoleKey = "user_role"

// CurrentUserID 从上下文读取当前用户 ID，缺失时返回 401
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "未登录", nil)
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "用户标识非法", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "用户标识非法", nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "用户标识类型错误", nil)
		return 0, false
	}
}

// CurrentUserRole 从上下文读取当前用户角色
func CurrentUserRole(c *gin.Context) string {
	value, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return ""
	}
	if role, ok := value.(string); ok {
		return role
	}
	return ""
}
