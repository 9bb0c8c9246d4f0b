package shared

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ErrorRule 业务错误到接口错误响应的映射关系。
type ErrorRule struct {
	Target error
	Code   int
	Msg    string
}

// RespondMappedError 按映射规则返回业务错误，未命中时走兜底响应。
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Msg, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackMsg, err)
}
