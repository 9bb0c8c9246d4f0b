package shared

import (
	"time"

	"github.com/daishou-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// QueryTimeRange 解析 from/to 查询参数（RFC3339 或 2006-01-02），非法时返回 400。
func QueryTimeRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return nil, nil, false
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return nil, nil, false
	}
	return from, to, true
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	RespondError(c, response.CodeBadRequest, "时间参数格式错误", nil)
	return nil, false
}
