package admin

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/provider"
	"github.com/daishou-next/internal/service"
)

// Handler 管理员侧接口处理器
type Handler struct {
	*provider.Container
}

// New 创建管理员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

var settlementErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrSettlementNotFound, Code: response.CodeNotFound, Msg: "结算单不存在"},
	{Target: service.ErrSettlementStatusInvalid, Code: response.CodeBadRequest, Msg: "仅待结算状态可确认打款"},
}

var orderErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "运单不存在"},
}
