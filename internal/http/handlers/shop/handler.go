package shop

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/provider"
	"github.com/daishou-next/internal/service"
)

// Handler 商家侧接口处理器
type Handler struct {
	*provider.Container
}

// New 创建商家处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

var orderErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "运单不存在"},
	{Target: service.ErrOrderAccessDenied, Code: response.CodeForbidden, Msg: "无权操作该运单"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Msg: "运单状态不允许该操作"},
	{Target: service.ErrOrderValidation, Code: response.CodeBadRequest, Msg: "运单字段缺失或不合法"},
	{Target: service.ErrOrderCodeExhausted, Code: response.CodeInternal, Msg: "运单编号生成失败，请重试"},
	{Target: service.ErrUserNotFound, Code: response.CodeBadRequest, Msg: "指定的配送员不存在"},
}

var settlementErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrSettlementNotFound, Code: response.CodeNotFound, Msg: "结算单不存在"},
	{Target: service.ErrSettlementStatusInvalid, Code: response.CodeBadRequest, Msg: "结算单状态不允许该操作"},
}
