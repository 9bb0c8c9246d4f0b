package shipper

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/provider"
	"github.com/daishou-next/internal/service"
)

// Handler 配送员侧接口处理器
type Handler struct {
	*provider.Container
}

// New 创建配送员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

var orderErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "运单不存在"},
	{Target: service.ErrOrderAccessDenied, Code: response.CodeForbidden, Msg: "运单已由其他配送员负责"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Msg: "运单状态不允许该操作"},
	{Target: service.ErrOrderValidation, Code: response.CodeBadRequest, Msg: "请求参数不合法"},
}

var settlementErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Msg: "配送员账号不存在"},
	{Target: service.ErrLedgerAlreadySettled, Code: response.CodeConflict, Msg: "部分台账已被其他结算单捕获，请重试"},
	{Target: service.ErrSettlementNotFound, Code: response.CodeNotFound, Msg: "结算单不存在"},
}
