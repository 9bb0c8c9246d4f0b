package shop

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSettlements 商家分页查询自己的结算单
func (h *Handler) ListSettlements(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)

	settlements, total, err := h.SettlementService.ListSettlements(repository.SettlementListFilter{
		Page:     page,
		PageSize: pageSize,
		ShopID:   shopID,
		Status:   c.Query("status"),
	})
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询结算单失败", err)
		return
	}
	response.SuccessWithPage(c, settlements, response.NewPagination(page, pageSize, total))
}

// GetSettlement 商家查询结算单详情及台账明细
func (h *Handler) GetSettlement(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	settlementID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "结算单 ID 非法", nil)
		return
	}
	settlement, err := h.SettlementService.GetSettlement(settlementID)
	if err != nil {
		handlershared.RespondMappedError(c, err, settlementErrorRules, response.CodeInternal, "查询结算单失败")
		return
	}
	if settlement.ShopID != shopID {
		handlershared.RespondError(c, response.CodeForbidden, "无权查看该结算单", nil)
		return
	}
	ledgers, err := h.SettlementService.ListSettlementLedgers(settlementID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询结算明细失败", err)
		return
	}
	response.Success(c, gin.H{
		"settlement": settlement,
		"ledgers":    ledgers,
	})
}

// ConfirmSettlement 商家确认收款
func (h *Handler) ConfirmSettlement(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	settlementID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "结算单 ID 非法", nil)
		return
	}
	// 归属校验在入口做，确认动作本身不设状态守卫
	existing, err := h.SettlementService.GetSettlement(settlementID)
	if err != nil {
		handlershared.RespondMappedError(c, err, settlementErrorRules, response.CodeInternal, "查询结算单失败")
		return
	}
	if existing.ShopID != shopID {
		handlershared.RespondError(c, response.CodeForbidden, "无权确认该结算单", nil)
		return
	}
	settlement, err := h.SettlementService.ShopConfirmSettlement(settlementID)
	if err != nil {
		handlershared.RespondMappedError(c, err, settlementErrorRules, response.CodeInternal, "确认结算单失败")
		return
	}
	response.Success(c, settlement)
}

// Balance 商家与配送员之间的未结算余额
func (h *Handler) Balance(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	balance, err := h.LedgerService.Balance(shopID, 0)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询余额失败", err)
		return
	}
	response.Success(c, balance)
}

// Dashboard 商家工作台
func (h *Handler) Dashboard(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	stats, err := h.DashboardService.ShopStats(shopID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询工作台失败", err)
		return
	}
	response.Success(c, stats)
}

// Report 商家对账报表
func (h *Handler) Report(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	from, to, ok := handlershared.QueryTimeRange(c)
	if !ok {
		return
	}
	report, err := h.ReportService.ReconciliationReport(shopID, 0, from, to)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "生成对账报表失败", err)
		return
	}
	response.Success(c, report)
}
