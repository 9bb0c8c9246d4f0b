package shipper

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// RequestSettlement 发起结算申请，按商家分组生成结算单
func (h *Handler) RequestSettlement(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	settlements, err := h.SettlementService.RequestSettlement(shipperID)
	if err != nil {
		handlershared.RespondMappedError(c, err, settlementErrorRules, response.CodeInternal, "发起结算失败")
		return
	}
	if len(settlements) == 0 {
		response.SuccessWithMsg(c, "当前没有可结算的台账", []interface{}{})
		return
	}
	response.Success(c, settlements)
}

// ListSettlements 配送员分页查询自己的结算单
func (h *Handler) ListSettlements(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)

	settlements, total, err := h.SettlementService.ListSettlements(repository.SettlementListFilter{
		Page:      page,
		PageSize:  pageSize,
		ShipperID: shipperID,
		Status:    c.Query("status"),
	})
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询结算单失败", err)
		return
	}
	response.SuccessWithPage(c, settlements, response.NewPagination(page, pageSize, total))
}

// GetSettlement 配送员查询自己的结算单详情及台账明细
func (h *Handler) GetSettlement(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
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
	if settlement.ShipperID != shipperID {
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

// Balance 配送员未结算余额
func (h *Handler) Balance(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	balance, err := h.LedgerService.Balance(0, shipperID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询余额失败", err)
		return
	}
	response.Success(c, balance)
}

// Dashboard 配送员工作台
func (h *Handler) Dashboard(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	stats, err := h.DashboardService.ShipperStats(shipperID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询工作台失败", err)
		return
	}
	response.Success(c, stats)
}
