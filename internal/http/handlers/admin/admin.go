package admin

import (
	"strconv"
	"strings"

	"github.com/daishou-next/internal/constants"
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 管理员分页查询全部运单
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	from, to, ok := handlershared.QueryTimeRange(c)
	if !ok {
		return
	}

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderCode:   strings.TrimSpace(c.Query("order_code")),
		CreatedFrom: from,
		CreatedTo:   to,
	}
	if raw := c.Query("shop_id"); raw != "" {
		if shopID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ShopID = uint(shopID)
		}
	}
	if raw := c.Query("shipper_id"); raw != "" {
		if shipperID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ShipperID = uint(shipperID)
		}
	}
	if raw := c.Query("status"); strings.TrimSpace(raw) != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				filter.Statuses = append(filter.Statuses, strings.ToUpper(trimmed))
			}
		}
	}

	orders, total, err := h.OrderService.ListAllOrders(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询运单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 管理员查询任意运单
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(userID, constants.RoleAdmin, orderID)
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "查询运单失败")
		return
	}
	response.Success(c, order)
}

// ListSettlements 管理员分页查询全部结算单
func (h *Handler) ListSettlements(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	filter := repository.SettlementListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	}
	if raw := c.Query("shipper_id"); raw != "" {
		if shipperID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ShipperID = uint(shipperID)
		}
	}

	settlements, total, err := h.SettlementService.ListSettlements(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询结算单失败", err)
		return
	}
	response.SuccessWithPage(c, settlements, response.NewPagination(page, pageSize, total))
}

// GetSettlement 管理员查询结算单详情
func (h *Handler) GetSettlement(c *gin.Context) {
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

// ConfirmSettlement 管理员确认打款
func (h *Handler) ConfirmSettlement(c *gin.Context) {
	settlementID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "结算单 ID 非法", nil)
		return
	}
	settlement, err := h.SettlementService.AdminConfirmSettlement(settlementID)
	if err != nil {
		handlershared.RespondMappedError(c, err, settlementErrorRules, response.CodeInternal, "确认打款失败")
		return
	}
	h.DashboardService.InvalidateAdminStats()
	response.Success(c, settlement)
}

// Dashboard 管理员工作台
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.DashboardService.AdminStats()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询工作台失败", err)
		return
	}
	response.Success(c, stats)
}

// Report 全平台对账报表
func (h *Handler) Report(c *gin.Context) {
	from, to, ok := handlershared.QueryTimeRange(c)
	if !ok {
		return
	}
	var shopID, shipperID uint
	if raw := c.Query("shop_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			shopID = uint(v)
		}
	}
	if raw := c.Query("shipper_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			shipperID = uint(v)
		}
	}
	report, err := h.ReportService.ReconciliationReport(shopID, shipperID, from, to)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "生成对账报表失败", err)
		return
	}
	response.Success(c, report)
}

// ListUsers 管理员按角色查询用户
func (h *Handler) ListUsers(c *gin.Context) {
	role := strings.ToUpper(strings.TrimSpace(c.Query("role")))
	if role != constants.RoleShop && role != constants.RoleShipper && role != constants.RoleAdmin {
		handlershared.RespondError(c, response.CodeBadRequest, "角色参数非法", nil)
		return
	}
	users, err := h.UserRepo.ListByRole(role)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询用户失败", err)
		return
	}
	// 不回传密码散列
	type userView struct {
		ID     uint   `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{
			ID:     user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Phone:  user.Phone,
			Role:   user.Role,
			Status: user.Status,
		})
	}
	response.Success(c, views)
}
