package shipper

import (
	"strings"

	"github.com/daishou-next/internal/constants"
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 配送员查询自己名下运单
func (h *Handler) ListOrders(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	statuses := splitStatuses(c.Query("status"))

	orders, total, err := h.OrderService.ListShipperOrders(shipperID, page, pageSize, statuses)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询运单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// ListAvailableOrders 查询待认领的运单
func (h *Handler) ListAvailableOrders(c *gin.Context) {
	if _, ok := handlershared.CurrentUserID(c); !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListAvailableOrders(page, pageSize)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询待认领运单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 配送员查询单个运单
func (h *Handler) GetOrder(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	order, err := h.OrderService.GetOrder(shipperID, handlershared.CurrentUserRole(c), orderID)
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "查询运单失败")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest 状态推进请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 配送员推进运单状态（接单、取件、开始配送）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(shipperID, constants.RoleShipper, orderID, strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "更新运单状态失败")
		return
	}
	response.Success(c, order)
}

// DeliveryOutcomeRequest 派送结果上报请求
type DeliveryOutcomeRequest struct {
	Outcome    string `json:"outcome" binding:"required"` // SUCCESS / FAILURE
	FailReason string `json:"fail_reason"`
}

// RecordDeliveryOutcome 上报派送结果
func (h *Handler) RecordDeliveryOutcome(c *gin.Context) {
	shipperID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	var req DeliveryOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	order, err := h.OrderService.RecordDeliveryOutcome(shipperID, service.DeliveryOutcomeInput{
		OrderID:    orderID,
		Outcome:    strings.ToUpper(strings.TrimSpace(req.Outcome)),
		FailReason: req.FailReason,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "上报派送结果失败")
		return
	}
	response.Success(c, order)
}

func splitStatuses(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	statuses := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statuses = append(statuses, strings.ToUpper(trimmed))
		}
	}
	return statuses
}
