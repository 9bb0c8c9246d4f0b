package shop

import (
	"strings"

	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建运单请求
type CreateOrderRequest struct {
	ReceiverName    string        `json:"receiver_name" binding:"required"`
	ReceiverPhone   string        `json:"receiver_phone" binding:"required"`
	ReceiverAddress string        `json:"receiver_address" binding:"required"`
	PickupAddress   string        `json:"pickup_address" binding:"required"`
	ProductName     string        `json:"product_name" binding:"required"`
	Weight          *float64      `json:"weight"`
	Dimensions      string        `json:"dimensions"`
	CodAmount       *models.Money `json:"cod_amount"`
	ShippingFee     *models.Money `json:"shipping_fee"`
	Note            string        `json:"note"`
	ShipperNote     string        `json:"shipper_note"`
	AllowInspection string        `json:"allow_inspection"`
	ShipperID       uint          `json:"shipper_id"`
}

// CreateOrder 商家创建运单
func (h *Handler) CreateOrder(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.CreateOrder(shopID, service.CreateOrderInput{
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		ReceiverAddress: req.ReceiverAddress,
		PickupAddress:   req.PickupAddress,
		ProductName:     req.ProductName,
		Weight:          req.Weight,
		Dimensions:      req.Dimensions,
		CodAmount:       req.CodAmount,
		ShippingFee:     req.ShippingFee,
		Note:            req.Note,
		ShipperNote:     req.ShipperNote,
		AllowInspection: req.AllowInspection,
		ShipperID:       req.ShipperID,
	})
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "创建运单失败")
		return
	}
	response.Success(c, order)
}

// ListOrders 商家分页查询运单，支持 status 多值过滤
func (h *Handler) ListOrders(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	statuses := splitStatuses(c.Query("status"))

	orders, total, err := h.OrderService.ListShopOrders(shopID, page, pageSize, statuses)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询运单失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 商家查询单个运单
func (h *Handler) GetOrder(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	order, err := h.OrderService.GetOrder(shopID, handlershared.CurrentUserRole(c), orderID)
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "查询运单失败")
		return
	}
	response.Success(c, order)
}

// DeleteOrder 商家删除尚未进入配送的运单
func (h *Handler) DeleteOrder(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "运单 ID 非法", nil)
		return
	}
	if err := h.OrderService.DeleteOrder(shopID, orderID); err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "删除运单失败")
		return
	}
	response.Success(c, nil)
}

// UpdateOrderStatusRequest 状态推进请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 商家推进运单状态（取消、退回确认）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	shopID, ok := handlershared.CurrentUserID(c)
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
	order, err := h.OrderService.UpdateStatus(shopID, handlershared.CurrentUserRole(c), orderID, req.Status)
	if err != nil {
		handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "更新运单状态失败")
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
