package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 运单服务
type OrderService struct {
	orderRepo           repository.OrderRepository
	ledgerRepo          repository.LedgerRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
	codeMaxAttempts     int
}

// NewOrderService 创建运单服务
func NewOrderService(orderRepo repository.OrderRepository, ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository, notificationService *NotificationService, codeMaxAttempts int) *OrderService {
	if codeMaxAttempts <= 0 {
		codeMaxAttempts = 100
	}
	return &OrderService{
		orderRepo:           orderRepo,
		ledgerRepo:          ledgerRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		codeMaxAttempts:     codeMaxAttempts,
	}
}

// CreateOrderInput 创建运单输入
type CreateOrderInput struct {
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
	PickupAddress   string
	ProductName     string
	Weight          *float64
	Dimensions      string
	CodAmount       *models.Money
	ShippingFee     *models.Money
	Note            string
	ShipperNote     string
	AllowInspection string
	ShipperID       uint
}

// CreateOrder 商家创建运单，编号冲突时重试生成
func (s *OrderService) CreateOrder(shopID uint, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.ReceiverName) == "" ||
		strings.TrimSpace(input.ReceiverPhone) == "" ||
		strings.TrimSpace(input.ReceiverAddress) == "" ||
		strings.TrimSpace(input.PickupAddress) == "" ||
		strings.TrimSpace(input.ProductName) == "" {
		return nil, ErrOrderValidation
	}
	if input.CodAmount != nil && input.CodAmount.IsNegative() {
		return nil, ErrOrderValidation
	}
	if input.ShippingFee != nil && input.ShippingFee.IsNegative() {
		return nil, ErrOrderValidation
	}

	code, err := s.generateOrderCode()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderCode:       code,
		ShopID:          shopID,
		ReceiverName:    strings.TrimSpace(input.ReceiverName),
		ReceiverPhone:   strings.TrimSpace(input.ReceiverPhone),
		ReceiverAddress: strings.TrimSpace(input.ReceiverAddress),
		PickupAddress:   strings.TrimSpace(input.PickupAddress),
		ProductName:     strings.TrimSpace(input.ProductName),
		Weight:          input.Weight,
		Dimensions:      strings.TrimSpace(input.Dimensions),
		CodAmount:       input.CodAmount,
		ShippingFee:     input.ShippingFee,
		Status:          constants.OrderStatusCreated,
		Note:            input.Note,
		ShipperNote:     input.ShipperNote,
		AllowInspection: input.AllowInspection,
	}

	var assignedShipper *models.User
	if input.ShipperID != 0 {
		shipper, err := s.userRepo.GetByID(input.ShipperID)
		if err != nil {
			return nil, err
		}
		if shipper == nil || shipper.Role != constants.RoleShipper {
			return nil, ErrUserNotFound
		}
		order.ShipperID = &shipper.ID
		assignedShipper = shipper
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	logger.Infow("order_created", "order_id", order.ID, "order_code", order.OrderCode, "shop_id", shopID)

	if assignedShipper != nil {
		s.notificationService.Notify(assignedShipper.ID, "新的待配送运单",
			fmt.Sprintf("运单 %s 已指派给您，取件地址：%s", order.OrderCode, order.PickupAddress))
	}
	return order, nil
}

// DeliveryOutcomeInput 派送结果上报输入
type DeliveryOutcomeInput struct {
	OrderID    uint
	Outcome    string // SUCCESS / FAILURE
	FailReason string
}

// RecordDeliveryOutcome 配送员上报派送结果。
// 未指派的运单由上报方先到先得地认领；成功派送在同一事务内写入两条台账。
func (s *OrderService) RecordDeliveryOutcome(shipperID uint, input DeliveryOutcomeInput) (*models.Order, error) {
	if input.Outcome != constants.DeliveryOutcomeSuccess && input.Outcome != constants.DeliveryOutcomeFailure {
		return nil, ErrOrderValidation
	}

	var order *models.Order
	var notifyShop func()
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)

		var err error
		order, err = orderRepo.GetByIDForUpdate(input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.ShipperID != nil && *order.ShipperID != shipperID {
			return ErrOrderAccessDenied
		}

		// 未指派则先认领；已指派但仍为 CREATED（建单时直接指派）的同样推进到 ASSIGNED
		if order.ShipperID == nil {
			order.ShipperID = &shipperID
		}
		if order.Status == constants.OrderStatusCreated {
			order.Status = constants.OrderStatusAssigned
		}

		now := time.Now()
		switch input.Outcome {
		case constants.DeliveryOutcomeSuccess:
			if !CanTransitionOrderStatus(order.Status, constants.OrderStatusDeliveredSuccess) {
				return ErrOrderStatusInvalid
			}
			if order.CodAmount == nil || order.ShippingFee == nil || order.ShopID == 0 {
				return ErrOrderStatusInvalid
			}
			order.Status = constants.OrderStatusDeliveredSuccess
			order.DeliveredAt = &now
			if err := orderRepo.Save(order); err != nil {
				return err
			}
			codLedger := &models.Ledger{
				OrderID:   &order.ID,
				ShopID:    order.ShopID,
				ShipperID: shipperID,
				Amount:    *order.CodAmount,
				Type:      constants.LedgerTypeCodCollected,
			}
			if err := ledgerRepo.Create(codLedger); err != nil {
				return err
			}
			feeLedger := &models.Ledger{
				OrderID:   &order.ID,
				ShopID:    order.ShopID,
				ShipperID: shipperID,
				Amount:    order.ShippingFee.Neg(),
				Type:      constants.LedgerTypeShippingFee,
			}
			if err := ledgerRepo.Create(feeLedger); err != nil {
				return err
			}
			notifyShop = func() {
				s.notificationService.Notify(order.ShopID, "运单妥投成功",
					fmt.Sprintf("运单 %s 已妥投，代收货款 %s 元", order.OrderCode, order.CodAmount.String()))
			}
		case constants.DeliveryOutcomeFailure:
			if !CanTransitionOrderStatus(order.Status, constants.OrderStatusDeliveryFailed) {
				return ErrOrderStatusInvalid
			}
			reason := strings.TrimSpace(input.FailReason)
			if reason == "" {
				reason = constants.DefaultDeliveryFailReason
			}
			order.Status = constants.OrderStatusDeliveryFailed
			order.FailedAt = &now
			order.FailReason = reason
			if err := orderRepo.Save(order); err != nil {
				return err
			}
			notifyShop = func() {
				s.notificationService.Notify(order.ShopID, "运单配送失败",
					fmt.Sprintf("运单 %s 配送失败：%s", order.OrderCode, reason))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("delivery_outcome_recorded", "order_id", order.ID, "order_code", order.OrderCode,
		"outcome", input.Outcome, "shipper_id", shipperID)
	if notifyShop != nil {
		notifyShop()
	}
	return order, nil
}

// UpdateStatus 按状态机推进运单状态（取件、配送中、取消、退回等非结账动作）
func (s *OrderService) UpdateStatus(actorID uint, actorRole string, orderID uint, target string) (*models.Order, error) {
	if !IsValidOrderStatus(target) {
		return nil, ErrOrderValidation
	}
	// 派送结果涉及台账，必须走 RecordDeliveryOutcome
	if target == constants.OrderStatusDeliveredSuccess || target == constants.OrderStatusDeliveryFailed {
		return nil, ErrOrderStatusInvalid
	}

	var order *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		var err error
		order, err = orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		switch actorRole {
		case constants.RoleShop:
			if order.ShopID != actorID {
				return ErrOrderAccessDenied
			}
		case constants.RoleShipper:
			if order.ShipperID != nil && *order.ShipperID != actorID {
				return ErrOrderAccessDenied
			}
		}
		if !CanTransitionOrderStatus(order.Status, target) {
			return ErrOrderStatusInvalid
		}
		if actorRole == constants.RoleShipper && order.ShipperID == nil {
			order.ShipperID = &actorID
		}
		order.Status = target
		return orderRepo.Save(order)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "status", target)
	return order, nil
}

// DeleteOrder 商家删除尚未进入配送的运单
func (s *OrderService) DeleteOrder(shopID, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.ShopID != shopID {
		return ErrOrderAccessDenied
	}
	if order.Status != constants.OrderStatusCreated && order.Status != constants.OrderStatusAssigned {
		return ErrOrderStatusInvalid
	}
	return s.orderRepo.Delete(order)
}

// GetOrder 查询运单，商家/配送员只能看到与自己相关的运单
func (s *OrderService) GetOrder(actorID uint, actorRole string, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	switch actorRole {
	case constants.RoleShop:
		if order.ShopID != actorID {
			return nil, ErrOrderAccessDenied
		}
	case constants.RoleShipper:
		if order.ShipperID != nil && *order.ShipperID != actorID {
			return nil, ErrOrderAccessDenied
		}
	}
	return order, nil
}

// ListShopOrders 商家分页查询自己的运单
func (s *OrderService) ListShopOrders(shopID uint, page, pageSize int, statuses []string) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		ShopID:   shopID,
		Statuses: statuses,
	})
}

// ListShipperOrders 配送员查询自己名下运单；statuses 为空时默认看进行中的
func (s *OrderService) ListShipperOrders(shipperID uint, page, pageSize int, statuses []string) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		ShipperID: shipperID,
		Statuses:  statuses,
	})
}

// ListAvailableOrders 配送员查询待认领的运单
func (s *OrderService) ListAvailableOrders(page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		Statuses:   []string{constants.OrderStatusCreated},
		Unassigned: true,
	})
}

// ListAllOrders 管理员分页查询全部运单
func (s *OrderService) ListAllOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// generateOrderCode 生成带前缀的 6 位随机数字运单编号，重复则重试
func (s *OrderService) generateOrderCode() (string, error) {
	for i := 0; i < s.codeMaxAttempts; i++ {
		code := constants.OrderCodePrefix + randNumeric(6)
		exists, err := s.orderRepo.ExistsByOrderCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrOrderCodeExhausted
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
