package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
)

func TestCreateOrderGeneratesCode(t *testing.T) {
	env := setupServiceTest(t, "order_create")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)

	cod := models.NewMoneyFromInt(200)
	fee := models.NewMoneyFromInt(30)
	order, err := env.orderService.CreateOrder(shop.ID, CreateOrderInput{
		ReceiverName:    "李四",
		ReceiverPhone:   "13900000000",
		ReceiverAddress: "某小区 3 栋",
		PickupAddress:   "仓库 A",
		ProductName:     "手机壳",
		CodAmount:       &cod,
		ShippingFee:     &fee,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !strings.HasPrefix(order.OrderCode, constants.OrderCodePrefix) {
		t.Fatalf("unexpected order code: %s", order.OrderCode)
	}
	if len(order.OrderCode) != len(constants.OrderCodePrefix)+6 {
		t.Fatalf("expected 6 digit suffix, got %s", order.OrderCode)
	}
	if order.Status != constants.OrderStatusCreated {
		t.Fatalf("expected CREATED, got %s", order.Status)
	}
	if order.ShipperID != nil {
		t.Fatalf("expected no shipper on fresh order")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := setupServiceTest(t, "order_validation")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)

	_, err := env.orderService.CreateOrder(shop.ID, CreateOrderInput{
		ReceiverName:  "李四",
		ReceiverPhone: "13900000000",
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation, got %v", err)
	}

	negative := models.NewMoneyFromInt(-10)
	_, err = env.orderService.CreateOrder(shop.ID, CreateOrderInput{
		ReceiverName:    "李四",
		ReceiverPhone:   "13900000000",
		ReceiverAddress: "地址",
		PickupAddress:   "仓库",
		ProductName:     "货品",
		CodAmount:       &negative,
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation for negative amount, got %v", err)
	}
}

func TestCreateOrderWithAssignedShipperNotifies(t *testing.T) {
	env := setupServiceTest(t, "order_assign_notify")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order, err := env.orderService.CreateOrder(shop.ID, CreateOrderInput{
		ReceiverName:    "李四",
		ReceiverPhone:   "13900000000",
		ReceiverAddress: "地址",
		PickupAddress:   "仓库",
		ProductName:     "货品",
		ShipperID:       shipper.ID,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.ShipperID == nil || *order.ShipperID != shipper.ID {
		t.Fatalf("expected shipper attached")
	}
	if got := countNotifications(t, env.db, shipper.ID); got != 1 {
		t.Fatalf("expected 1 shipper notification, got %d", got)
	}
}

func TestRecordDeliverySuccessWritesLedgers(t *testing.T) {
	env := setupServiceTest(t, "delivery_success")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)
	order := createTestOrder(t, env.db, shop.ID, "ORD-100001", 500, 40)

	updated, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("record delivery failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDeliveredSuccess {
		t.Fatalf("expected DELIVERED_SUCCESS, got %s", updated.Status)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("expected delivered_at to be set")
	}
	if updated.ShipperID == nil || *updated.ShipperID != shipper.ID {
		t.Fatalf("expected first-claim assignment to shipper")
	}

	var ledgers []models.Ledger
	if err := env.db.Where("order_id = ?", order.ID).Order("id").Find(&ledgers).Error; err != nil {
		t.Fatalf("load ledgers failed: %v", err)
	}
	if len(ledgers) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(ledgers))
	}
	if ledgers[0].Type != constants.LedgerTypeCodCollected || ledgers[0].Amount.String() != "500.00" {
		t.Fatalf("unexpected cod ledger: %s %s", ledgers[0].Type, ledgers[0].Amount.String())
	}
	if ledgers[1].Type != constants.LedgerTypeShippingFee || ledgers[1].Amount.String() != "-40.00" {
		t.Fatalf("unexpected fee ledger: %s %s", ledgers[1].Type, ledgers[1].Amount.String())
	}
	if ledgers[0].Settled() || ledgers[1].Settled() {
		t.Fatalf("fresh ledgers must be unsettled")
	}
	if got := countNotifications(t, env.db, shop.ID); got != 1 {
		t.Fatalf("expected shop notification, got %d", got)
	}
}

func TestRecordDeliverySuccessWithPreassignedShipper(t *testing.T) {
	env := setupServiceTest(t, "delivery_preassigned")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	cod := models.NewMoneyFromInt(300)
	fee := models.NewMoneyFromInt(25)
	// 建单时直接指派配送员，状态仍为 CREATED
	order, err := env.orderService.CreateOrder(shop.ID, CreateOrderInput{
		ReceiverName:    "李四",
		ReceiverPhone:   "13900000000",
		ReceiverAddress: "地址",
		PickupAddress:   "仓库",
		ProductName:     "货品",
		CodAmount:       &cod,
		ShippingFee:     &fee,
		ShipperID:       shipper.ID,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusCreated {
		t.Fatalf("expected CREATED before outcome, got %s", order.Status)
	}

	updated, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("preassigned shipper must be able to deliver, got %v", err)
	}
	if updated.Status != constants.OrderStatusDeliveredSuccess {
		t.Fatalf("expected DELIVERED_SUCCESS, got %s", updated.Status)
	}

	var count int64
	if err := env.db.Model(&models.Ledger{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count ledgers failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", count)
	}
}

func TestRecordDeliveryFailureDefaultsReason(t *testing.T) {
	env := setupServiceTest(t, "delivery_failure")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)
	order := createTestOrder(t, env.db, shop.ID, "ORD-100002", 500, 40)

	updated, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeFailure,
	})
	if err != nil {
		t.Fatalf("record failure failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDeliveryFailed {
		t.Fatalf("expected DELIVERY_FAILED, got %s", updated.Status)
	}
	if updated.FailedAt == nil {
		t.Fatalf("expected failed_at to be set")
	}
	if updated.FailReason != constants.DefaultDeliveryFailReason {
		t.Fatalf("expected default fail reason, got %s", updated.FailReason)
	}

	var count int64
	if err := env.db.Model(&models.Ledger{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count ledgers failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failure must not create ledgers, got %d", count)
	}
}

func TestRecordDeliveryOutcomeGuards(t *testing.T) {
	env := setupServiceTest(t, "delivery_guards")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)
	other := createTestUser(t, env.db, 3, constants.RoleShipper)
	order := createTestOrder(t, env.db, shop.ID, "ORD-100003", 500, 40)

	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: "DONE",
	}); !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation for bad outcome, got %v", err)
	}

	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: 9999,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	// 已妥投运单不可重复上报
	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid on repeat, got %v", err)
	}

	order2 := createTestOrder(t, env.db, shop.ID, "ORD-100004", 500, 40)
	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order2.ID,
		Outcome: constants.DeliveryOutcomeFailure,
	}); err != nil {
		t.Fatalf("claim by shipper failed: %v", err)
	}
	// 已被认领的运单其他配送员无权上报
	if _, err := env.orderService.RecordDeliveryOutcome(other.ID, DeliveryOutcomeInput{
		OrderID: order2.ID,
		Outcome: constants.DeliveryOutcomeFailure,
	}); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("expected ErrOrderAccessDenied, got %v", err)
	}
}

func TestRecordDeliverySuccessRequiresAmounts(t *testing.T) {
	env := setupServiceTest(t, "delivery_amounts")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order := &models.Order{
		OrderCode:       "ORD-100005",
		ShopID:          shop.ID,
		ReceiverName:    "张三",
		ReceiverPhone:   "13800000000",
		ReceiverAddress: "收件地址",
		PickupAddress:   "取件地址",
		ProductName:     "无代收货品",
		Status:          constants.OrderStatusCreated,
	}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid without amounts, got %v", err)
	}

	// 拒绝后必须无任何副作用：无台账、状态不变
	var count int64
	if err := env.db.Model(&models.Ledger{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count ledgers failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected delivery must not create ledgers, got %d", count)
	}
	var reloaded models.Order
	if err := env.db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCreated {
		t.Fatalf("rejected delivery must not change status, got %s", reloaded.Status)
	}
	if reloaded.DeliveredAt != nil {
		t.Fatalf("rejected delivery must not stamp delivered_at")
	}
}

func TestUpdateStatusFollowsMachine(t *testing.T) {
	env := setupServiceTest(t, "order_update_status")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)
	order := createTestOrder(t, env.db, shop.ID, "ORD-100006", 500, 40)

	updated, err := env.orderService.UpdateStatus(shipper.ID, constants.RoleShipper, order.ID, constants.OrderStatusAssigned)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if updated.Status != constants.OrderStatusAssigned {
		t.Fatalf("expected ASSIGNED, got %s", updated.Status)
	}
	if updated.ShipperID == nil || *updated.ShipperID != shipper.ID {
		t.Fatalf("expected shipper claim on assignment")
	}

	if _, err := env.orderService.UpdateStatus(shipper.ID, constants.RoleShipper, order.ID, constants.OrderStatusDeliveredSuccess); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("delivery outcome must not go through UpdateStatus, got %v", err)
	}

	if _, err := env.orderService.UpdateStatus(shipper.ID, constants.RoleShipper, order.ID, "shipped"); !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation for unknown status, got %v", err)
	}

	if _, err := env.orderService.UpdateStatus(shipper.ID, constants.RoleShipper, order.ID, constants.OrderStatusCreated); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid for backwards move, got %v", err)
	}
}

func TestDeleteOrderGuards(t *testing.T) {
	env := setupServiceTest(t, "order_delete")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	otherShop := createTestUser(t, env.db, 2, constants.RoleShop)
	shipper := createTestUser(t, env.db, 3, constants.RoleShipper)
	order := createTestOrder(t, env.db, shop.ID, "ORD-100007", 500, 40)

	if err := env.orderService.DeleteOrder(otherShop.ID, order.ID); !errors.Is(err, ErrOrderAccessDenied) {
		t.Fatalf("expected ErrOrderAccessDenied, got %v", err)
	}
	if err := env.orderService.DeleteOrder(shop.ID, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if _, err := env.orderService.RecordDeliveryOutcome(shipper.ID, DeliveryOutcomeInput{
		OrderID: order.ID,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if err := env.orderService.DeleteOrder(shop.ID, order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid after delivery, got %v", err)
	}

	// 配送中的运单同样不可删除
	order2 := createTestOrder(t, env.db, shop.ID, "ORD-100008", 500, 40)
	if err := env.db.Model(&models.Order{}).Where("id = ?", order2.ID).
		Updates(map[string]interface{}{"status": constants.OrderStatusDelivering, "shipper_id": shipper.ID}).Error; err != nil {
		t.Fatalf("move order to DELIVERING failed: %v", err)
	}
	if err := env.orderService.DeleteOrder(shop.ID, order2.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid while delivering, got %v", err)
	}

	order3 := createTestOrder(t, env.db, shop.ID, "ORD-100009", 500, 40)
	if err := env.orderService.DeleteOrder(shop.ID, order3.ID); err != nil {
		t.Fatalf("delete created order failed: %v", err)
	}
}
