package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
)

// deliverOrder 妥投一单，生成两条未结算台账
func deliverOrder(t *testing.T, env *serviceTestEnv, shipperID uint, orderID uint) {
	t.Helper()
	if _, err := env.orderService.RecordDeliveryOutcome(shipperID, DeliveryOutcomeInput{
		OrderID: orderID,
		Outcome: constants.DeliveryOutcomeSuccess,
	}); err != nil {
		t.Fatalf("deliver order failed: %v", err)
	}
}

func TestRequestSettlementGroupsByShop(t *testing.T) {
	env := setupServiceTest(t, "settlement_request")
	shopA := createTestUser(t, env.db, 1, constants.RoleShop)
	shopB := createTestUser(t, env.db, 2, constants.RoleShop)
	shipper := createTestUser(t, env.db, 3, constants.RoleShipper)
	admin := createTestUser(t, env.db, 4, constants.RoleAdmin)

	orderA1 := createTestOrder(t, env.db, shopA.ID, "ORD-200001", 500, 40)
	orderA2 := createTestOrder(t, env.db, shopA.ID, "ORD-200002", 300, 20)
	orderB1 := createTestOrder(t, env.db, shopB.ID, "ORD-200003", 100, 10)
	deliverOrder(t, env, shipper.ID, orderA1.ID)
	deliverOrder(t, env, shipper.ID, orderA2.ID)
	deliverOrder(t, env, shipper.ID, orderB1.ID)

	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil {
		t.Fatalf("request settlement failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(created))
	}

	byShop := make(map[uint]models.Settlement)
	for _, settlement := range created {
		if settlement.Status != constants.SettlementStatusPending {
			t.Fatalf("expected PENDING, got %s", settlement.Status)
		}
		if settlement.ShipperID != shipper.ID {
			t.Fatalf("unexpected shipper %d", settlement.ShipperID)
		}
		byShop[settlement.ShopID] = settlement
	}
	// shopA: 500-40+300-20 = 740, shopB: 100-10 = 90
	if got := byShop[shopA.ID].TotalAmount.String(); got != "740.00" {
		t.Fatalf("shopA total expected 740.00, got %s", got)
	}
	if got := byShop[shopB.ID].TotalAmount.String(); got != "90.00" {
		t.Fatalf("shopB total expected 90.00, got %s", got)
	}

	// 全部台账都应回填结算单号
	var unattached int64
	if err := env.db.Model(&models.Ledger{}).
		Where("shipper_id = ? AND settlement_id IS NULL", shipper.ID).
		Count(&unattached).Error; err != nil {
		t.Fatalf("count ledgers failed: %v", err)
	}
	if unattached != 0 {
		t.Fatalf("expected all ledgers attached, %d left", unattached)
	}

	// 管理员按商家分组逐张收到通知，内容带商家名与该组合计
	var adminNotices []models.Notification
	if err := env.db.Where("user_id = ?", admin.ID).Order("id").Find(&adminNotices).Error; err != nil {
		t.Fatalf("load admin notifications failed: %v", err)
	}
	if len(adminNotices) != 2 {
		t.Fatalf("expected 2 admin notifications, got %d", len(adminNotices))
	}
	wantContents := map[string]bool{
		fmt.Sprintf("配送员 %s 对商家 %s 发起结算，金额 740.00 元", shipper.Name, shopA.Name): false,
		fmt.Sprintf("配送员 %s 对商家 %s 发起结算，金额 90.00 元", shipper.Name, shopB.Name):  false,
	}
	for _, notice := range adminNotices {
		if _, ok := wantContents[notice.Content]; !ok {
			t.Fatalf("unexpected admin notification content: %s", notice.Content)
		}
		wantContents[notice.Content] = true
	}
	for content, seen := range wantContents {
		if !seen {
			t.Fatalf("missing admin notification: %s", content)
		}
	}

	// 再次申请没有可结算台账，应返回空且不再新建
	again, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no settlements on second request, got %d", len(again))
	}
}

func TestRequestSettlementUnknownShipper(t *testing.T) {
	env := setupServiceTest(t, "settlement_unknown_shipper")
	if _, err := env.settlementService.RequestSettlement(42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminConfirmSettlementZeroesBalance(t *testing.T) {
	env := setupServiceTest(t, "settlement_admin_confirm")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order := createTestOrder(t, env.db, shop.ID, "ORD-200004", 500, 40)
	deliverOrder(t, env, shipper.ID, order.ID)

	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("request settlement failed: %v (%d)", err, len(created))
	}
	settlementID := created[0].ID

	paid, err := env.settlementService.AdminConfirmSettlement(settlementID)
	if err != nil {
		t.Fatalf("admin confirm failed: %v", err)
	}
	if paid.Status != constants.SettlementStatusPaid {
		t.Fatalf("expected PAID, got %s", paid.Status)
	}

	// 冲销台账生来已结算，金额为负的结算总额
	var offset models.Ledger
	if err := env.db.Where("type = ?", constants.LedgerTypeSettlementPayment).First(&offset).Error; err != nil {
		t.Fatalf("load offset ledger failed: %v", err)
	}
	if offset.Amount.String() != "-460.00" {
		t.Fatalf("expected offset -460.00, got %s", offset.Amount.String())
	}
	if !offset.Settled() || offset.SettlementID == nil || *offset.SettlementID != settlementID {
		t.Fatalf("offset ledger must be born settled against %d", settlementID)
	}
	if offset.OrderID != nil {
		t.Fatalf("offset ledger must not reference an order")
	}

	// 再次发起结算不应捞到任何台账
	again, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil {
		t.Fatalf("request after payment failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("paid ledgers must stay settled, got %d settlements", len(again))
	}

	if got := countNotifications(t, env.db, shipper.ID); got == 0 {
		t.Fatalf("expected shipper payment notification")
	}

	// 重复确认被状态守卫拒绝
	if _, err := env.settlementService.AdminConfirmSettlement(settlementID); !errors.Is(err, ErrSettlementStatusInvalid) {
		t.Fatalf("expected ErrSettlementStatusInvalid, got %v", err)
	}
	if _, err := env.settlementService.AdminConfirmSettlement(9999); !errors.Is(err, ErrSettlementNotFound) {
		t.Fatalf("expected ErrSettlementNotFound, got %v", err)
	}
}

func TestShopConfirmSettlementSkipsGuard(t *testing.T) {
	env := setupServiceTest(t, "settlement_shop_confirm")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order := createTestOrder(t, env.db, shop.ID, "ORD-200005", 200, 15)
	deliverOrder(t, env, shipper.ID, order.ID)
	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("request settlement failed: %v (%d)", err, len(created))
	}

	// 商家确认不做状态守卫，PENDING 也可以直接 CONFIRMED
	confirmed, err := env.settlementService.ShopConfirmSettlement(created[0].ID)
	if err != nil {
		t.Fatalf("shop confirm failed: %v", err)
	}
	if confirmed.Status != constants.SettlementStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", confirmed.Status)
	}

	if _, err := env.settlementService.ShopConfirmSettlement(9999); !errors.Is(err, ErrSettlementNotFound) {
		t.Fatalf("expected ErrSettlementNotFound, got %v", err)
	}
}

func TestListSettlementLedgers(t *testing.T) {
	env := setupServiceTest(t, "settlement_ledgers")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order := createTestOrder(t, env.db, shop.ID, "ORD-200006", 120, 10)
	deliverOrder(t, env, shipper.ID, order.ID)
	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("request settlement failed: %v (%d)", err, len(created))
	}

	ledgers, err := env.settlementService.ListSettlementLedgers(created[0].ID)
	if err != nil {
		t.Fatalf("list settlement ledgers failed: %v", err)
	}
	if len(ledgers) != 2 {
		t.Fatalf("expected 2 ledgers, got %d", len(ledgers))
	}
}
