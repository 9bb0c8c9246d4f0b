package service

import (
	"testing"

	"github.com/daishou-next/internal/constants"
)

func TestBalanceDerivation(t *testing.T) {
	env := setupServiceTest(t, "balance_derivation")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order1 := createTestOrder(t, env.db, shop.ID, "ORD-300001", 500, 40)
	order2 := createTestOrder(t, env.db, shop.ID, "ORD-300002", 100, 30)
	deliverOrder(t, env, shipper.ID, order1.ID)
	deliverOrder(t, env, shipper.ID, order2.ID)

	balance, err := env.ledgerService.Balance(shop.ID, shipper.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	// 500-40+100-30 = 530
	if balance.NetUnsettled.String() != "530.00" {
		t.Fatalf("expected net 530.00, got %s", balance.NetUnsettled.String())
	}
	if balance.ShipperOwes.String() != "530.00" || balance.ShopOwes.String() != "0.00" {
		t.Fatalf("unexpected split: owes=%s shop=%s", balance.ShipperOwes.String(), balance.ShopOwes.String())
	}
	if balance.EntryCount != 4 {
		t.Fatalf("expected 4 unsettled entries, got %d", balance.EntryCount)
	}
	if balance.SettledAmount.String() != "0.00" {
		t.Fatalf("expected no settled amount, got %s", balance.SettledAmount.String())
	}
}

func TestBalanceNegativeNetBecomesShopDebt(t *testing.T) {
	env := setupServiceTest(t, "balance_negative")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	// 代收 10，运费 40：商家反欠配送员 30
	order := createTestOrder(t, env.db, shop.ID, "ORD-300003", 10, 40)
	deliverOrder(t, env, shipper.ID, order.ID)

	balance, err := env.ledgerService.Balance(shop.ID, shipper.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.NetUnsettled.String() != "-30.00" {
		t.Fatalf("expected net -30.00, got %s", balance.NetUnsettled.String())
	}
	if balance.ShipperOwes.String() != "0.00" {
		t.Fatalf("shipper owes nothing, got %s", balance.ShipperOwes.String())
	}
	if balance.ShopOwes.String() != "30.00" {
		t.Fatalf("expected shop owes 30.00, got %s", balance.ShopOwes.String())
	}
}

func TestBalanceAfterFullSettlementCycle(t *testing.T) {
	env := setupServiceTest(t, "balance_cycle")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order := createTestOrder(t, env.db, shop.ID, "ORD-300004", 500, 40)
	deliverOrder(t, env, shipper.ID, order.ID)

	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("request settlement failed: %v (%d)", err, len(created))
	}
	if _, err := env.settlementService.AdminConfirmSettlement(created[0].ID); err != nil {
		t.Fatalf("admin confirm failed: %v", err)
	}

	// 管理员确认后结算单尚未走完闭环，不计入已结算金额
	mid, err := env.ledgerService.Balance(shop.ID, shipper.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if mid.SettledAmount.String() != "0.00" {
		t.Fatalf("expected settled 0.00 before shop confirm, got %s", mid.SettledAmount.String())
	}

	if _, err := env.settlementService.ShopConfirmSettlement(created[0].ID); err != nil {
		t.Fatalf("shop confirm failed: %v", err)
	}

	balance, err := env.ledgerService.Balance(shop.ID, shipper.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance.NetUnsettled.String() != "0.00" {
		t.Fatalf("expected zero net after payment, got %s", balance.NetUnsettled.String())
	}
	// 已结算金额按回链台账行求和：+500 代收、-40 运费、-460 上缴冲销，相抵为零
	if balance.SettledAmount.String() != "0.00" {
		t.Fatalf("expected settled 0.00 after full cycle, got %s", balance.SettledAmount.String())
	}
}

func TestSummarizeShipper(t *testing.T) {
	env := setupServiceTest(t, "shipper_summary")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order1 := createTestOrder(t, env.db, shop.ID, "ORD-300005", 500, 40)
	order2 := createTestOrder(t, env.db, shop.ID, "ORD-300006", 100, 10)
	deliverOrder(t, env, shipper.ID, order1.ID)
	deliverOrder(t, env, shipper.ID, order2.ID)

	summary, err := env.ledgerService.SummarizeShipper(shipper.ID)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary.TotalCodCollected.String() != "600.00" {
		t.Fatalf("expected cod 600.00, got %s", summary.TotalCodCollected.String())
	}
	if summary.TotalShippingFees.String() != "50.00" {
		t.Fatalf("expected fees 50.00, got %s", summary.TotalShippingFees.String())
	}
}
