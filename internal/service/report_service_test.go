package service

import (
	"testing"

	"github.com/daishou-next/internal/constants"
)

func TestReconciliationReport(t *testing.T) {
	env := setupServiceTest(t, "report")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)

	order1 := createTestOrder(t, env.db, shop.ID, "ORD-400001", 500, 40)
	order2 := createTestOrder(t, env.db, shop.ID, "ORD-400002", 100, 10)
	deliverOrder(t, env, shipper.ID, order1.ID)
	deliverOrder(t, env, shipper.ID, order2.ID)

	reportService := NewReportService(env.ledgerRepo, env.userRepo)
	report, err := reportService.ReconciliationReport(shop.ID, 0, nil, nil)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Rows))
	}
	first := report.Rows[0]
	if first.OrderCode != "ORD-400001" {
		t.Fatalf("unexpected first row order: %s", first.OrderCode)
	}
	if first.CodAmount.String() != "500.00" || first.ShippingFee.String() != "40.00" || first.Net.String() != "460.00" {
		t.Fatalf("unexpected first row amounts: %s/%s/%s",
			first.CodAmount.String(), first.ShippingFee.String(), first.Net.String())
	}
	if first.Settled {
		t.Fatalf("unsettled order reported as settled")
	}
	if report.TotalCod.String() != "600.00" || report.TotalFees.String() != "50.00" || report.TotalNet.String() != "550.00" {
		t.Fatalf("unexpected totals: %s/%s/%s",
			report.TotalCod.String(), report.TotalFees.String(), report.TotalNet.String())
	}

	// 结算冲销行不产生报表行
	created, err := env.settlementService.RequestSettlement(shipper.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("request settlement failed: %v (%d)", err, len(created))
	}
	if _, err := env.settlementService.AdminConfirmSettlement(created[0].ID); err != nil {
		t.Fatalf("admin confirm failed: %v", err)
	}
	report, err = reportService.ReconciliationReport(shop.ID, 0, nil, nil)
	if err != nil {
		t.Fatalf("report after settlement failed: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("offset ledger must not add rows, got %d", len(report.Rows))
	}
	for _, row := range report.Rows {
		if !row.Settled {
			t.Fatalf("rows should be settled after attachment: %+v", row)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	env := setupServiceTest(t, "dashboard")
	shop := createTestUser(t, env.db, 1, constants.RoleShop)
	shipper := createTestUser(t, env.db, 2, constants.RoleShipper)
	createTestUser(t, env.db, 3, constants.RoleAdmin)

	order1 := createTestOrder(t, env.db, shop.ID, "ORD-400003", 500, 40)
	createTestOrder(t, env.db, shop.ID, "ORD-400004", 100, 10)
	deliverOrder(t, env, shipper.ID, order1.ID)

	dashboardService := NewDashboardService(env.orderRepo, env.userRepo, env.ledgerService)

	shopDash, err := dashboardService.ShopStats(shop.ID)
	if err != nil {
		t.Fatalf("shop stats failed: %v", err)
	}
	if shopDash.TotalOrders != 2 || shopDash.SuccessOrders != 1 || shopDash.ActiveOrders != 1 {
		t.Fatalf("unexpected shop stats: %+v", shopDash)
	}
	if shopDash.Receivable.String() != "460.00" {
		t.Fatalf("expected receivable 460.00, got %s", shopDash.Receivable.String())
	}

	shipperDash, err := dashboardService.ShipperStats(shipper.ID)
	if err != nil {
		t.Fatalf("shipper stats failed: %v", err)
	}
	if shipperDash.TotalDelivered != 1 {
		t.Fatalf("expected 1 delivered, got %d", shipperDash.TotalDelivered)
	}
	if shipperDash.CashInHand.String() != "460.00" {
		t.Fatalf("expected cash in hand 460.00, got %s", shipperDash.CashInHand.String())
	}

	adminDash, err := dashboardService.AdminStats()
	if err != nil {
		t.Fatalf("admin stats failed: %v", err)
	}
	if adminDash.TotalOrders != 2 || adminDash.TotalShops != 1 || adminDash.TotalShippers != 1 {
		t.Fatalf("unexpected admin stats: %+v", adminDash)
	}
	if adminDash.UnsettledTotal.String() != "460.00" {
		t.Fatalf("expected unsettled 460.00, got %s", adminDash.UnsettledTotal.String())
	}

	// 待认领列表只看未指派的 CREATED 运单
	orders, total, err := env.orderService.ListAvailableOrders(1, 10)
	if err != nil {
		t.Fatalf("list available failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderCode != "ORD-400004" {
		t.Fatalf("unexpected available orders: total=%d", total)
	}
}
