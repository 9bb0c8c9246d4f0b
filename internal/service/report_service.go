package service

import (
	"time"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService 对账报表服务
type ReportService struct {
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
}

// NewReportService 创建报表服务
func NewReportService(ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
	}
}

// ReportRow 单个运单的对账行
type ReportRow struct {
	OrderCode   string       `json:"order_code"`
	ShopName    string       `json:"shop_name"`
	ShipperName string       `json:"shipper_name"`
	DeliveredAt *time.Time   `json:"delivered_at"`
	CodAmount   models.Money `json:"cod_amount"`
	ShippingFee models.Money `json:"shipping_fee"`
	Net         models.Money `json:"net"` // 代收减运费，配送员应上缴商家的净额
	Settled     bool         `json:"settled"`
}

// Report 对账报表
type Report struct {
	Rows        []ReportRow  `json:"rows"`
	TotalCod    models.Money `json:"total_cod"`
	TotalFees   models.Money `json:"total_fees"`
	TotalNet    models.Money `json:"total_net"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ReconciliationReport 生成指定时间窗内的逐单对账报表。
// shopID、shipperID 为 0 时不过滤对应维度，管理员全局对账两者皆为 0。
func (s *ReportService) ReconciliationReport(shopID, shipperID uint, from, to *time.Time) (*Report, error) {
	ledgers, err := s.ledgerRepo.List(repository.LedgerListFilter{
		ShopID:      shopID,
		ShipperID:   shipperID,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, err
	}

	type orderAgg struct {
		order   *models.Order
		shopID  uint
		shipper uint
		cod     decimal.Decimal
		fee     decimal.Decimal
		settled bool
	}
	aggs := make(map[uint]*orderAgg)
	var orderIDs []uint
	userIDSet := make(map[uint]struct{})

	for i := range ledgers {
		ledger := ledgers[i]
		if ledger.OrderID == nil {
			// 结算冲销行不属于任何运单，不进报表
			continue
		}
		agg, ok := aggs[*ledger.OrderID]
		if !ok {
			agg = &orderAgg{order: ledger.Order, shopID: ledger.ShopID, shipper: ledger.ShipperID, settled: true}
			aggs[*ledger.OrderID] = agg
			orderIDs = append(orderIDs, *ledger.OrderID)
			userIDSet[ledger.ShopID] = struct{}{}
			userIDSet[ledger.ShipperID] = struct{}{}
		}
		switch ledger.Type {
		case constants.LedgerTypeCodCollected:
			agg.cod = agg.cod.Add(ledger.Amount.Decimal)
		case constants.LedgerTypeShippingFee:
			agg.fee = agg.fee.Add(ledger.Amount.Decimal.Abs())
		}
		if !ledger.Settled() {
			agg.settled = false
		}
	}

	names, err := s.resolveUserNames(userIDSet)
	if err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now()}
	totalCod := decimal.Zero
	totalFees := decimal.Zero
	for _, orderID := range orderIDs {
		agg := aggs[orderID]
		row := ReportRow{
			ShopName:    names[agg.shopID],
			ShipperName: names[agg.shipper],
			CodAmount:   models.NewMoneyFromDecimal(agg.cod),
			ShippingFee: models.NewMoneyFromDecimal(agg.fee),
			Net:         models.NewMoneyFromDecimal(agg.cod.Sub(agg.fee)),
			Settled:     agg.settled,
		}
		if agg.order != nil {
			row.OrderCode = agg.order.OrderCode
			row.DeliveredAt = agg.order.DeliveredAt
		}
		report.Rows = append(report.Rows, row)
		totalCod = totalCod.Add(agg.cod)
		totalFees = totalFees.Add(agg.fee)
	}
	report.TotalCod = models.NewMoneyFromDecimal(totalCod)
	report.TotalFees = models.NewMoneyFromDecimal(totalFees)
	report.TotalNet = models.NewMoneyFromDecimal(totalCod.Sub(totalFees))
	return report, nil
}

func (s *ReportService) resolveUserNames(idSet map[uint]struct{}) (map[uint]string, error) {
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names, nil
}
