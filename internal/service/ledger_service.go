package service

import (
	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"

	"github.com/shopspring/decimal"
)

// LedgerService 台账与余额服务。余额不落库，每次由台账行推导。
type LedgerService struct {
	ledgerRepo     repository.LedgerRepository
	settlementRepo repository.SettlementRepository
}

// NewLedgerService 创建台账服务
func NewLedgerService(ledgerRepo repository.LedgerRepository, settlementRepo repository.SettlementRepository) *LedgerService {
	return &LedgerService{
		ledgerRepo:     ledgerRepo,
		settlementRepo: settlementRepo,
	}
}

// BalanceSummary 未结算余额汇总
type BalanceSummary struct {
	NetUnsettled  models.Money `json:"net_unsettled"`  // 未结算净额，正数表示配送员手上有商家的钱
	ShipperOwes   models.Money `json:"shipper_owes"`   // 配送员应上缴金额 max(0, net)
	ShopOwes      models.Money `json:"shop_owes"`      // 商家应补付金额 max(0, -net)
	SettledAmount models.Money `json:"settled_amount"` // 已确认结算单回链台账行的金额合计，完整闭环后归零
	EntryCount    int          `json:"entry_count"`    // 参与计算的未结算台账行数
}

// Balance 推导某商家/配送员组合的未结算余额；shopID、shipperID 允许其一为 0。
func (s *LedgerService) Balance(shopID, shipperID uint) (*BalanceSummary, error) {
	ledgers, err := s.ledgerRepo.List(repository.LedgerListFilter{
		ShopID:        shopID,
		ShipperID:     shipperID,
		UnsettledOnly: true,
	})
	if err != nil {
		return nil, err
	}

	net := decimal.Zero
	for _, ledger := range ledgers {
		net = net.Add(ledger.Amount.Decimal)
	}

	summary := &BalanceSummary{
		NetUnsettled:  models.NewMoneyFromDecimal(net),
		ShipperOwes:   models.NewMoneyFromDecimal(decimal.Max(net, decimal.Zero)),
		ShopOwes:      models.NewMoneyFromDecimal(decimal.Max(net.Neg(), decimal.Zero)),
		EntryCount:    len(ledgers),
	}

	settled, err := s.settledTotal(shopID, shipperID)
	if err != nil {
		return nil, err
	}
	summary.SettledAmount = models.NewMoneyFromDecimal(settled)
	return summary, nil
}

// ShipperSummary 配送员累计经营数据
type ShipperSummary struct {
	TotalCodCollected models.Money `json:"total_cod_collected"` // 累计代收货款
	TotalShippingFees models.Money `json:"total_shipping_fees"` // 累计运费收入（取正值）
}

// SummarizeShipper 汇总配送员的累计代收与运费
func (s *LedgerService) SummarizeShipper(shipperID uint) (*ShipperSummary, error) {
	ledgers, err := s.ledgerRepo.List(repository.LedgerListFilter{ShipperID: shipperID})
	if err != nil {
		return nil, err
	}
	cod := decimal.Zero
	fees := decimal.Zero
	for _, ledger := range ledgers {
		switch ledger.Type {
		case constants.LedgerTypeCodCollected:
			cod = cod.Add(ledger.Amount.Decimal)
		case constants.LedgerTypeShippingFee:
			fees = fees.Add(ledger.Amount.Decimal.Abs())
		}
	}
	return &ShipperSummary{
		TotalCodCollected: models.NewMoneyFromDecimal(cod),
		TotalShippingFees: models.NewMoneyFromDecimal(fees),
	}, nil
}

// ListLedgers 按条件查询台账明细
func (s *LedgerService) ListLedgers(filter repository.LedgerListFilter) ([]models.Ledger, error) {
	return s.ledgerRepo.List(filter)
}

// settledTotal 对已确认结算单回链的台账行求和。完整闭环后
// 代收、运费与上缴冲销行互相抵消，结果归零。
func (s *LedgerService) settledTotal(shopID, shipperID uint) (decimal.Decimal, error) {
	settlements, _, err := s.settlementRepo.List(repository.SettlementListFilter{
		ShopID:    shopID,
		ShipperID: shipperID,
		Status:    constants.SettlementStatusConfirmed,
	})
	if err != nil {
		return decimal.Zero, err
	}
	if len(settlements) == 0 {
		return decimal.Zero, nil
	}
	ids := make([]uint, 0, len(settlements))
	for _, settlement := range settlements {
		ids = append(ids, settlement.ID)
	}
	ledgers, err := s.ledgerRepo.List(repository.LedgerListFilter{SettlementIDs: ids})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, ledger := range ledgers {
		total = total.Add(ledger.Amount.Decimal)
	}
	return total, nil
}
