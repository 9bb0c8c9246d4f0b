package service

import (
	"fmt"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementService 结算服务
type SettlementService struct {
	settlementRepo      repository.SettlementRepository
	ledgerRepo          repository.LedgerRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewSettlementService 创建结算服务
func NewSettlementService(settlementRepo repository.SettlementRepository, ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository, notificationService *NotificationService) *SettlementService {
	return &SettlementService{
		settlementRepo:      settlementRepo,
		ledgerRepo:          ledgerRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// RequestSettlement 配送员发起结算：把名下全部未结算台账按商家分组，
// 每组各生成一张 PENDING 结算单并回填台账归属。所有分组在同一事务内完成。
func (s *SettlementService) RequestSettlement(shipperID uint) ([]models.Settlement, error) {
	shipper, err := s.userRepo.GetByID(shipperID)
	if err != nil {
		return nil, err
	}
	if shipper == nil {
		return nil, ErrUserNotFound
	}

	var created []models.Settlement
	err = s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		settlementRepo := s.settlementRepo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)

		ledgers, err := ledgerRepo.ListUnsettledByShipperForUpdate(shipperID)
		if err != nil {
			return err
		}
		if len(ledgers) == 0 {
			return nil
		}

		// 按商家分组，保持首次出现的顺序
		groups := make(map[uint][]models.Ledger)
		var shopOrder []uint
		for _, ledger := range ledgers {
			if _, ok := groups[ledger.ShopID]; !ok {
				shopOrder = append(shopOrder, ledger.ShopID)
			}
			groups[ledger.ShopID] = append(groups[ledger.ShopID], ledger)
		}

		for _, shopID := range shopOrder {
			group := groups[shopID]
			total := decimal.Zero
			ids := make([]uint, 0, len(group))
			for _, ledger := range group {
				total = total.Add(ledger.Amount.Decimal)
				ids = append(ids, ledger.ID)
			}
			settlement := &models.Settlement{
				ShopID:      shopID,
				ShipperID:   shipperID,
				TotalAmount: models.NewMoneyFromDecimal(total),
				Status:      constants.SettlementStatusPending,
			}
			if err := settlementRepo.Create(settlement); err != nil {
				return err
			}
			attached, err := ledgerRepo.AttachSettlement(ids, settlement.ID)
			if err != nil {
				return err
			}
			// 行数不符说明有台账被并发结算捕获，整体回滚
			if attached != int64(len(ids)) {
				return ErrLedgerAlreadySettled
			}
			created = append(created, *settlement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		logger.Infow("settlement_requested", "shipper_id", shipperID, "settlements", len(created))
		s.notifyAdminsOfRequest(shipper, created)
	}
	return created, nil
}

// AdminConfirmSettlement 管理员确认打款：PENDING → PAID，并写入一条
// 生来已结算的冲销台账，把配送员余额清回零。
func (s *SettlementService) AdminConfirmSettlement(settlementID uint) (*models.Settlement, error) {
	var settlement *models.Settlement
	err := s.settlementRepo.Transaction(func(tx *gorm.DB) error {
		settlementRepo := s.settlementRepo.WithTx(tx)
		ledgerRepo := s.ledgerRepo.WithTx(tx)

		var err error
		settlement, err = settlementRepo.GetByIDForUpdate(settlementID)
		if err != nil {
			return err
		}
		if settlement == nil {
			return ErrSettlementNotFound
		}
		if settlement.Status != constants.SettlementStatusPending {
			return ErrSettlementStatusInvalid
		}
		settlement.Status = constants.SettlementStatusPaid
		if err := settlementRepo.Save(settlement); err != nil {
			return err
		}
		offset := &models.Ledger{
			ShopID:       settlement.ShopID,
			ShipperID:    settlement.ShipperID,
			Amount:       settlement.TotalAmount.Neg(),
			Type:         constants.LedgerTypeSettlementPayment,
			SettlementID: &settlement.ID,
		}
		return ledgerRepo.Create(offset)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("settlement_paid", "settlement_id", settlement.ID, "shipper_id", settlement.ShipperID,
		"total", settlement.TotalAmount.String())
	s.notificationService.Notify(settlement.ShipperID, "结算款已支付",
		fmt.Sprintf("结算单 #%d 已打款，金额 %s 元，请与商家核对", settlement.ID, settlement.TotalAmount.String()))
	return settlement, nil
}

// ShopConfirmSettlement 商家确认收款：直接置为 CONFIRMED，不校验前置状态。
func (s *SettlementService) ShopConfirmSettlement(settlementID uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	settlement.Status = constants.SettlementStatusConfirmed
	if err := s.settlementRepo.Save(settlement); err != nil {
		return nil, err
	}

	logger.Infow("settlement_confirmed", "settlement_id", settlement.ID, "shop_id", settlement.ShopID)
	s.notificationService.Notify(settlement.ShipperID, "商家已确认收款",
		fmt.Sprintf("结算单 #%d 已被商家确认", settlement.ID))
	admins, err := s.userRepo.ListByRole(constants.RoleAdmin)
	if err != nil {
		logger.Warnw("settlement_confirm_list_admins_failed", "settlement_id", settlement.ID, "error", err)
		return settlement, nil
	}
	for _, admin := range admins {
		s.notificationService.Notify(admin.ID, "商家已确认收款",
			fmt.Sprintf("结算单 #%d 已完成确认闭环", settlement.ID))
	}
	return settlement, nil
}

// GetSettlement 查询结算单（含关联台账）
func (s *SettlementService) GetSettlement(settlementID uint) (*models.Settlement, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListSettlements 分页查询结算单
func (s *SettlementService) ListSettlements(filter repository.SettlementListFilter) ([]models.Settlement, int64, error) {
	return s.settlementRepo.List(filter)
}

// ListSettlementLedgers 查询结算单下的台账明细
func (s *SettlementService) ListSettlementLedgers(settlementID uint) ([]models.Ledger, error) {
	settlement, err := s.settlementRepo.GetByID(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return s.ledgerRepo.ListBySettlement(settlementID)
}

// notifyAdminsOfRequest 按商家分组逐张通知管理员，每条消息带商家名与该组合计。
func (s *SettlementService) notifyAdminsOfRequest(shipper *models.User, created []models.Settlement) {
	admins, err := s.userRepo.ListByRole(constants.RoleAdmin)
	if err != nil {
		logger.Warnw("settlement_request_list_admins_failed", "shipper_id", shipper.ID, "error", err)
		return
	}

	shopIDs := make([]uint, 0, len(created))
	for _, settlement := range created {
		shopIDs = append(shopIDs, settlement.ShopID)
	}
	shops, err := s.userRepo.GetByIDs(shopIDs)
	if err != nil {
		logger.Warnw("settlement_request_list_shops_failed", "shipper_id", shipper.ID, "error", err)
		shops = nil
	}
	shopNames := make(map[uint]string, len(shops))
	for _, shop := range shops {
		shopNames[shop.ID] = shop.Name
	}

	for _, settlement := range created {
		shopName := shopNames[settlement.ShopID]
		if shopName == "" {
			shopName = fmt.Sprintf("#%d", settlement.ShopID)
		}
		content := fmt.Sprintf("配送员 %s 对商家 %s 发起结算，金额 %s 元",
			shipper.Name, shopName, settlement.TotalAmount.String())
		for _, admin := range admins {
			s.notificationService.Notify(admin.ID, "新的结算申请", content)
		}
	}
}
