package repository

import (
	"github.com/daishou-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository 台账数据访问接口。
// 台账行只增不改，唯一例外是 AttachSettlement 首次写入 settlement_id。
type LedgerRepository interface {
	Create(ledger *models.Ledger) error
	ListUnsettledByShipperForUpdate(shipperID uint) ([]models.Ledger, error)
	AttachSettlement(ledgerIDs []uint, settlementID uint) (int64, error)
	List(filter LedgerListFilter) ([]models.Ledger, error)
	ListBySettlement(settlementID uint) ([]models.Ledger, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormLedgerRepository
}

// GormLedgerRepository GORM 台账仓储实现
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建台账仓储
func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) *GormLedgerRepository {
	if tx == nil {
		return r
	}
	return &GormLedgerRepository{db: tx}
}

// Transaction 执行事务
func (r *GormLedgerRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 写入台账行
func (r *GormLedgerRepository) Create(ledger *models.Ledger) error {
	return r.db.Create(ledger).Error
}

// ListUnsettledByShipperForUpdate 加锁读取配送员的全部未结算台账行
func (r *GormLedgerRepository) ListUnsettledByShipperForUpdate(shipperID uint) ([]models.Ledger, error) {
	if shipperID == 0 {
		return []models.Ledger{}, nil
	}
	var ledgers []models.Ledger
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shipper_id = ? AND settlement_id IS NULL", shipperID).
		Order("id").
		Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}

// AttachSettlement 将结算单号写入一批未结算台账行并返回实际冻结行数。
// WHERE 条件重申 settlement_id IS NULL，已被其他结算单捕获的行不会被改写。
func (r *GormLedgerRepository) AttachSettlement(ledgerIDs []uint, settlementID uint) (int64, error) {
	if len(ledgerIDs) == 0 || settlementID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Ledger{}).
		Where("id IN ? AND settlement_id IS NULL", ledgerIDs).
		Update("settlement_id", settlementID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List 按条件查询台账行
func (r *GormLedgerRepository) List(filter LedgerListFilter) ([]models.Ledger, error) {
	query := r.db.Model(&models.Ledger{})
	if filter.ShopID != 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.ShipperID != 0 {
		query = query.Where("shipper_id = ?", filter.ShipperID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.UnsettledOnly {
		query = query.Where("settlement_id IS NULL")
	}
	if len(filter.SettlementIDs) > 0 {
		query = query.Where("settlement_id IN ?", filter.SettlementIDs)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var ledgers []models.Ledger
	if err := query.Preload("Order").Preload("Settlement").
		Order("id").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}

// ListBySettlement 查询结算单捕获的台账行
func (r *GormLedgerRepository) ListBySettlement(settlementID uint) ([]models.Ledger, error) {
	if settlementID == 0 {
		return []models.Ledger{}, nil
	}
	var ledgers []models.Ledger
	if err := r.db.Where("settlement_id = ?", settlementID).Order("id").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}
