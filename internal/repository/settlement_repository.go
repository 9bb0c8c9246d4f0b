package repository

import (
	"errors"

	"github.com/daishou-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementRepository 结算单数据访问接口
type SettlementRepository interface {
	Create(settlement *models.Settlement) error
	Save(settlement *models.Settlement) error
	GetByID(id uint) (*models.Settlement, error)
	GetByIDForUpdate(id uint) (*models.Settlement, error)
	List(filter SettlementListFilter) ([]models.Settlement, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormSettlementRepository
}

// GormSettlementRepository GORM 结算单仓储实现
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 创建结算单仓储
func NewSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettlementRepository) WithTx(tx *gorm.DB) *GormSettlementRepository {
	if tx == nil {
		return r
	}
	return &GormSettlementRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSettlementRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Create 创建结算单
func (r *GormSettlementRepository) Create(settlement *models.Settlement) error {
	return r.db.Create(settlement).Error
}

// Save 保存结算单
func (r *GormSettlementRepository) Save(settlement *models.Settlement) error {
	return r.db.Save(settlement).Error
}

// GetByID 按 ID 获取结算单
func (r *GormSettlementRepository) GetByID(id uint) (*models.Settlement, error) {
	if id == 0 {
		return nil, nil
	}
	var settlement models.Settlement
	if err := r.db.Preload("Shop").Preload("Shipper").First(&settlement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

// GetByIDForUpdate 按 ID 加锁获取结算单
func (r *GormSettlementRepository) GetByIDForUpdate(id uint) (*models.Settlement, error) {
	if id == 0 {
		return nil, nil
	}
	var settlement models.Settlement
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&settlement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

// List 分页查询结算单
func (r *GormSettlementRepository) List(filter SettlementListFilter) ([]models.Settlement, int64, error) {
	query := r.db.Model(&models.Settlement{})
	if filter.ShopID != 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.ShipperID != 0 {
		query = query.Where("shipper_id = ?", filter.ShipperID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var settlements []models.Settlement
	if err := query.Preload("Shop").Preload("Shipper").
		Order("id DESC").Find(&settlements).Error; err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}
