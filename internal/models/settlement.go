package models

import (
	"time"
)

// Settlement 结算单表；一个配送员与一个商家之间的一批对账。
// total_amount 在创建时定格，之后不再根据台账重算。
type Settlement struct {
	ID          uint      `gorm:"primarykey" json:"id"`                            // 主键
	ShopID      uint      `gorm:"index;not null" json:"shop_id"`                   // 商家
	ShipperID   uint      `gorm:"index;not null" json:"shipper_id"`                // 配送员
	TotalAmount Money     `gorm:"type:decimal(20,2);not null" json:"total_amount"` // 结算总额
	Status      string    `gorm:"index;not null" json:"status"`                    // 结算状态
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                         // 更新时间

	Shop    *User    `gorm:"foreignKey:ShopID" json:"shop,omitempty"`       // 商家
	Shipper *User    `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"` // 配送员
	Ledgers []Ledger `gorm:"foreignKey:SettlementID" json:"ledgers,omitempty"` // 捕获的台账行
}

// TableName 指定表名
func (Settlement) TableName() string {
	return "settlements"
}
