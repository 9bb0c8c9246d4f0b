package models

import (
	"time"
)

// Ledger 资金台账表；每行是一条带符号的不可变资金事实。
// 唯一允许的变更是首次写入 settlement_id（记账行被结算单冻结）。
type Ledger struct {
	ID           uint      `gorm:"primarykey" json:"id"`                      // 主键
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`           // 关联运单（结算冲抵行为空）
	ShopID       uint      `gorm:"index;not null" json:"shop_id"`             // 商家
	ShipperID    uint      `gorm:"index;not null" json:"shipper_id"`          // 配送员
	Amount       Money     `gorm:"type:decimal(20,2);not null" json:"amount"` // 带符号金额
	Type         string    `gorm:"index;not null" json:"type"`                // 台账类型
	SettlementID *uint     `gorm:"index" json:"settlement_id,omitempty"`      // 结算单（未结算时为空）
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                   // 创建时间

	Order      *Order      `gorm:"foreignKey:OrderID" json:"order,omitempty"`           // 运单
	Settlement *Settlement `gorm:"foreignKey:SettlementID" json:"settlement,omitempty"` // 结算单
}

// TableName 指定表名
func (Ledger) TableName() string {
	return "ledgers"
}

// Settled 判断记账行是否已被结算单捕获
func (l Ledger) Settled() bool {
	return l.SettlementID != nil
}
