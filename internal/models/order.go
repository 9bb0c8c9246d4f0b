package models

import (
	"time"
)

// Order 运单表
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                    // 主键
	OrderCode       string     `gorm:"uniqueIndex;not null" json:"order_code"`  // 运单编号
	ShopID          uint       `gorm:"index;not null" json:"shop_id"`           // 所属商家
	ShipperID       *uint      `gorm:"index" json:"shipper_id,omitempty"`       // 配送员（接单前为空）
	ReceiverName    string     `gorm:"not null" json:"receiver_name"`           // 收件人姓名
	ReceiverPhone   string     `gorm:"not null" json:"receiver_phone"`          // 收件人电话
	ReceiverAddress string     `gorm:"not null" json:"receiver_address"`        // 收件地址
	PickupAddress   string     `gorm:"not null" json:"pickup_address"`          // 取件地址
	ProductName     string     `gorm:"not null" json:"product_name"`            // 货品名称
	Weight          *float64   `json:"weight,omitempty"`                        // 重量（克）
	Dimensions      string     `gorm:"default:''" json:"dimensions,omitempty"`  // 尺寸（长x宽x高）
	CodAmount       *Money     `gorm:"type:decimal(20,2)" json:"cod_amount"`    // 代收金额
	ShippingFee     *Money     `gorm:"type:decimal(20,2)" json:"shipping_fee"`  // 运费
	Status          string     `gorm:"index;not null" json:"status"`            // 运单状态
	Note            string     `gorm:"default:''" json:"note,omitempty"`        // 商家备注
	ShipperNote     string     `gorm:"default:''" json:"shipper_note,omitempty"` // 配送备注（如是否可拆包验货）
	AllowInspection string     `gorm:"default:''" json:"allow_inspection,omitempty"` // 允许验货（YES/NO）
	DeliveredAt     *time.Time `gorm:"index" json:"delivered_at"`               // 妥投时间（仅成功时写入）
	FailedAt        *time.Time `gorm:"index" json:"failed_at"`                  // 失败时间（仅失败时写入）
	FailReason      string     `gorm:"default:''" json:"fail_reason,omitempty"` // 失败原因
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt       time.Time  `gorm:"index" json:"updated_at"`                 // 更新时间

	Shop    *User `gorm:"foreignKey:ShopID" json:"shop,omitempty"`       // 商家
	Shipper *User `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"` // 配送员
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
