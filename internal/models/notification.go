package models

import (
	"time"
)

// Notification 站内通知表
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`          // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"` // 接收用户
	Title     string    `gorm:"not null" json:"title"`         // 标题
	Content   string    `gorm:"not null" json:"content"`       // 内容
	IsRead    bool      `gorm:"index;default:false" json:"is_read"` // 是否已读
	CreatedAt time.Time `gorm:"index" json:"created_at"`       // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
