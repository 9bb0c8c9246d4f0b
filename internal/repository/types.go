package repository

import "time"

// OrderListFilter 查询运单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	ShopID      uint
	ShipperID   uint
	Statuses    []string
	Unassigned  bool
	OrderCode   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// LedgerListFilter 查询台账列表的过滤条件
type LedgerListFilter struct {
	ShopID        uint
	ShipperID     uint
	Type          string
	UnsettledOnly bool
	SettlementIDs []uint
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// SettlementListFilter 查询结算单列表的过滤条件
type SettlementListFilter struct {
	Page      int
	PageSize  int
	ShopID    uint
	ShipperID uint
	Status    string
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	UnreadOnly bool
}
