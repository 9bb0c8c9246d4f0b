package service

import (
	"context"
	"time"

	"github.com/daishou-next/internal/cache"
	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/repository"
)

const adminDashboardCacheKey = "dashboard:admin"
const adminDashboardCacheTTL = 30 * time.Second

// DashboardService 各角色工作台数据
type DashboardService struct {
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	ledgerService *LedgerService
}

// NewDashboardService 创建工作台服务
func NewDashboardService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, ledgerService *LedgerService) *DashboardService {
	return &DashboardService{
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		ledgerService: ledgerService,
	}
}

var activeOrderStatuses = []string{
	constants.OrderStatusCreated,
	constants.OrderStatusAssigned,
	constants.OrderStatusPickedUp,
	constants.OrderStatusDelivering,
}

// ShopDashboard 商家工作台
type ShopDashboard struct {
	TotalOrders   int64        `json:"total_orders"`
	ActiveOrders  int64        `json:"active_orders"`
	SuccessOrders int64        `json:"success_orders"`
	FailedOrders  int64        `json:"failed_orders"`
	Receivable    models.Money `json:"receivable"` // 配送员尚未上缴的代收净额
	Payable       models.Money `json:"payable"`    // 商家欠配送员的净额
	SettledAmount models.Money `json:"settled_amount"`
}

// ShopStats 汇总商家工作台数据
func (s *DashboardService) ShopStats(shopID uint) (*ShopDashboard, error) {
	dash := &ShopDashboard{}
	var err error
	if dash.TotalOrders, err = s.orderRepo.CountByShop(shopID); err != nil {
		return nil, err
	}
	if dash.ActiveOrders, err = s.countOrders(repository.OrderListFilter{ShopID: shopID, Statuses: activeOrderStatuses}); err != nil {
		return nil, err
	}
	if dash.SuccessOrders, err = s.countOrders(repository.OrderListFilter{ShopID: shopID, Statuses: []string{constants.OrderStatusDeliveredSuccess}}); err != nil {
		return nil, err
	}
	if dash.FailedOrders, err = s.countOrders(repository.OrderListFilter{ShopID: shopID, Statuses: []string{constants.OrderStatusDeliveryFailed}}); err != nil {
		return nil, err
	}
	balance, err := s.ledgerService.Balance(shopID, 0)
	if err != nil {
		return nil, err
	}
	dash.Receivable = balance.ShipperOwes
	dash.Payable = balance.ShopOwes
	dash.SettledAmount = balance.SettledAmount
	return dash, nil
}

// ShipperDashboard 配送员工作台
type ShipperDashboard struct {
	ActiveOrders      int64        `json:"active_orders"`
	DeliveredToday    int64        `json:"delivered_today"`
	TotalDelivered    int64        `json:"total_delivered"`
	TotalFailed       int64        `json:"total_failed"`
	CashInHand        models.Money `json:"cash_in_hand"` // 待上缴的代收净额 max(0, net)
	OwedByShops       models.Money `json:"owed_by_shops"`
	TotalCodCollected models.Money `json:"total_cod_collected"`
	TotalShippingFees models.Money `json:"total_shipping_fees"`
}

// ShipperStats 汇总配送员工作台数据
func (s *DashboardService) ShipperStats(shipperID uint) (*ShipperDashboard, error) {
	dash := &ShipperDashboard{}
	var err error
	if dash.ActiveOrders, err = s.countOrders(repository.OrderListFilter{ShipperID: shipperID, Statuses: activeOrderStatuses}); err != nil {
		return nil, err
	}
	if dash.TotalDelivered, err = s.countOrders(repository.OrderListFilter{ShipperID: shipperID, Statuses: []string{constants.OrderStatusDeliveredSuccess}}); err != nil {
		return nil, err
	}
	if dash.TotalFailed, err = s.countOrders(repository.OrderListFilter{ShipperID: shipperID, Statuses: []string{constants.OrderStatusDeliveryFailed}}); err != nil {
		return nil, err
	}
	today := startOfDay(time.Now())
	if dash.DeliveredToday, err = s.countOrders(repository.OrderListFilter{
		ShipperID:   shipperID,
		Statuses:    []string{constants.OrderStatusDeliveredSuccess},
		CreatedFrom: &today,
	}); err != nil {
		return nil, err
	}
	balance, err := s.ledgerService.Balance(0, shipperID)
	if err != nil {
		return nil, err
	}
	dash.CashInHand = balance.ShipperOwes
	dash.OwedByShops = balance.ShopOwes
	summary, err := s.ledgerService.SummarizeShipper(shipperID)
	if err != nil {
		return nil, err
	}
	dash.TotalCodCollected = summary.TotalCodCollected
	dash.TotalShippingFees = summary.TotalShippingFees
	return dash, nil
}

// AdminDashboard 管理员工作台
type AdminDashboard struct {
	TotalOrders    int64        `json:"total_orders"`
	ActiveOrders   int64        `json:"active_orders"`
	TotalShops     int64        `json:"total_shops"`
	TotalShippers  int64        `json:"total_shippers"`
	UnsettledTotal models.Money `json:"unsettled_total"` // 全平台未结算净额
}

// AdminStats 汇总管理员工作台数据，Redis 可用时短暂缓存
func (s *DashboardService) AdminStats() (*AdminDashboard, error) {
	ctx := context.Background()
	cached := &AdminDashboard{}
	if hit, err := cache.GetJSON(ctx, adminDashboardCacheKey, cached); err != nil {
		logger.Warnw("admin_dashboard_cache_read_failed", "error", err)
	} else if hit {
		return cached, nil
	}

	dash := &AdminDashboard{}
	var err error
	if dash.TotalOrders, err = s.orderRepo.CountAll(); err != nil {
		return nil, err
	}
	if dash.ActiveOrders, err = s.countOrders(repository.OrderListFilter{Statuses: activeOrderStatuses}); err != nil {
		return nil, err
	}
	if dash.TotalShops, err = s.userRepo.CountByRole(constants.RoleShop); err != nil {
		return nil, err
	}
	if dash.TotalShippers, err = s.userRepo.CountByRole(constants.RoleShipper); err != nil {
		return nil, err
	}
	balance, err := s.ledgerService.Balance(0, 0)
	if err != nil {
		return nil, err
	}
	dash.UnsettledTotal = balance.NetUnsettled

	if err := cache.SetJSON(ctx, adminDashboardCacheKey, dash, adminDashboardCacheTTL); err != nil {
		logger.Warnw("admin_dashboard_cache_write_failed", "error", err)
	}
	return dash, nil
}

// InvalidateAdminStats 清除管理员工作台缓存（结算确认后未结算净额已变化）
func (s *DashboardService) InvalidateAdminStats() {
	if err := cache.Del(context.Background(), adminDashboardCacheKey); err != nil {
		logger.Warnw("admin_dashboard_cache_del_failed", "error", err)
	}
}

func (s *DashboardService) countOrders(filter repository.OrderListFilter) (int64, error) {
	filter.Page = 1
	filter.PageSize = 1
	_, total, err := s.orderRepo.List(filter)
	return total, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
