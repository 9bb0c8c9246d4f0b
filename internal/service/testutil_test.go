package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/daishou-next/internal/config"
	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/queue"
	"github.com/daishou-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// serviceTestEnv 服务层测试夹具，队列关闭，通知直接落库
type serviceTestEnv struct {
	db                  *gorm.DB
	orderRepo           repository.OrderRepository
	ledgerRepo          repository.LedgerRepository
	settlementRepo      repository.SettlementRepository
	notificationRepo    repository.NotificationRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
	orderService        *OrderService
	settlementService   *SettlementService
	ledgerService       *LedgerService
}

func setupServiceTest(t *testing.T, name string) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Ledger{},
		&models.Settlement{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}

	env := &serviceTestEnv{
		db:               db,
		orderRepo:        repository.NewOrderRepository(db),
		ledgerRepo:       repository.NewLedgerRepository(db),
		settlementRepo:   repository.NewSettlementRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		userRepo:         repository.NewUserRepository(db),
	}
	env.notificationService = NewNotificationService(env.notificationRepo, queueClient)
	env.orderService = NewOrderService(env.orderRepo, env.ledgerRepo, env.userRepo, env.notificationService, 100)
	env.settlementService = NewSettlementService(env.settlementRepo, env.ledgerRepo, env.userRepo, env.notificationService)
	env.ledgerService = NewLedgerService(env.ledgerRepo, env.settlementRepo)
	return env
}

func createTestUser(t *testing.T, db *gorm.DB, id uint, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("user_%d@example.com", id),
		PasswordHash: "hash",
		Name:         fmt.Sprintf("用户%d", id),
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestOrder(t *testing.T, db *gorm.DB, shopID uint, code string, cod, fee int64) *models.Order {
	t.Helper()
	codAmount := models.NewMoneyFromInt(cod)
	shippingFee := models.NewMoneyFromInt(fee)
	order := &models.Order{
		OrderCode:       code,
		ShopID:          shopID,
		ReceiverName:    "张三",
		ReceiverPhone:   "13800000000",
		ReceiverAddress: "收件地址",
		PickupAddress:   "取件地址",
		ProductName:     "测试货品",
		CodAmount:       &codAmount,
		ShippingFee:     &shippingFee,
		Status:          constants.OrderStatusCreated,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func unsettledNet(t *testing.T, db *gorm.DB, shipperID uint) decimal.Decimal {
	t.Helper()
	var ledgers []models.Ledger
	if err := db.Where("shipper_id = ? AND settlement_id IS NULL", shipperID).Find(&ledgers).Error; err != nil {
		t.Fatalf("load ledgers failed: %v", err)
	}
	net := decimal.Zero
	for _, ledger := range ledgers {
		net = net.Add(ledger.Amount.Decimal)
	}
	return net
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	return count
}
