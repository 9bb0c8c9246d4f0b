package provider

import (
	"github.com/daishou-next/internal/authz"
	"github.com/daishou-next/internal/cache"
	"github.com/daishou-next/internal/config"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/queue"
	"github.com/daishou-next/internal/repository"
	"github.com/daishou-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	OrderRepo        repository.OrderRepository
	LedgerRepo       repository.LedgerRepository
	SettlementRepo   repository.SettlementRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	NotificationService *service.NotificationService
	OrderService        *service.OrderService
	SettlementService   *service.SettlementService
	LedgerService       *service.LedgerService
	ReportService       *service.ReportService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.LedgerRepo = repository.NewLedgerRepository(db)
	c.SettlementRepo = repository.NewSettlementRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.LedgerRepo, c.UserRepo, c.NotificationService, c.Config.Order.CodeMaxAttempts)
	c.SettlementService = service.NewSettlementService(c.SettlementRepo, c.LedgerRepo, c.UserRepo, c.NotificationService)
	c.LedgerService = service.NewLedgerService(c.LedgerRepo, c.SettlementRepo)
	c.ReportService = service.NewReportService(c.LedgerRepo, c.UserRepo)
	c.DashboardService = service.NewDashboardService(c.OrderRepo, c.UserRepo, c.LedgerService)
}
