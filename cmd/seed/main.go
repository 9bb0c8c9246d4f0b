package main

import (
	"github.com/daishou-next/internal/config"
	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Email    string
	Password string
	Name     string
	Role     string
	Phone    string
	Address  string
}

type seedOrder struct {
	OrderCode       string
	ShopEmail       string
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
	ProductName     string
	CodAmount       float64
	ShippingFee     float64
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	users := []seedUser{
		{
			Email:    "admin@daishou.local",
			Password: "admin123",
			Name:     "平台管理员",
			Role:     constants.RoleAdmin,
		},
		{
			Email:    "shop-a@daishou.local",
			Password: "shop1234",
			Name:     "小白杂货铺",
			Role:     constants.RoleShop,
			Phone:    "0912000001",
			Address:  "台北市中山区南京东路 100 号",
		},
		{
			Email:    "shop-b@daishou.local",
			Password: "shop1234",
			Name:     "青禾食品行",
			Role:     constants.RoleShop,
			Phone:    "0912000002",
			Address:  "台中市西屯区文心路 88 号",
		},
		{
			Email:    "shipper-1@daishou.local",
			Password: "ship1234",
			Name:     "配送员阿成",
			Role:     constants.RoleShipper,
			Phone:    "0933000001",
		},
	}

	for _, item := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", item.Email).First(&existing).Error; err == nil {
			stdLog.Printf("用户已存在: %s", item.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("生成密码哈希失败: %v", err)
		}
		user := models.User{
			Email:        item.Email,
			PasswordHash: string(hash),
			Name:         item.Name,
			Phone:        item.Phone,
			Address:      item.Address,
			Role:         item.Role,
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("创建用户 %s 失败: %v", item.Email, err)
			continue
		}
		stdLog.Printf("已创建用户: %s (%s)", item.Email, item.Role)
	}

	// 商家邮箱 -> ID
	shopIDs := map[string]uint{}
	var shops []models.User
	if err := models.DB.Where("role = ?", constants.RoleShop).Find(&shops).Error; err != nil {
		stdLog.Fatalf("加载商家失败: %v", err)
	}
	for _, shop := range shops {
		shopIDs[shop.Email] = shop.ID
	}

	orders := []seedOrder{
		{
			OrderCode:       "ORD-100001",
			ShopEmail:       "shop-a@daishou.local",
			ReceiverName:    "王小明",
			ReceiverPhone:   "0988111222",
			ReceiverAddress: "新北市板桥区文化路一段 50 号",
			ProductName:     "手工饼干礼盒",
			CodAmount:       580,
			ShippingFee:     60,
		},
		{
			OrderCode:       "ORD-100002",
			ShopEmail:       "shop-a@daishou.local",
			ReceiverName:    "陈美玲",
			ReceiverPhone:   "0988333444",
			ReceiverAddress: "台北市大安区和平东路二段 20 号",
			ProductName:     "保温杯两件组",
			CodAmount:       1280,
			ShippingFee:     80,
		},
		{
			OrderCode:       "ORD-100003",
			ShopEmail:       "shop-b@daishou.local",
			ReceiverName:    "林志伟",
			ReceiverPhone:   "0988555666",
			ReceiverAddress: "台中市北区三民路三段 129 号",
			ProductName:     "冷冻水饺 3 包",
			CodAmount:       450,
			ShippingFee:     90,
		},
	}

	for _, item := range orders {
		shopID, ok := shopIDs[item.ShopEmail]
		if !ok {
			stdLog.Printf("找不到商家 %s，跳过运单 %s", item.ShopEmail, item.OrderCode)
			continue
		}
		var existing models.Order
		if err := models.DB.Where("order_code = ?", item.OrderCode).First(&existing).Error; err == nil {
			stdLog.Printf("运单已存在: %s", item.OrderCode)
			continue
		}
		cod := models.NewMoneyFromDecimal(decimal.NewFromFloat(item.CodAmount))
		fee := models.NewMoneyFromDecimal(decimal.NewFromFloat(item.ShippingFee))
		order := models.Order{
			OrderCode:       item.OrderCode,
			ShopID:          shopID,
			ReceiverName:    item.ReceiverName,
			ReceiverPhone:   item.ReceiverPhone,
			ReceiverAddress: item.ReceiverAddress,
			PickupAddress:   "商家门市自取点",
			ProductName:     item.ProductName,
			CodAmount:       &cod,
			ShippingFee:     &fee,
			Status:          constants.OrderStatusCreated,
		}
		if err := models.DB.Create(&order).Error; err != nil {
			stdLog.Printf("创建运单 %s 失败: %v", item.OrderCode, err)
			continue
		}
		stdLog.Printf("已创建运单: %s", item.OrderCode)
	}

	stdLog.Printf("种子数据初始化完成")
}
