package router

import (
	"fmt"
	"strings"

	"github.com/daishou-next/internal/cache"
	"github.com/daishou-next/internal/config"
	adminhandlers "github.com/daishou-next/internal/http/handlers/admin"
	publichandlers "github.com/daishou-next/internal/http/handlers/public"
	shiphandlers "github.com/daishou-next/internal/http/handlers/shipper"
	shophandlers "github.com/daishou-next/internal/http/handlers/shop"
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/商家/配送员/管理员分组)
	publicHandler := publichandlers.New(c)
	shopHandler := shophandlers.New(c)
	shipperHandler := shiphandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ds"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	authRequired := JWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo)
	rbac := RBACMiddleware(c.AuthzService)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口（无需鉴权）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 登录后的通用接口
		me := apiV1.Group("")
		me.Use(authRequired, rbac)
		{
			me.GET("/me", publicHandler.Me)
			me.GET("/notifications", publicHandler.ListNotifications)
			me.GET("/notifications/unread-count", publicHandler.UnreadNotificationCount)
			me.PATCH("/notifications/:id/read", publicHandler.MarkNotificationRead)
			me.POST("/notifications/read-all", publicHandler.MarkAllNotificationsRead)
		}

		// 商家接口
		shop := apiV1.Group("/shop")
		shop.Use(authRequired, rbac)
		{
			shop.POST("/orders", shopHandler.CreateOrder)
			shop.GET("/orders", shopHandler.ListOrders)
			shop.GET("/orders/:id", shopHandler.GetOrder)
			shop.DELETE("/orders/:id", shopHandler.DeleteOrder)
			shop.PATCH("/orders/:id/status", shopHandler.UpdateOrderStatus)

			shop.GET("/settlements", shopHandler.ListSettlements)
			shop.GET("/settlements/:id", shopHandler.GetSettlement)
			shop.POST("/settlements/:id/confirm", shopHandler.ConfirmSettlement)

			shop.GET("/balance", shopHandler.Balance)
			shop.GET("/dashboard", shopHandler.Dashboard)
			shop.GET("/report", shopHandler.Report)
		}

		// 配送员接口
		shipper := apiV1.Group("/shipper")
		shipper.Use(authRequired, rbac)
		{
			shipper.GET("/orders", shipperHandler.ListOrders)
			shipper.GET("/orders/available", shipperHandler.ListAvailableOrders)
			shipper.GET("/orders/:id", shipperHandler.GetOrder)
			shipper.PATCH("/orders/:id/status", shipperHandler.UpdateOrderStatus)
			shipper.POST("/orders/:id/outcome", shipperHandler.RecordDeliveryOutcome)

			shipper.POST("/settlements", shipperHandler.RequestSettlement)
			shipper.GET("/settlements", shipperHandler.ListSettlements)
			shipper.GET("/settlements/:id", shipperHandler.GetSettlement)

			shipper.GET("/balance", shipperHandler.Balance)
			shipper.GET("/dashboard", shipperHandler.Dashboard)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(authRequired, rbac)
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)

			admin.GET("/settlements", adminHandler.ListSettlements)
			admin.GET("/settlements/:id", adminHandler.GetSettlement)
			admin.POST("/settlements/:id/confirm", adminHandler.ConfirmSettlement)

			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/report", adminHandler.Report)
			admin.GET("/users", adminHandler.ListUsers)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
