package worker

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/daishou-next/internal/constants"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/provider"
	"github.com/daishou-next/internal/queue"
	"github.com/daishou-next/internal/repository"
)

func setupConsumer(t *testing.T, name string) (*Consumer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	container := &provider.Container{
		UserRepo:         repository.NewUserRepository(db),
		NotificationRepo: repository.NewNotificationRepository(db),
	}
	return NewConsumer(container), db
}

func TestHandleNotificationDispatch(t *testing.T) {
	consumer, db := setupConsumer(t, "worker_dispatch")

	user := &models.User{
		Email:        "shipper@example.com",
		PasswordHash: "x",
		Name:         "测试配送员",
		Role:         constants.RoleShipper,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	task, err := queue.NewNotificationDispatchTask(queue.NotificationDispatchPayload{
		UserID:  user.ID,
		Title:   "订单已送达",
		Content: "运单 ORD-100001 已由配送员完成签收",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleNotificationDispatch(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var notifications []models.Notification
	if err := db.Where("user_id = ?", user.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("query notifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notification count want 1 got %d", len(notifications))
	}
	if notifications[0].Title != "订单已送达" || notifications[0].IsRead {
		t.Fatalf("unexpected notification: %+v", notifications[0])
	}
}

func TestHandleNotificationDispatchSkipsUnknownUser(t *testing.T) {
	consumer, db := setupConsumer(t, "worker_dispatch_unknown")

	task, err := queue.NewNotificationDispatchTask(queue.NotificationDispatchPayload{
		UserID:  9999,
		Title:   "结算提醒",
		Content: "无人应收到这条消息",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleNotificationDispatch(context.Background(), task); err != nil {
		t.Fatalf("unknown user should not error, got: %v", err)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("notification count want 0 got %d", count)
	}
}
