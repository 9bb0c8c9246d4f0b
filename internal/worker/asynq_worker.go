package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/provider"
	"github.com/daishou-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
}

func (c *Consumer) handleNotificationDispatch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_dispatch_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || strings.TrimSpace(payload.Title) == "" {
		logger.Debugw("worker_notification_dispatch_skip_invalid_payload",
			"user_id", payload.UserID,
			"title", payload.Title,
		)
		return nil
	}
	user, err := c.UserRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_notification_dispatch_fetch_user_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil {
		logger.Debugw("worker_notification_dispatch_skip_user_not_found", "user_id", payload.UserID)
		return nil
	}
	notification := &models.Notification{
		UserID:  payload.UserID,
		Title:   strings.TrimSpace(payload.Title),
		Content: strings.TrimSpace(payload.Content),
	}
	if err := c.NotificationRepo.Create(notification); err != nil {
		logger.Warnw("worker_notification_dispatch_create_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	return nil
}
