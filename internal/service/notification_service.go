package service

import (
	"github.com/daishou-next/internal/logger"
	"github.com/daishou-next/internal/models"
	"github.com/daishou-next/internal/queue"
	"github.com/daishou-next/internal/repository"
)

// NotificationService 站内通知服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	queueClient      *queue.Client
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository, queueClient *queue.Client) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		queueClient:      queueClient,
	}
}

// Notify 尽力而为地投递一条站内通知。
// 队列可用时走异步投递，入队失败降级为直接写库；写库失败仅记日志，不向调用方返回错误。
func (s *NotificationService) Notify(userID uint, title, content string) {
	if userID == 0 {
		return
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueNotificationDispatch(queue.NotificationDispatchPayload{
			UserID:  userID,
			Title:   title,
			Content: content,
		})
		if err == nil {
			return
		}
		logger.Warnw("notification_enqueue_failed", "user_id", userID, "title", title, "error", err)
	}
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Warnw("notification_persist_failed", "user_id", userID, "title", title, "error", err)
	}
}

// NotifyAll 向一组用户逐一投递同一条通知
func (s *NotificationService) NotifyAll(userIDs []uint, title, content string) {
	for _, id := range userIDs {
		s.Notify(id, title, content)
	}
}

// ListForUser 分页查询用户通知
func (s *NotificationService) ListForUser(userID uint, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
}

// UnreadCount 统计用户未读通知数
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead 标记单条通知为已读
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return s.notificationRepo.MarkRead(userID, notificationID)
}

// MarkAllRead 标记用户全部通知为已读
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}
