package public

import (
	handlershared "github.com/daishou-next/internal/http/handlers/shared"
	"github.com/daishou-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 分页查询当前用户通知
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	notifications, total, err := h.NotificationService.ListForUser(userID, page, pageSize, unreadOnly)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询通知失败", err)
		return
	}
	response.SuccessWithPage(c, notifications, response.NewPagination(page, pageSize, total))
}

// UnreadNotificationCount 未读通知数
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.UnreadCount(userID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "查询未读数失败", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkNotificationRead 标记单条通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "通知 ID 非法", nil)
		return
	}
	if err := h.NotificationService.MarkRead(userID, notificationID); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "标记已读失败", err)
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := handlershared.CurrentUserID(c)
	if !ok {
		return
	}
	if err := h.NotificationService.MarkAllRead(userID); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "标记已读失败", err)
		return
	}
	response.Success(c, nil)
}
