package chat

import (
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 处理通知相关的HTTP请求
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

// NewNotificationHandler 创建一个新的 NotificationHandler 实例
func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// ListNotifications 分页查询当前用户的通知
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, err := h.notificationService.ListNotifications(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询通知失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"notifications": notifications}, "")
}

// MarkNotificationRead 标记单条通知为已读
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的通知ID", err))
		return
	}

	if err := h.notificationService.MarkNotificationRead(id, userID); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "标记通知已读失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "通知已标记为已读")
}

// MarkAllNotificationsRead 标记当前用户的全部通知为已读
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.notificationService.MarkAllNotificationsRead(userID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "标记通知已读失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "全部通知已标记为已读")
}
