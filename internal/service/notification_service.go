package service

import (
	"fmt"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/relay"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// NotificationService 处理站内通知的创建与查询
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	hub              *relay.Hub
}

// NewNotificationService 创建一个新的 NotificationService 实例
func NewNotificationService(notificationRepo interfaces.NotificationRepository, hub *relay.Hub) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, hub: hub}
}

// Notify 创建一条通知并向在线用户实时推送
func (s *NotificationService) Notify(userID int, message, link string) error {
	notification := &model.Notification{
		UserID:  userID,
		Message: message,
		Link:    link,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("创建通知失败: %w", err)
	}

	s.hub.PushToUser(userID, relay.OutboundEvent{Name: relay.EventNewNotification, Data: notification})
	return nil
}

// ListNotifications 分页查询用户的通知，按时间倒序
func (s *NotificationService) ListNotifications(userID, page, pageSize int) ([]*model.Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, err := s.notificationRepo.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询通知列表失败: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead 标记单条通知为已读，重复标记是幂等的
func (s *NotificationService) MarkNotificationRead(notificationID, userID int) error {
	found, err := s.notificationRepo.MarkRead(notificationID, userID)
	if err != nil {
		return fmt.Errorf("标记通知已读失败: %w", err)
	}
	if !found {
		return errors.New(errors.ErrResourceNotFound, "通知不存在")
	}
	return nil
}

// MarkAllNotificationsRead 将用户的全部未读通知标记为已读
func (s *NotificationService) MarkAllNotificationsRead(userID int) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		util.Logger.Error("批量标记通知已读失败", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("批量标记通知已读失败: %w", err)
	}
	return nil
}

// NotificationServiceInterface 供处理器依赖的通知服务接口
type NotificationServiceInterface interface {
	Notify(userID int, message, link string) error
	ListNotifications(userID, page, pageSize int) ([]*model.Notification, error)
	MarkNotificationRead(notificationID, userID int) error
	MarkAllNotificationsRead(userID int) error
}

var _ NotificationServiceInterface = (*NotificationService)(nil)
