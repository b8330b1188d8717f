package interfaces

import "shelfcycle-backend/internal/model"

// MessageRepository 定义私信数据访问接口
type MessageRepository interface {
	Create(message *model.Message) error
	FindByPair(userA, userB int) ([]*model.Message, error)
	MarkRead(messageIDs []int) error
}

// NotificationRepository 定义通知数据访问接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUser(userID int, page, pageSize int) ([]*model.Notification, error)
	MarkRead(id, userID int) (bool, error)
	MarkAllRead(userID int) error
}
