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

// MessageService 处理私信的持久化与实时推送
type MessageService struct {
	messageRepo      interfaces.MessageRepository
	notificationRepo interfaces.NotificationRepository
	userRepo         interfaces.UserRepository
	hub              *relay.Hub
}

// NewMessageService 创建一个新的 MessageService 实例
func NewMessageService(
	messageRepo interfaces.MessageRepository,
	notificationRepo interfaces.NotificationRepository,
	userRepo interfaces.UserRepository,
	hub *relay.Hub,
) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		hub:              hub,
	}
}

// SendMessage 发送私信：先落库，再向会话房间与接收方各做一次尽力而为的推送。
// 消息与通知是两次独立写入，通知写入失败不回滚消息，仅记录日志。
func (s *MessageService) SendMessage(senderID, receiverID int, text string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, errors.New(errors.ErrBadRequest, "不能给自己发送消息")
	}

	receiver, err := s.userRepo.FindByID(receiverID)
	if err != nil {
		return nil, fmt.Errorf("查询接收方失败: %w", err)
	}
	if receiver == nil {
		return nil, errors.New(errors.ErrUserNotFound, "接收方不存在")
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("保存消息失败: %w", err)
	}

	// 推送是尽力而为：接收方不在线时消息仍在库中，下次拉取历史即可看到
	roomID := relay.RoomID(senderID, receiverID)
	s.hub.Publish(roomID, relay.OutboundEvent{Name: relay.EventReceiveMessage, Data: message})

	sender, err := s.userRepo.FindByID(senderID)
	senderName := "有人"
	if err == nil && sender != nil {
		senderName = sender.Username
	}

	notification := &model.Notification{
		UserID:  receiverID,
		Message: fmt.Sprintf("%s 给你发来了一条新消息", senderName),
		Link:    fmt.Sprintf("/chat/%d", senderID),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		util.Logger.Error("创建消息通知失败", zap.Error(err), zap.Int("receiver_id", receiverID))
	} else {
		s.hub.PushToUser(receiverID, relay.OutboundEvent{Name: relay.EventNewNotification, Data: notification})
	}

	return message, nil
}

// GetConversation 获取两个用户之间的全部消息，按时间升序
func (s *MessageService) GetConversation(userID, peerID int) ([]*model.Message, error) {
	messages, err := s.messageRepo.FindByPair(userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("查询会话消息失败: %w", err)
	}
	return messages, nil
}

// MarkMessagesRead 批量标记消息为已读，重复标记是幂等的。
// 同时作为中继 mark_as_read 事件的存储实现。
func (s *MessageService) MarkMessagesRead(messageIDs []int) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if err := s.messageRepo.MarkRead(messageIDs); err != nil {
		return fmt.Errorf("标记消息已读失败: %w", err)
	}
	return nil
}

// MessageServiceInterface 供处理器依赖的消息服务接口
type MessageServiceInterface interface {
	SendMessage(senderID, receiverID int, text string) (*model.Message, error)
	GetConversation(userID, peerID int) ([]*model.Message, error)
	MarkMessagesRead(messageIDs []int) error
}

var _ MessageServiceInterface = (*MessageService)(nil)

// 确保 MessageService 满足中继需要的存储接口
var _ relay.MessageStore = (*MessageService)(nil)
