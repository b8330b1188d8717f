package service

import (
	"testing"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository 是 MessageRepository 接口的模拟实现
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *model.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByPair(userA, userB int) ([]*model.Message, error) {
	args := m.Called(userA, userB)
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(messageIDs []int) error {
	args := m.Called(messageIDs)
	return args.Error(0)
}

// MockNotificationRepository 是 NotificationRepository 接口的模拟实现
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *model.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByUser(userID, page, pageSize int) ([]*model.Notification, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id, userID int) (bool, error) {
	args := m.Called(id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func newTestMessageService(messageRepo *MockMessageRepository, notificationRepo *MockNotificationRepository, userRepo *MockUserRepository) *MessageService {
	hub := relay.NewHub(relay.NewRegistry(), nil)
	return NewMessageService(messageRepo, notificationRepo, userRepo, hub)
}

// TestSendMessage 测试发送私信：消息与通知两次独立写入
func TestSendMessage(t *testing.T) {
	messageRepo := new(MockMessageRepository)
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	service := newTestMessageService(messageRepo, notificationRepo, userRepo)

	userRepo.On("FindByID", 2).Return(&model.User{ID: 2, Username: "bob"}, nil)
	userRepo.On("FindByID", 1).Return(&model.User{ID: 1, Username: "alice"}, nil)
	messageRepo.On("Create", mock.AnythingOfType("*model.Message")).Return(nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(nil)

	message, err := service.SendMessage(1, 2, "你好")
	assert.NoError(t, err)
	assert.Equal(t, 1, message.SenderID)
	assert.Equal(t, 2, message.ReceiverID)
	assert.Equal(t, "你好", message.Text)
	messageRepo.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

// TestSendMessageToSelf 测试不允许给自己发消息
func TestSendMessageToSelf(t *testing.T) {
	service := newTestMessageService(new(MockMessageRepository), new(MockNotificationRepository), new(MockUserRepository))

	_, err := service.SendMessage(1, 1, "hi")
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

// TestSendMessageReceiverMissing 测试接收方不存在
func TestSendMessageReceiverMissing(t *testing.T) {
	messageRepo := new(MockMessageRepository)
	userRepo := new(MockUserRepository)
	service := newTestMessageService(messageRepo, new(MockNotificationRepository), userRepo)

	userRepo.On("FindByID", 99).Return(nil, nil)

	_, err := service.SendMessage(1, 99, "hi")
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrUserNotFound, appErr.Code)
	messageRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestSendMessageNotificationFailure 测试通知写入失败不影响消息发送
func TestSendMessageNotificationFailure(t *testing.T) {
	messageRepo := new(MockMessageRepository)
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	service := newTestMessageService(messageRepo, notificationRepo, userRepo)

	userRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	userRepo.On("FindByID", 1).Return(&model.User{ID: 1}, nil)
	messageRepo.On("Create", mock.AnythingOfType("*model.Message")).Return(nil)
	notificationRepo.On("Create", mock.AnythingOfType("*model.Notification")).Return(assert.AnError)

	message, err := service.SendMessage(1, 2, "hi")
	assert.NoError(t, err)
	assert.NotNil(t, message)
}

// TestMarkMessagesRead 测试批量标记已读
func TestMarkMessagesRead(t *testing.T) {
	messageRepo := new(MockMessageRepository)
	service := newTestMessageService(messageRepo, new(MockNotificationRepository), new(MockUserRepository))

	messageRepo.On("MarkRead", []int{1, 2}).Return(nil)
	assert.NoError(t, service.MarkMessagesRead([]int{1, 2}))

	// 空列表是空操作
	assert.NoError(t, service.MarkMessagesRead(nil))
	messageRepo.AssertExpectations(t)
}
