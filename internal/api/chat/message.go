package chat

import (
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageHandler 处理私信相关的HTTP请求
type MessageHandler struct {
	messageService service.MessageServiceInterface
}

// NewMessageHandler 创建一个新的 MessageHandler 实例
func NewMessageHandler(messageService service.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{messageService}
}

// SendMessage 发送私信：落库后向在线的接收方实时推送
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetInt("user_id")

	var messageData struct {
		ReceiverID int    `json:"receiver_id" binding:"required"`
		Text       string `json:"text" binding:"required"`
	}

	if err := c.ShouldBindJSON(&messageData); err != nil {
		util.Logger.Warn("发送消息失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	message, err := h.messageService.SendMessage(userID, messageData.ReceiverID, messageData.Text)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "发送消息失败", err))
		return
	}

	errors.HandleCreated(c, gin.H{"message": message}, "消息已发送")
}

// GetConversation 获取当前用户与指定用户的会话历史，按时间升序
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID := c.GetInt("user_id")
	peerID, err := strconv.Atoi(c.Param("peerId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	messages, err := h.messageService.GetConversation(userID, peerID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询会话失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"messages": messages}, "")
}

// MarkMessagesRead 批量标记消息为已读
func (h *MessageHandler) MarkMessagesRead(c *gin.Context) {
	var readData struct {
		MessageIDs []int `json:"message_ids" binding:"required"`
	}

	if err := c.ShouldBindJSON(&readData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.messageService.MarkMessagesRead(readData.MessageIDs); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "标记已读失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "消息已标记为已读")
}
