package relay

import "encoding/json"

// 客户端发往服务端的事件名
const (
	EventRegisterUser     = "register_user"
	EventJoinRoom         = "join_room"
	EventSendMessage      = "send_message" // 仅转发，不落库的旧路径
	EventTyping           = "typing"
	EventStopTyping       = "stop_typing"
	EventMarkAsRead       = "mark_as_read"
	EventSendNotification = "send_notification"
)

// 服务端推送给客户端的事件名
const (
	EventReceiveMessage  = "receive_message"
	EventNewNotification = "new_notification"
)

// Event 是实时通道上的统一事件信封
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// OutboundEvent 是服务端推送的事件信封
type OutboundEvent struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// RegisterUserData register_user 事件的载荷
type RegisterUserData struct {
	UserID int `json:"userId"`
}

// JoinRoomData join_room 事件的载荷
type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

// RelayMessageData send_message 事件的载荷
type RelayMessageData struct {
	RoomID  string          `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

// TypingData typing / stop_typing 事件的载荷
type TypingData struct {
	RoomID string `json:"roomId"`
	Sender int    `json:"sender,omitempty"`
}

// MarkAsReadData mark_as_read 事件的载荷
type MarkAsReadData struct {
	MessageIDs []int `json:"messageIds"`
}

// SendNotificationData send_notification 事件的载荷
type SendNotificationData struct {
	RecipientID  int             `json:"recipientId"`
	Notification json.RawMessage `json:"notification"`
}
