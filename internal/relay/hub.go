package relay

import (
	"encoding/json"

	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// MessageStore 是中继处理 mark_as_read 事件所需的最小持久化接口
type MessageStore interface {
	MarkMessagesRead(messageIDs []int) error
}

// inbound 将客户端事件与其来源连接绑定后交给 Hub 处理
type inbound struct {
	client *Client
	event  *Event
}

// Hub 是实时中继的核心：维护在线注册表与房间订阅，
// 并向房间或指定用户做尽力而为的事件推送。
// 所有状态仅存于本进程内存，多进程部署需要额外的扇出层，当前不在范围内。
type Hub struct {
	registry *Registry
	rooms    *roomSet
	store    MessageStore

	register   chan *Client
	unregister chan *Client
	route      chan inbound
}

// NewHub 创建中继 Hub，store 用于处理通道上的批量已读更新。
// 创建后需以 goroutine 方式启动 Run。
func NewHub(registry *Registry, store MessageStore) *Hub {
	return &Hub{
		registry:   registry,
		rooms:      newRoomSet(),
		store:      store,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		route:      make(chan inbound, 256), // 缓冲以应对事件突发
	}
}

// Registry 返回 Hub 使用的连接注册表
func (h *Hub) Registry() *Registry {
	return h.registry
}

// SetStore 设置已读更新的存储实现，必须在 Run 之前调用。
// 消息服务依赖 Hub 做推送，Hub 又依赖消息服务落库，靠此方法拆开构造顺序。
func (h *Hub) SetStore(store MessageStore) {
	h.store = store
}

// Run 启动 Hub 的事件循环，应作为 goroutine 运行
func (h *Hub) Run() {
	util.Logger.Info("中继事件循环启动")
	for {
		select {
		case client := <-h.register:
			h.rooms.addClient(client)
		case client := <-h.unregister:
			h.handleDisconnect(client)
		case in := <-h.route:
			h.handleEvent(in.client, in.event)
		}
	}
}

// handleDisconnect 处理连接断开：移除注册项并退出所有房间。
// 不关闭 send 通道：推送方可能持有注销前的成员快照，
// 向已关闭通道发送会崩溃，写 goroutine 改由 done 通知退出。
func (h *Hub) handleDisconnect(client *Client) {
	if !h.rooms.removeClient(client) {
		return
	}
	h.registry.Unregister(client)
	close(client.done)
	util.Logger.Info("连接已断开", zap.Int("user_id", client.uid()))
}

// handleEvent 根据事件名分发处理客户端事件
func (h *Hub) handleEvent(client *Client, event *Event) {
	switch event.Name {
	case EventRegisterUser:
		var data RegisterUserData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.UserID == 0 {
			util.Logger.Warn("无效的 register_user 载荷", zap.Error(err))
			return
		}
		client.setUID(data.UserID)
		h.registry.Register(data.UserID, client)
		util.Logger.Info("用户连接注册成功", zap.Int("user_id", data.UserID))

	case EventJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.RoomID == "" {
			util.Logger.Warn("无效的 join_room 载荷", zap.Error(err))
			return
		}
		h.rooms.join(client, data.RoomID)
		util.Logger.Info("加入房间", zap.Int("user_id", client.uid()), zap.String("room_id", data.RoomID))

	case EventSendMessage:
		// 旧的仅转发路径：消息不落库，直接转发到房间
		var data RelayMessageData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.RoomID == "" {
			util.Logger.Warn("无效的 send_message 载荷", zap.Error(err))
			return
		}
		h.Publish(data.RoomID, OutboundEvent{Name: EventReceiveMessage, Data: data.Message})

	case EventTyping:
		var data TypingData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.RoomID == "" {
			return
		}
		// 输入指示是瞬时事件，不发回给输入者本人
		h.publishExcept(data.RoomID, client, OutboundEvent{Name: EventTyping, Data: data})

	case EventStopTyping:
		var data TypingData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.RoomID == "" {
			return
		}
		h.publishExcept(data.RoomID, client, OutboundEvent{Name: EventStopTyping, Data: data})

	case EventMarkAsRead:
		var data MarkAsReadData
		if err := json.Unmarshal(event.Data, &data); err != nil || len(data.MessageIDs) == 0 {
			return
		}
		if h.store == nil {
			return
		}
		if err := h.store.MarkMessagesRead(data.MessageIDs); err != nil {
			util.Logger.Error("批量标记消息已读失败", zap.Error(err), zap.Ints("message_ids", data.MessageIDs))
		}

	case EventSendNotification:
		var data SendNotificationData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.RecipientID == 0 {
			return
		}
		h.PushToUser(data.RecipientID, OutboundEvent{Name: EventNewNotification, Data: data.Notification})

	default:
		util.Logger.Warn("未知的事件类型", zap.String("event", event.Name), zap.Int("user_id", client.uid()))
	}
}

// Publish 将事件扇出到房间内的所有订阅连接。
// 没有任何订阅者时为空操作；持久化记录才是事实来源，推送只是尽力而为。
func (h *Hub) Publish(roomID string, event OutboundEvent) {
	h.publishExcept(roomID, nil, event)
}

func (h *Hub) publishExcept(roomID string, skip *Client, event OutboundEvent) {
	clients := h.rooms.members(roomID, skip)
	for _, c := range clients {
		h.deliver(c, event)
	}
}

// PushToUser 通过注册表向指定用户的连接做定向推送，用户不在线时静默丢弃
func (h *Hub) PushToUser(userID int, event OutboundEvent) {
	client := h.registry.Lookup(userID)
	if client == nil {
		return
	}
	h.deliver(client, event)
}

// deliver 发送事件到连接的发送缓冲；缓冲已满说明客户端过慢或已死，
// 安排其注销，绝不阻塞调用方
func (h *Hub) deliver(client *Client, event OutboundEvent) {
	select {
	case client.send <- event:
	default:
		util.Logger.Warn("连接发送缓冲已满，安排注销", zap.Int("user_id", client.uid()))
		go func(c *Client) { h.unregister <- c }(client)
	}
}
