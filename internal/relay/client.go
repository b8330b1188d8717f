package relay

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait 向对端写入一条消息允许的最长时间
	writeWait = 10 * time.Second
	// pongWait 等待对端 pong 响应的最长时间
	pongWait = 60 * time.Second
	// pingPeriod 发送 ping 的周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 允许的最大消息字节数
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 跨域已由 CORS 中间件按前端地址放行
		return true
	},
}

// Client 表示一条已升级的 WebSocket 连接，是连接与 Hub 之间的桥梁。
// 每个连接各有一个读 goroutine 和一个写 goroutine。
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	// send 只会被写入、从不关闭，推送方与 Hub 的注销可能并发发生；
	// 写 goroutine 通过 done 感知注销并退出
	send chan OutboundEvent
	done chan struct{}
	// register_user 事件之后才有值；Hub goroutine 写、读写泵读
	userID atomic.Int64
}

// uid 返回连接关联的用户标识，尚未注册时为 0
func (c *Client) uid() int {
	return int(c.userID.Load())
}

func (c *Client) setUID(id int) {
	c.userID.Store(int64(id))
}

// ServeWS 将 HTTP 请求升级为 WebSocket 连接并接入 Hub
func ServeWS(hub *Hub, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		util.Logger.Error("WebSocket 升级失败", zap.Error(err))
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan OutboundEvent, 256),
		done: make(chan struct{}),
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump 从连接读取事件并交给 Hub，退出时触发注销
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				util.Logger.Warn("连接读取异常", zap.Int("user_id", c.uid()), zap.Error(err))
			}
			break
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			util.Logger.Warn("收到无法解析的事件", zap.Int("user_id", c.uid()), zap.Error(err))
			continue
		}

		select {
		case c.hub.route <- inbound{client: c, event: &event}:
		default:
			// Hub 事件队列已满，丢弃该事件
			util.Logger.Warn("中继事件队列已满，事件被丢弃",
				zap.Int("user_id", c.uid()),
				zap.String("event", event.Name))
		}
	}
}

// writePump 把 Hub 推送的事件写入连接，并周期性发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				util.Logger.Warn("写入事件失败", zap.Int("user_id", c.uid()), zap.Error(err))
				return
			}

		case <-c.done:
			// Hub 已注销该连接
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
