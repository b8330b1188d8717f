package relay

import (
	"sync"
)

// Registry 维护用户ID到当前连接的在线映射。
// 纯内存结构，进程启动时为空，进程重启后所有在线状态丢失，客户端需要重新注册。
type Registry struct {
	mu      sync.RWMutex
	clients map[int]*Client
}

// NewRegistry 创建一个空的连接注册表
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[int]*Client),
	}
}

// Register 将用户与连接关联，同一用户的旧关联会被最新的覆盖
func (r *Registry) Register(userID int, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = client
}

// Unregister 在连接断开时移除对应的注册项，找不到时为空操作
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, c := range r.clients {
		if c == client {
			delete(r.clients, userID)
			return
		}
	}
}

// Lookup 查找用户当前的连接，不在线时返回 nil
func (r *Registry) Lookup(userID int) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// Count 返回当前在线连接数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
