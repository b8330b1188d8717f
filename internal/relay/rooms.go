package relay

import "sync"

// roomSet 维护活跃连接与房间订阅关系，读写锁保护两张表
type roomSet struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
}

func newRoomSet() *roomSet {
	return &roomSet{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

func (s *roomSet) addClient(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

// removeClient 把连接从所有房间里移除，返回该连接此前是否在册
func (s *roomSet) removeClient(client *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[client] {
		return false
	}
	delete(s.clients, client)
	for roomID, members := range s.rooms {
		if members[client] {
			delete(members, client)
			if len(members) == 0 {
				delete(s.rooms, roomID)
			}
		}
	}
	return true
}

func (s *roomSet) join(client *Client, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		s.rooms[roomID] = make(map[*Client]bool)
	}
	s.rooms[roomID][client] = true
}

// members 返回房间内的订阅连接快照，skip 不为 nil 时跳过该连接。
// 复制一份再发送，避免在持锁期间做写操作。
func (s *roomSet) members(roomID string, skip *Client) []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(room))
	for c := range room {
		if c == skip {
			continue
		}
		clients = append(clients, c)
	}
	return clients
}
