package model

import "time"

// Message 结构体表示私信模型，创建后除已读标志外不可变
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Text       string    `json:"text"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification 结构体表示通知模型，由其他操作（新消息、心愿单收藏等）附带创建
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"` // 接收者
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
