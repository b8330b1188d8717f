package mysql

import (
	"database/sql"
	"strings"

	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// messageRepository 实现了 MessageRepository 接口
type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository 创建一个新的 messageRepository 实例
func NewMessageRepository(db *sql.DB) *messageRepository {
	return &messageRepository{db}
}

// Create 持久化一条消息
func (r *messageRepository) Create(message *model.Message) error {
	query := `INSERT INTO messages (sender_id, receiver_id, text, is_read) VALUES (?, ?, ?, ?)`
	result, err := r.db.Exec(query, message.SenderID, message.ReceiverID, message.Text, message.IsRead)
	if err != nil {
		util.Logger.Error("创建消息失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	message.ID = int(id)

	// 回读创建时间，保持返回值与库中一致
	err = r.db.QueryRow(`SELECT created_at FROM messages WHERE id = ?`, message.ID).Scan(&message.CreatedAt)
	if err != nil {
		util.Logger.Warn("回读消息创建时间失败", zap.Error(err), zap.Int("message_id", message.ID))
	}
	return nil
}

// FindByPair 返回一对用户之间的全部消息，按创建时间升序
func (r *messageRepository) FindByPair(userA, userB int) ([]*model.Message, error) {
	query := `SELECT id, sender_id, receiver_id, text, is_read, created_at
              FROM messages
              WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
              ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(query, userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// MarkRead 按ID列表批量标记已读，幂等，不匹配的ID被忽略
func (r *messageRepository) MarkRead(messageIDs []int) error {
	if len(messageIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(messageIDs)), ",")
	args := make([]interface{}, len(messageIDs))
	for i, id := range messageIDs {
		args[i] = id
	}
	query := `UPDATE messages SET is_read = true WHERE id IN (` + placeholders + `)`
	_, err := r.db.Exec(query, args...)
	if err != nil {
		util.Logger.Error("批量标记消息已读失败", zap.Error(err), zap.Ints("message_ids", messageIDs))
	}
	return err
}
