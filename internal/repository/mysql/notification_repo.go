package mysql

import (
	"database/sql"

	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// notificationRepository 实现了 NotificationRepository 接口
type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository 创建一个新的 notificationRepository 实例
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db}
}

// Create 持久化一条通知
func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications (user_id, message, link, is_read) VALUES (?, ?, ?, ?)`
	result, err := r.db.Exec(query, notification.UserID, notification.Message,
		notification.Link, notification.IsRead)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = int(id)

	err = r.db.QueryRow(`SELECT created_at FROM notifications WHERE id = ?`, notification.ID).
		Scan(&notification.CreatedAt)
	if err != nil {
		util.Logger.Warn("回读通知创建时间失败", zap.Error(err), zap.Int("notification_id", notification.ID))
	}
	return nil
}

// FindByUser 返回某用户的通知列表，最新的在前
func (r *notificationRepository) FindByUser(userID int, page, pageSize int) ([]*model.Notification, error) {
	query := `SELECT id, user_id, message, link, is_read, created_at
              FROM notifications WHERE user_id = ?
              ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead 标记单条通知已读，返回是否有匹配的行
func (r *notificationRepository) MarkRead(id, userID int) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE notifications SET is_read = true WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// 区分"不存在"与"已是已读"：已读的重复调用视为命中
		var exists bool
		err := r.db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ? AND user_id = ?)`, id, userID).
			Scan(&exists)
		if err != nil && err != sql.ErrNoRows {
			return false, err
		}
		return exists, nil
	}
	return true, nil
}

// MarkAllRead 标记某用户的全部未读通知为已读，幂等
func (r *notificationRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND is_read = false`, userID)
	if err != nil {
		util.Logger.Error("标记全部通知已读失败", zap.Error(err), zap.Int("user_id", userID))
	}
	return err
}
