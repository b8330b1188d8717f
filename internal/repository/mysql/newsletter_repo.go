package mysql

import (
	"database/sql"

	"shelfcycle-backend/internal/model"
)

// newsletterRepository 实现了 NewsletterRepository 接口
type newsletterRepository struct {
	db *sql.DB
}

// NewNewsletterRepository 创建一个新的 newsletterRepository 实例
func NewNewsletterRepository(db *sql.DB) *newsletterRepository {
	return &newsletterRepository{db}
}

// Subscribe 添加一个订阅者，邮箱唯一
func (r *newsletterRepository) Subscribe(subscriber *model.NewsletterSubscriber) error {
	result, err := r.db.Exec(
		`INSERT INTO newsletter_subscribers (email) VALUES (?)`, subscriber.Email)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscriber.ID = int(id)
	return nil
}

// Unsubscribe 移除订阅者，返回是否有匹配的行
func (r *newsletterRepository) Unsubscribe(email string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM newsletter_subscribers WHERE email = ?`, email)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// IsSubscribed 判断邮箱是否已订阅
func (r *newsletterRepository) IsSubscribed(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM newsletter_subscribers WHERE email = ?)`, email).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}
