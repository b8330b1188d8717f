package model

import "time"

// Review 结构体表示用户评价模型，只追加不修改
type Review struct {
	ID             int       `json:"id"`
	ReviewerID     int       `json:"reviewer_id"`
	ReviewedUserID int       `json:"reviewed_user_id"`
	Rating         int       `json:"rating"` // 1-5
	Comment        string    `json:"comment"`
	Reviewer       *User     `json:"reviewer,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// WishlistItem 心愿单条目，(user_id, book_id) 唯一，存在即表示已收藏
type WishlistItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	BookID    int       `json:"book_id"`
	Book      *Book     `json:"book,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsletterSubscriber 订阅者模型
type NewsletterSubscriber struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
