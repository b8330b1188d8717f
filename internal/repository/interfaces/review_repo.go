package interfaces

import "shelfcycle-backend/internal/model"

// ReviewRepository 定义评价数据访问接口
type ReviewRepository interface {
	Create(review *model.Review) error
	FindByReviewedUser(userID int, page, pageSize int) ([]*model.Review, error)
	AverageRating(userID int) (float64, int, error)
}

// WishlistRepository 定义心愿单数据访问接口
type WishlistRepository interface {
	Exists(userID, bookID int) (bool, error)
	Add(item *model.WishlistItem) error
	Remove(userID, bookID int) error
	ListByUser(userID int) ([]*model.WishlistItem, error)
}

// NewsletterRepository 定义订阅数据访问接口
type NewsletterRepository interface {
	Subscribe(subscriber *model.NewsletterSubscriber) error
	Unsubscribe(email string) (bool, error)
	IsSubscribed(email string) (bool, error)
}
