package service

import (
	"fmt"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// WishlistService 处理心愿单的业务逻辑
type WishlistService struct {
	wishlistRepo        interfaces.WishlistRepository
	bookRepo            interfaces.BookRepository
	userRepo            interfaces.UserRepository
	notificationService NotificationServiceInterface
}

// NewWishlistService 创建一个新的 WishlistService 实例
func NewWishlistService(
	wishlistRepo interfaces.WishlistRepository,
	bookRepo interfaces.BookRepository,
	userRepo interfaces.UserRepository,
	notificationService NotificationServiceInterface,
) *WishlistService {
	return &WishlistService{
		wishlistRepo:        wishlistRepo,
		bookRepo:            bookRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Toggle 切换收藏状态：已收藏则取消，未收藏则加入。
// 返回切换后是否处于收藏状态。加入收藏时通知书籍发布者。
func (s *WishlistService) Toggle(userID, bookID int) (bool, error) {
	book, err := s.bookRepo.FindByID(bookID)
	if err != nil {
		return false, fmt.Errorf("查询书籍失败: %w", err)
	}
	if book == nil {
		return false, errors.New(errors.ErrBookNotFound, "书籍不存在")
	}

	exists, err := s.wishlistRepo.Exists(userID, bookID)
	if err != nil {
		return false, fmt.Errorf("查询收藏状态失败: %w", err)
	}

	if exists {
		if err := s.wishlistRepo.Remove(userID, bookID); err != nil {
			return false, fmt.Errorf("取消收藏失败: %w", err)
		}
		return false, nil
	}

	if err := s.wishlistRepo.Add(&model.WishlistItem{UserID: userID, BookID: bookID}); err != nil {
		return false, fmt.Errorf("加入收藏失败: %w", err)
	}

	// 收藏自己的书不产生通知
	if book.UploadedBy != userID {
		if err := s.notificationService.Notify(
			book.UploadedBy,
			fmt.Sprintf("有人收藏了你的书籍《%s》", book.Title),
			fmt.Sprintf("/books/%d", book.ID),
		); err != nil {
			util.Logger.Error("发送收藏通知失败", zap.Error(err), zap.Int("book_id", bookID))
		}
	}

	return true, nil
}

// ListWishlist 获取用户的心愿单，附带书籍信息
func (s *WishlistService) ListWishlist(userID int) ([]*model.WishlistItem, error) {
	items, err := s.wishlistRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("查询心愿单失败: %w", err)
	}
	return items, nil
}

// WishlistServiceInterface 供处理器依赖的心愿单服务接口
type WishlistServiceInterface interface {
	Toggle(userID, bookID int) (bool, error)
	ListWishlist(userID int) ([]*model.WishlistItem, error)
}

var _ WishlistServiceInterface = (*WishlistService)(nil)
