package service

import (
	"fmt"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// ReviewService 处理用户评价的业务逻辑
type ReviewService struct {
	reviewRepo          interfaces.ReviewRepository
	userRepo            interfaces.UserRepository
	notificationService NotificationServiceInterface
}

// NewReviewService 创建一个新的 ReviewService 实例
func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	userRepo interfaces.UserRepository,
	notificationService NotificationServiceInterface,
) *ReviewService {
	return &ReviewService{
		reviewRepo:          reviewRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// CreateReview 创建评价。评价只追加不修改，不允许评价自己。
func (s *ReviewService) CreateReview(review *model.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return errors.New(errors.ErrValidation, "评分必须在1到5之间")
	}
	if review.ReviewerID == review.ReviewedUserID {
		return errors.New(errors.ErrBadRequest, "不能评价自己")
	}

	reviewed, err := s.userRepo.FindByID(review.ReviewedUserID)
	if err != nil {
		return fmt.Errorf("查询被评价用户失败: %w", err)
	}
	if reviewed == nil {
		return errors.New(errors.ErrUserNotFound, "被评价的用户不存在")
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return fmt.Errorf("创建评价失败: %w", err)
	}

	if err := s.notificationService.Notify(
		review.ReviewedUserID,
		fmt.Sprintf("你收到了一条新评价，评分 %d 星", review.Rating),
		fmt.Sprintf("/users/%d/reviews", review.ReviewedUserID),
	); err != nil {
		util.Logger.Error("发送评价通知失败", zap.Error(err), zap.Int("reviewed_user_id", review.ReviewedUserID))
	}

	return nil
}

// GetUserReviews 分页获取某用户收到的评价及其评分汇总
func (s *ReviewService) GetUserReviews(userID, page, pageSize int) ([]*model.Review, float64, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, err := s.reviewRepo.FindByReviewedUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("查询评价列表失败: %w", err)
	}

	average, count, err := s.reviewRepo.AverageRating(userID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("计算平均评分失败: %w", err)
	}
	return reviews, average, count, nil
}

// ReviewServiceInterface 供处理器依赖的评价服务接口
type ReviewServiceInterface interface {
	CreateReview(review *model.Review) error
	GetUserReviews(userID, page, pageSize int) ([]*model.Review, float64, int, error)
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
