package service

import (
	"testing"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository 是 ReviewRepository 接口的模拟实现
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *model.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByReviewedUser(userID int, page, pageSize int) ([]*model.Review, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(userID int) (float64, int, error) {
	args := m.Called(userID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

// TestCreateReview 测试评价创建的校验规则
func TestCreateReview(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	userRepo := new(MockUserRepository)
	notificationService := new(MockNotificationService)
	service := NewReviewService(reviewRepo, userRepo, notificationService)

	// 评分越界
	err := service.CreateReview(&model.Review{ReviewerID: 1, ReviewedUserID: 2, Rating: 6})
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)

	// 不能评价自己
	err = service.CreateReview(&model.Review{ReviewerID: 1, ReviewedUserID: 1, Rating: 5})
	appErr, ok = err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)

	// 创建成功并通知被评价者
	userRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	reviewRepo.On("Create", mock.AnythingOfType("*model.Review")).Return(nil)
	notificationService.On("Notify", 2, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	err = service.CreateReview(&model.Review{ReviewerID: 1, ReviewedUserID: 2, Rating: 5, Comment: "很好"})
	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
	notificationService.AssertExpectations(t)
}

// TestGetUserReviews 测试评价列表与评分汇总
func TestGetUserReviews(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	service := NewReviewService(reviewRepo, new(MockUserRepository), new(MockNotificationService))

	reviewRepo.On("FindByReviewedUser", 2, 1, 20).Return([]*model.Review{{ID: 1, Rating: 4}}, nil)
	reviewRepo.On("AverageRating", 2).Return(4.0, 1, nil)

	reviews, average, count, err := service.GetUserReviews(2, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 4.0, average)
	assert.Equal(t, 1, count)
}
