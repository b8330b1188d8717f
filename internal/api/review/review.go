package review

import (
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewHandler 处理用户评价相关的HTTP请求
type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
}

// NewReviewHandler 创建一个新的 ReviewHandler 实例
func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService}
}

// CreateReview 创建对另一用户的评价
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetInt("user_id")

	var reviewData struct {
		ReviewedUserID int    `json:"reviewed_user_id" binding:"required"`
		Rating         int    `json:"rating" binding:"required,min=1,max=5"`
		Comment        string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&reviewData); err != nil {
		util.Logger.Warn("创建评价失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	review := &model.Review{
		ReviewerID:     userID,
		ReviewedUserID: reviewData.ReviewedUserID,
		Rating:         reviewData.Rating,
		Comment:        reviewData.Comment,
	}

	if err := h.reviewService.CreateReview(review); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建评价失败", err))
		return
	}

	errors.HandleCreated(c, gin.H{"review": review}, "评价发布成功")
}

// GetUserReviews 获取指定用户收到的评价及评分汇总，公开接口
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, average, count, err := h.reviewService.GetUserReviews(id, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询评价失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"reviews":        reviews,
		"average_rating": average,
		"review_count":   count,
	}, "")
}
