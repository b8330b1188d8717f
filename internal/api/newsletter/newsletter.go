package newsletter

import (
	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NewsletterHandler 处理邮件订阅相关的HTTP请求
type NewsletterHandler struct {
	newsletterService service.NewsletterServiceInterface
}

// NewNewsletterHandler 创建一个新的 NewsletterHandler 实例
func NewNewsletterHandler(newsletterService service.NewsletterServiceInterface) *NewsletterHandler {
	return &NewsletterHandler{newsletterService}
}

// Subscribe 订阅邮件列表
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var subscribeData struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&subscribeData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的邮箱格式", err))
		return
	}

	if err := h.newsletterService.Subscribe(subscribeData.Email); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "订阅失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "订阅成功")
}

// Unsubscribe 取消订阅
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var unsubscribeData struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&unsubscribeData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的邮箱格式", err))
		return
	}

	if err := h.newsletterService.Unsubscribe(unsubscribeData.Email); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "取消订阅失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "已取消订阅")
}
