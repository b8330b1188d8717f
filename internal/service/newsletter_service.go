package service

import (
	"fmt"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// NewsletterService 处理邮件订阅的业务逻辑
type NewsletterService struct {
	newsletterRepo interfaces.NewsletterRepository
}

// NewNewsletterService 创建一个新的 NewsletterService 实例
func NewNewsletterService(newsletterRepo interfaces.NewsletterRepository) *NewsletterService {
	return &NewsletterService{newsletterRepo: newsletterRepo}
}

// Subscribe 订阅邮件列表，重复订阅是幂等的
func (s *NewsletterService) Subscribe(email string) error {
	subscribed, err := s.newsletterRepo.IsSubscribed(email)
	if err != nil {
		return fmt.Errorf("查询订阅状态失败: %w", err)
	}
	if subscribed {
		return nil
	}

	if err := s.newsletterRepo.Subscribe(&model.NewsletterSubscriber{Email: email}); err != nil {
		return fmt.Errorf("订阅失败: %w", err)
	}

	util.Logger.Info("邮件订阅成功", zap.String("email", email))
	return nil
}

// Unsubscribe 取消订阅，邮箱不在订阅列表时返回错误
func (s *NewsletterService) Unsubscribe(email string) error {
	removed, err := s.newsletterRepo.Unsubscribe(email)
	if err != nil {
		return fmt.Errorf("取消订阅失败: %w", err)
	}
	if !removed {
		return errors.New(errors.ErrResourceNotFound, "该邮箱未订阅")
	}
	return nil
}

// NewsletterServiceInterface 供处理器依赖的订阅服务接口
type NewsletterServiceInterface interface {
	Subscribe(email string) error
	Unsubscribe(email string) error
}

var _ NewsletterServiceInterface = (*NewsletterService)(nil)
