package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"shelfcycle-backend/config"
	"shelfcycle-backend/internal/common"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 负责外发邮件：验证码邮件与密码重置邮件
type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
}

// NewEmailService 创建一个新的 EmailService 实例
func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
	}
}

// SendOTPEmail 发送邮箱验证码邮件，异步发送不阻塞请求
func (s *EmailService) SendOTPEmail(email, username, code string) {
	subject := "ShelfCycle 邮箱验证码"
	body := fmt.Sprintf(`
	<div style="font-family: 'Segoe UI', sans-serif; max-width: 480px; margin: 0 auto;">
		<h2>你好 %s，</h2>
		<p>你的 ShelfCycle 邮箱验证码是：</p>
		<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
		<p>验证码将在 10 分钟后过期。如果这不是你本人的操作，请忽略此邮件。</p>
	</div>`, username, code)

	s.sendEmailAsync(email, subject, body)
}

// SendPasswordResetEmail 发送密码重置邮件，异步发送不阻塞请求
func (s *EmailService) SendPasswordResetEmail(email, token string) {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)

	subject := "重置您的密码 - ShelfCycle"
	body := fmt.Sprintf(`
	<div style="font-family: 'Segoe UI', sans-serif; max-width: 480px; margin: 0 auto;">
		<h2>密码重置请求</h2>
		<p>我们收到了您的密码重置请求。如果这不是您本人操作，请忽略此邮件。</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 4px;">重置密码</a>
		</p>
		<p>或者将以下链接复制到浏览器地址栏：</p>
		<p>%s</p>
		<p>此链接将在1小时后过期。</p>
	</div>`, resetLink, resetLink)

	s.sendEmailAsync(email, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		// SMTP 偶发超时可重试
		err := common.WithRetry(func() error {
			return s.sendEmail(to, subject, body)
		}, 3)
		if err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
