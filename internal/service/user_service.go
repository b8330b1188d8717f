package service

import (
	"fmt"
	"time"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// otpLength 验证码位数
	otpLength = 6
	// otpTTL 验证码有效时长
	otpTTL = 10 * time.Minute
	// resetTokenTTL 密码重置令牌有效时长
	resetTokenTTL = time.Hour
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo     interfaces.UserRepository
	emailService *EmailService
	tokenStore   *TokenStore
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, emailService *EmailService, tokenStore *TokenStore) *UserService {
	return &UserService{
		userRepo:     userRepo,
		emailService: emailService,
		tokenStore:   tokenStore,
	}
}

// Register 注册新用户，初始为未验证状态并发送验证码邮件
func (s *UserService) Register(user *model.User) error {
	existing, err := s.userRepo.FindByUsername(user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "用户名已被使用")
	}

	existing, err = s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	code, err := util.GenerateOTPCode(otpLength)
	if err != nil {
		return fmt.Errorf("生成验证码失败: %w", err)
	}
	expiresAt := time.Now().Add(otpTTL)
	user.EmailVerified = false
	user.OTPCode = code
	user.OTPExpiresAt = &expiresAt

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	s.emailService.SendOTPEmail(user.Email, user.Username, code)
	util.Logger.Info("用户注册成功，验证码已发送", zap.Int("user_id", user.ID))
	return nil
}

// VerifyOTP 校验邮箱验证码。
// 过期与错误是两种不同的失败原因，分别返回对应的错误码。
func (s *UserService) VerifyOTP(email, code string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if user.EmailVerified {
		return errors.New(errors.ErrResourceExists, "邮箱已完成验证")
	}
	if user.OTPCode == "" || user.OTPExpiresAt == nil {
		return errors.New(errors.ErrOTPIncorrect, "验证码不存在，请重新获取")
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return errors.New(errors.ErrOTPExpired, "验证码已过期")
	}
	if user.OTPCode != code {
		return errors.New(errors.ErrOTPIncorrect, "验证码不正确")
	}

	user.EmailVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		util.Logger.Error("更新用户验证状态失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("邮箱验证成功", zap.Int("user_id", user.ID))
	return nil
}

// ResendOTP 重新生成并发送验证码，同一邮箱每分钟至多一次
func (s *UserService) ResendOTP(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if user.EmailVerified {
		return errors.New(errors.ErrResourceExists, "邮箱已完成验证")
	}

	allowed, err := s.tokenStore.AllowOTPResend(user.Email)
	if err != nil {
		util.Logger.Error("检查验证码发送频率失败", zap.Error(err))
	} else if !allowed {
		return errors.New(errors.ErrResourceConflict, "验证码发送过于频繁，请稍后再试")
	}

	code, err := util.GenerateOTPCode(otpLength)
	if err != nil {
		return fmt.Errorf("生成验证码失败: %w", err)
	}
	expiresAt := time.Now().Add(otpTTL)
	user.OTPCode = code
	user.OTPExpiresAt = &expiresAt
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	s.emailService.SendOTPEmail(user.Email, user.Username, code)
	return nil
}

// Login 用户登录，仅允许已验证邮箱的用户
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	if !user.EmailVerified {
		return nil, errors.New(errors.ErrEmailNotVerified, "请先完成邮箱验证")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GoogleLogin 处理谷歌账号登录：首次登录自动建号并视为已验证
func (s *UserService) GoogleLogin(googleID, email, username, avatarURL string) (*model.User, error) {
	user, err := s.userRepo.FindByGoogleID(googleID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	// 已有同邮箱账号时关联谷歌ID
	user, err = s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.GoogleID = googleID
		user.EmailVerified = true
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		util.Logger.Info("谷歌账号已关联到现有用户", zap.Int("user_id", user.ID))
		return user, nil
	}

	user = &model.User{
		Username:      username,
		Email:         email,
		GoogleID:      googleID,
		AvatarURL:     avatarURL,
		EmailVerified: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	util.Logger.Info("谷歌账号首次登录，用户已创建", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// UpdateUser 更新用户资料，只允许修改部分字段
func (s *UserService) UpdateUser(user *model.User) error {
	existingUser, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if existingUser == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	existingUser.Username = user.Username
	existingUser.Phone = user.Phone

	if err := s.userRepo.Update(existingUser); err != nil {
		return fmt.Errorf("更新用户失败: %w", err)
	}
	return nil
}

// UpdateAvatar 更新用户头像
func (s *UserService) UpdateAvatar(userID int, avatarURL string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	user.AvatarURL = avatarURL
	return s.userRepo.Update(user)
}

// RequestPasswordReset 生成密码重置令牌并发送重置邮件
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(resetTokenTTL)
	user.ResetToken = token
	user.ResetExpires = &expiresAt
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	s.emailService.SendPasswordResetEmail(user.Email, token)
	util.Logger.Info("密码重置邮件已发送", zap.Int("user_id", user.ID))
	return nil
}

// ResetPassword 根据重置令牌设置新密码
func (s *UserService) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrInvalidToken, "无效的重置令牌")
	}
	if user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		return errors.New(errors.ErrTokenExpired, "重置令牌已过期")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		util.Logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hashedPassword)
	user.ResetToken = ""
	user.ResetExpires = nil
	if err := s.userRepo.Update(user); err != nil {
		util.Logger.Error("更新用户密码失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// Logout 将当前令牌加入黑名单直到其自然过期
func (s *UserService) Logout(token string) error {
	ttl := util.TokenRemainingValidity(token)
	if err := s.tokenStore.BlacklistToken(token, ttl); err != nil {
		util.Logger.Error("令牌加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// IsTokenBlacklisted 判断令牌是否已被登出
func (s *UserService) IsTokenBlacklisted(token string) bool {
	return s.tokenStore.IsTokenBlacklisted(token)
}

// UserServiceInterface 供处理器和中间件依赖的用户服务接口
type UserServiceInterface interface {
	Register(user *model.User) error
	VerifyOTP(email, code string) error
	ResendOTP(email string) error
	Login(email, password string) (*model.User, error)
	GoogleLogin(googleID, email, username, avatarURL string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	UpdateAvatar(userID int, avatarURL string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
