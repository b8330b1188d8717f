package service

import (
	"context"
	"fmt"
	"time"

	"shelfcycle-backend/internal/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	tokenKeyPrefix = "shelfcycle:auth:blacklist"
	otpKeyPrefix   = "shelfcycle:auth:otp-resend"

	// otpResendAfter 同一邮箱两次发送验证码的最小间隔
	otpResendAfter = time.Minute

	redisOpTimeout = 2 * time.Second
)

// TokenStore 基于 Redis 维护已登出令牌的黑名单与验证码发送的频率限制
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore 创建一个新的 TokenStore 实例
func NewTokenStore(addr, password string) *TokenStore {
	return &TokenStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// NewTokenStoreWithClient 使用现有的 Redis 客户端创建 TokenStore，便于测试
func NewTokenStoreWithClient(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Ping 检查 Redis 连接
func (s *TokenStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// BlacklistToken 将令牌加入黑名单，ttl 为令牌剩余的有效时长
func (s *TokenStore) BlacklistToken(token string, ttl time.Duration) error {
	if ttl <= 0 {
		// 已过期的令牌无需入黑名单
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.tokenKey(token), "1", ttl).Err()
}

// IsTokenBlacklisted 判断令牌是否在黑名单中。
// Redis 不可用时放行请求，令牌本身的签名与过期校验仍然有效。
func (s *TokenStore) IsTokenBlacklisted(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	n, err := s.client.Exists(ctx, s.tokenKey(token)).Result()
	if err != nil {
		util.Logger.Error("查询令牌黑名单失败", zap.Error(err))
		return false
	}
	return n > 0
}

// AllowOTPResend 判断是否允许向该邮箱再次发送验证码，SetNX 保证每分钟至多一次
func (s *TokenStore) AllowOTPResend(email string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.SetNX(ctx, s.otpKey(email), "1", otpResendAfter).Result()
}

func (s *TokenStore) tokenKey(token string) string {
	return fmt.Sprintf("%s:%s", tokenKeyPrefix, token)
}

func (s *TokenStore) otpKey(email string) string {
	return fmt.Sprintf("%s:%s", otpKeyPrefix, email)
}
