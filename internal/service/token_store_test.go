package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// TestBlacklistToken 测试令牌黑名单的写入与查询
func TestBlacklistToken(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	assert.False(t, store.IsTokenBlacklisted("token-1"))

	err := store.BlacklistToken("token-1", time.Hour)
	assert.NoError(t, err)
	assert.True(t, store.IsTokenBlacklisted("token-1"))

	// 黑名单随令牌过期自动失效
	mr.FastForward(2 * time.Hour)
	assert.False(t, store.IsTokenBlacklisted("token-1"))
}

// TestBlacklistExpiredToken 测试已过期令牌不写入黑名单
func TestBlacklistExpiredToken(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	err := store.BlacklistToken("stale-token", -time.Minute)
	assert.NoError(t, err)
	assert.False(t, store.IsTokenBlacklisted("stale-token"))
}

// TestAllowOTPResend 测试验证码发送的频率限制
func TestAllowOTPResend(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	allowed, err := store.AllowOTPResend("a@example.com")
	assert.NoError(t, err)
	assert.True(t, allowed)

	// 一分钟内再次发送被拒绝
	allowed, err = store.AllowOTPResend("a@example.com")
	assert.NoError(t, err)
	assert.False(t, allowed)

	// 不同邮箱互不影响
	allowed, err = store.AllowOTPResend("b@example.com")
	assert.NoError(t, err)
	assert.True(t, allowed)

	// 间隔期过后恢复
	mr.FastForward(2 * time.Minute)
	allowed, err = store.AllowOTPResend("a@example.com")
	assert.NoError(t, err)
	assert.True(t, allowed)
}
