package model

import "time"

// User 结构体表示用户模型
type User struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // 密码哈希不应在JSON中暴露
	Phone         string     `json:"phone,omitempty"`
	AvatarURL     string     `json:"avatar_url"`
	GoogleID      string     `json:"-"`
	EmailVerified bool       `json:"email_verified"`
	OTPCode       string     `json:"-"` // 一次性验证码，仅服务端可见
	OTPExpiresAt  *time.Time `json:"-"`
	ResetToken    string     `json:"-"`
	ResetExpires  *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
