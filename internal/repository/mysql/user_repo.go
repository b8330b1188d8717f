package mysql

import (
	"database/sql"
	"log"
	"time"

	"shelfcycle-backend/internal/model"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, email, password_hash, phone, avatar_url, google_id,
              email_verified, otp_code, otp_expires_at, reset_token, reset_expires_at,
              created_at, updated_at`

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	log.Printf("尝试创建新用户：%s", user.Email)
	query := `INSERT INTO users (username, email, password_hash, phone, avatar_url, google_id,
              email_verified, otp_code, otp_expires_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.Phone,
		user.AvatarURL, user.GoogleID, user.EmailVerified, user.OTPCode, user.OTPExpiresAt)
	if err != nil {
		log.Printf("创建用户失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		log.Printf("获取新用户ID失败：%v", err)
		return err
	}
	user.ID = int(id)
	log.Printf("用户创建成功：ID=%d", user.ID)
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var phone, googleID, otpCode, resetToken sql.NullString
	var otpExpires, resetExpires sql.NullTime
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &phone, &user.AvatarURL,
		&googleID, &user.EmailVerified, &otpCode, &otpExpires, &resetToken, &resetExpires,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.Phone = phone.String
	user.GoogleID = googleID.String
	user.OTPCode = otpCode.String
	user.ResetToken = resetToken.String
	if otpExpires.Valid {
		user.OTPExpiresAt = &otpExpires.Time
	}
	if resetExpires.Valid {
		user.ResetExpires = &resetExpires.Time
	}
	return &user, nil
}

// FindByID 通过ID查找用户
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, id))
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRow(query, username))
}

// FindByGoogleID 通过谷歌账号ID查找用户
func (r *userRepository) FindByGoogleID(googleID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = ?`
	return r.scanUser(r.db.QueryRow(query, googleID))
}

// FindByResetToken 通过密码重置令牌查找用户
func (r *userRepository) FindByResetToken(token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = ?`
	return r.scanUser(r.db.QueryRow(query, token))
}

// Update 更新用户信息
func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users
              SET username = ?, email = ?, password_hash = ?, phone = ?, avatar_url = ?,
                  google_id = ?, email_verified = ?, otp_code = ?, otp_expires_at = ?,
                  reset_token = ?, reset_expires_at = ?, updated_at = ?
              WHERE id = ?`
	_, err := r.db.Exec(query,
		user.Username, user.Email, user.PasswordHash, nullString(user.Phone), user.AvatarURL,
		nullString(user.GoogleID), user.EmailVerified, nullString(user.OTPCode), user.OTPExpiresAt,
		nullString(user.ResetToken), user.ResetExpires, time.Now(), user.ID)
	if err != nil {
		log.Printf("更新用户失败：%v", err)
	}
	return err
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
