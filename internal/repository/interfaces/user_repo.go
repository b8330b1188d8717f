package interfaces

import "shelfcycle-backend/internal/model"

// UserRepository 定义用户数据访问接口
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByGoogleID(googleID string) (*model.User, error)
	FindByResetToken(token string) (*model.User, error)
	Update(user *model.User) error
}
