package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"shelfcycle-backend/config"
	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	config.AppConfig.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserService) VerifyOTP(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *MockUserService) ResendOTP(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockUserService) Login(email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GoogleLogin(googleID, email, username, avatarURL string) (*model.User, error) {
	args := m.Called(googleID, email, username, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserService) UpdateAvatar(userID int, avatarURL string) error {
	args := m.Called(userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserService) RequestPasswordReset(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(token, newPassword string) error {
	args := m.Called(token, newPassword)
	return args.Error(0)
}

func (m *MockUserService) Logout(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUserService) IsTokenBlacklisted(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

func newAuthRouter(mockService *MockUserService) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(mockService), func(c *gin.Context) {
		errors.HandleSuccess(c, gin.H{"user_id": c.GetInt("user_id")}, "")
	})
	return router
}

func getWithCookie(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestAuthMiddlewareMissingToken 测试无令牌请求被拒绝
func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := newAuthRouter(new(MockUserService))

	w := getWithCookie(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthMiddlewareValidToken 测试合法令牌放行并注入用户标识
func TestAuthMiddlewareValidToken(t *testing.T) {
	mockService := new(MockUserService)
	router := newAuthRouter(mockService)

	token, err := util.GenerateToken(7)
	assert.NoError(t, err)

	mockService.On("IsTokenBlacklisted", token).Return(false)
	mockService.On("GetUserByID", 7).Return(&model.User{ID: 7, Email: "u@example.com"}, nil)

	w := getWithCookie(router, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["user_id"])
}

// TestAuthMiddlewareVanishedUser 测试令牌有效但用户已不存在时返回身份不存在
func TestAuthMiddlewareVanishedUser(t *testing.T) {
	mockService := new(MockUserService)
	router := newAuthRouter(mockService)

	token, err := util.GenerateToken(7)
	assert.NoError(t, err)

	mockService.On("IsTokenBlacklisted", token).Return(false)
	mockService.On("GetUserByID", 7).Return(nil, errors.New(errors.ErrUserNotFound, "用户不存在"))

	w := getWithCookie(router, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, true, resp["error"])
	assert.Equal(t, float64(errors.ErrUserNotFound), resp["code"])
}

// TestAuthMiddlewareBlacklistedToken 测试已撤销令牌被拒绝
func TestAuthMiddlewareBlacklistedToken(t *testing.T) {
	mockService := new(MockUserService)
	router := newAuthRouter(mockService)

	token, err := util.GenerateToken(7)
	assert.NoError(t, err)

	mockService.On("IsTokenBlacklisted", token).Return(true)

	w := getWithCookie(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetUserByID", mock.Anything)
}
