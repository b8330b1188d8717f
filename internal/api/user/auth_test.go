package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

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

func postJSON(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRegisterHandler 测试注册处理器
func TestRegisterHandler(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	// 模拟成功注册
	mockService.On("Register", mock.AnythingOfType("*model.User")).Return(nil)

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "StrongP@ssw0rd"}`)
	w := postJSON(router, "/register", body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["error"])
	mockService.AssertExpectations(t)
}

// TestRegisterWeakPassword 测试弱密码被拒绝
func TestRegisterWeakPassword(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "weak"}`)
	w := postJSON(router, "/register", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything)
}

// TestVerifyOTPHandler 测试验证码校验处理器的错误码映射
func TestVerifyOTPHandler(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/verify-otp", handler.VerifyOTP)

	// 验证码过期
	mockService.On("VerifyOTP", "a@example.com", "111111").
		Return(errors.New(errors.ErrOTPExpired, "验证码已过期"))

	w := postJSON(router, "/verify-otp", []byte(`{"email": "a@example.com", "code": "111111"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(errors.ErrOTPExpired), resp["code"])

	// 验证成功
	mockService.On("VerifyOTP", "a@example.com", "222222").Return(nil)

	w = postJSON(router, "/verify-otp", []byte(`{"email": "a@example.com", "code": "222222"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

// TestLoginHandler 测试登录成功后写入会话 Cookie
func TestLoginHandler(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/login", handler.Login)

	mockService.On("Login", "test@example.com", "StrongP@ssw0rd").
		Return(&model.User{ID: 1, Email: "test@example.com", EmailVerified: true}, nil)

	w := postJSON(router, "/login", []byte(`{"email": "test@example.com", "password": "StrongP@ssw0rd"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	// 令牌应写入 HttpOnly Cookie
	cookies := w.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "token" {
			found = true
			assert.True(t, cookie.HttpOnly)
			assert.NotEmpty(t, cookie.Value)
		}
	}
	assert.True(t, found)
	mockService.AssertExpectations(t)
}

// TestLoginUnverified 测试未验证邮箱的登录被拒绝
func TestLoginUnverified(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/login", handler.Login)

	mockService.On("Login", "test@example.com", "StrongP@ssw0rd").
		Return(nil, errors.New(errors.ErrEmailNotVerified, "请先完成邮箱验证"))

	w := postJSON(router, "/login", []byte(`{"email": "test@example.com", "password": "StrongP@ssw0rd"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
