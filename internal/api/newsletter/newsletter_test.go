package newsletter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"shelfcycle-backend/internal/errors"
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

// MockNewsletterService 是 NewsletterServiceInterface 的模拟实现
type MockNewsletterService struct {
	mock.Mock
}

func (m *MockNewsletterService) Subscribe(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockNewsletterService) Unsubscribe(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

var _ service.NewsletterServiceInterface = (*MockNewsletterService)(nil)

func newNewsletterRouter(mockService *MockNewsletterService) *gin.Engine {
	handler := NewNewsletterHandler(mockService)
	router := gin.New()
	router.POST("/newsletter/subscribe", handler.Subscribe)
	router.DELETE("/newsletter/unsubscribe", handler.Unsubscribe)
	return router
}

func doJSON(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestSubscribeHandler 测试订阅邮件列表
func TestSubscribeHandler(t *testing.T) {
	mockService := new(MockNewsletterService)
	router := newNewsletterRouter(mockService)

	mockService.On("Subscribe", "reader@example.com").Return(nil)

	w := doJSON(router, "POST", "/newsletter/subscribe", []byte(`{"email": "reader@example.com"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	mockService.AssertExpectations(t)
}

// TestUnsubscribeHandler 测试取消订阅走 DELETE 方法
func TestUnsubscribeHandler(t *testing.T) {
	mockService := new(MockNewsletterService)
	router := newNewsletterRouter(mockService)

	mockService.On("Unsubscribe", "reader@example.com").Return(nil)

	w := doJSON(router, "DELETE", "/newsletter/unsubscribe", []byte(`{"email": "reader@example.com"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	mockService.AssertExpectations(t)
}

// TestUnsubscribeNotSubscribed 测试取消未订阅的邮箱返回未找到
func TestUnsubscribeNotSubscribed(t *testing.T) {
	mockService := new(MockNewsletterService)
	router := newNewsletterRouter(mockService)

	mockService.On("Unsubscribe", "ghost@example.com").
		Return(errors.New(errors.ErrResourceNotFound, "该邮箱未订阅"))

	w := doJSON(router, "DELETE", "/newsletter/unsubscribe", []byte(`{"email": "ghost@example.com"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestUnsubscribeInvalidEmail 测试非法邮箱被拒绝
func TestUnsubscribeInvalidEmail(t *testing.T) {
	router := newNewsletterRouter(new(MockNewsletterService))

	w := doJSON(router, "DELETE", "/newsletter/unsubscribe", []byte(`{"email": "not-an-email"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
