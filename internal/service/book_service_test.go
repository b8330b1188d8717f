package service

import (
	"testing"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookRepository 是 BookRepository 接口的模拟实现
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(book *model.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) FindByID(id int) (*model.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) Update(book *model.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) UpdateStatus(id int, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBookRepository) List(filters model.BookFilters, page, pageSize int) ([]*model.Book, int, error) {
	args := m.Called(filters, page, pageSize)
	return args.Get(0).([]*model.Book), args.Int(1), args.Error(2)
}

func (m *MockBookRepository) ListByUploader(userID int, page, pageSize int) ([]*model.Book, int, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.Book), args.Int(1), args.Error(2)
}

func (m *MockBookRepository) GetImages(bookID int) ([]model.BookImage, error) {
	args := m.Called(bookID)
	return args.Get(0).([]model.BookImage), args.Error(1)
}

// TestCreateBookNormalizesPrice 测试交换类书籍的价格被强制置空
func TestCreateBookNormalizesPrice(t *testing.T) {
	mockRepo := new(MockBookRepository)
	service := NewBookService(mockRepo)

	price := 25.0
	book := &model.Book{
		Title:      "算法导论",
		Author:     "CLRS",
		BookType:   model.BookTypeExchange,
		Price:      &price,
		UploadedBy: 1,
	}

	mockRepo.On("Create", book).Return(nil)

	err := service.CreateBook(book)
	assert.NoError(t, err)
	assert.Nil(t, book.Price)
	assert.Equal(t, model.BookStatusAvailable, book.Status)
	mockRepo.AssertExpectations(t)
}

// TestCreateBookKeepsSellPrice 测试出售类书籍保留价格
func TestCreateBookKeepsSellPrice(t *testing.T) {
	mockRepo := new(MockBookRepository)
	service := NewBookService(mockRepo)

	price := 25.0
	book := &model.Book{
		Title:      "Go程序设计语言",
		Author:     "Donovan",
		BookType:   model.BookTypeSell,
		Price:      &price,
		UploadedBy: 1,
	}

	mockRepo.On("Create", book).Return(nil)

	err := service.CreateBook(book)
	assert.NoError(t, err)
	assert.NotNil(t, book.Price)
	assert.Equal(t, 25.0, *book.Price)
}

// TestUpdateBookOwnership 测试非发布者的修改被当作书籍不存在处理
func TestUpdateBookOwnership(t *testing.T) {
	mockRepo := new(MockBookRepository)
	service := NewBookService(mockRepo)

	mockRepo.On("FindByID", 10).Return(&model.Book{ID: 10, UploadedBy: 1}, nil)

	err := service.UpdateBook(2, &model.Book{ID: 10, Title: "x", BookType: model.BookTypeSell})
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrBookNotFound, appErr.Code)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

// TestUpdateBookStatus 测试状态更新的校验与归属检查
func TestUpdateBookStatus(t *testing.T) {
	mockRepo := new(MockBookRepository)
	service := NewBookService(mockRepo)

	// 非法状态直接拒绝
	err := service.UpdateBookStatus(1, 10, "lost")
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)

	// 发布者本人可以更新
	mockRepo.On("FindByID", 10).Return(&model.Book{ID: 10, UploadedBy: 1}, nil)
	mockRepo.On("UpdateStatus", 10, model.BookStatusSold).Return(nil)

	err = service.UpdateBookStatus(1, 10, model.BookStatusSold)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestDeleteBookNotFound 测试删除不存在的书籍
func TestDeleteBookNotFound(t *testing.T) {
	mockRepo := new(MockBookRepository)
	service := NewBookService(mockRepo)

	mockRepo.On("FindByID", 99).Return(nil, nil)

	err := service.DeleteBook(1, 99)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrBookNotFound, appErr.Code)
}
