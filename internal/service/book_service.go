package service

import (
	"fmt"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/repository/interfaces"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// BookService 处理书籍相关的业务逻辑
type BookService struct {
	bookRepo interfaces.BookRepository
}

// NewBookService 创建一个新的 BookService 实例
func NewBookService(bookRepo interfaces.BookRepository) *BookService {
	return &BookService{bookRepo: bookRepo}
}

// CreateBook 创建书籍。交换类书籍不保留价格字段。
func (s *BookService) CreateBook(book *model.Book) error {
	normalizeBook(book)
	book.Status = model.BookStatusAvailable

	if err := s.bookRepo.Create(book); err != nil {
		util.Logger.Error("创建书籍失败", zap.Error(err), zap.Int("uploaded_by", book.UploadedBy))
		return fmt.Errorf("创建书籍失败: %w", err)
	}

	util.Logger.Info("书籍创建成功", zap.Int("book_id", book.ID), zap.Int("uploaded_by", book.UploadedBy))
	return nil
}

// GetBookByID 获取书籍详情，包含图片和发布者信息
func (s *BookService) GetBookByID(id int) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("查询书籍失败: %w", err)
	}
	if book == nil {
		return nil, errors.New(errors.ErrBookNotFound, "书籍不存在")
	}
	return book, nil
}

// ListBooks 按过滤条件分页查询书籍列表
func (s *BookService) ListBooks(filters model.BookFilters, page, pageSize int) ([]*model.Book, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := s.bookRepo.List(filters, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("查询书籍列表失败: %w", err)
	}
	return books, total, nil
}

// ListBooksByUploader 分页查询某个用户发布的书籍
func (s *BookService) ListBooksByUploader(uploaderID, page, pageSize int) ([]*model.Book, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := s.bookRepo.ListByUploader(uploaderID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("查询用户书籍失败: %w", err)
	}
	return books, total, nil
}

// UpdateBook 更新书籍信息，仅发布者本人可操作。
// 非本人操作时按书籍不存在处理，避免泄露资源归属。
func (s *BookService) UpdateBook(userID int, book *model.Book) error {
	existing, err := s.findOwnedBook(userID, book.ID)
	if err != nil {
		return err
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.Description = book.Description
	existing.Category = book.Category
	existing.Condition = book.Condition
	existing.BookType = book.BookType
	existing.Price = book.Price
	normalizeBook(existing)

	if err := s.bookRepo.Update(existing); err != nil {
		return fmt.Errorf("更新书籍失败: %w", err)
	}
	return nil
}

// UpdateBookStatus 更新书籍状态，仅发布者本人可操作
func (s *BookService) UpdateBookStatus(userID, bookID int, status string) error {
	if status != model.BookStatusAvailable && status != model.BookStatusSold && status != model.BookStatusExchanged {
		return errors.New(errors.ErrValidation, "无效的书籍状态")
	}

	if _, err := s.findOwnedBook(userID, bookID); err != nil {
		return err
	}

	if err := s.bookRepo.UpdateStatus(bookID, status); err != nil {
		return fmt.Errorf("更新书籍状态失败: %w", err)
	}

	util.Logger.Info("书籍状态已更新", zap.Int("book_id", bookID), zap.String("status", status))
	return nil
}

// DeleteBook 删除书籍及其图片记录，仅发布者本人可操作
func (s *BookService) DeleteBook(userID, bookID int) error {
	if _, err := s.findOwnedBook(userID, bookID); err != nil {
		return err
	}

	if err := s.bookRepo.Delete(bookID); err != nil {
		return fmt.Errorf("删除书籍失败: %w", err)
	}

	util.Logger.Info("书籍已删除", zap.Int("book_id", bookID), zap.Int("user_id", userID))
	return nil
}

// findOwnedBook 查找书籍并校验归属
func (s *BookService) findOwnedBook(userID, bookID int) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("查询书籍失败: %w", err)
	}
	if book == nil || book.UploadedBy != userID {
		return nil, errors.New(errors.ErrBookNotFound, "书籍不存在")
	}
	return book, nil
}

// normalizeBook 统一书籍字段：交换类书籍价格强制置空
func normalizeBook(book *model.Book) {
	if book.BookType == model.BookTypeExchange {
		book.Price = nil
	}
}

// BookServiceInterface 供处理器依赖的书籍服务接口
type BookServiceInterface interface {
	CreateBook(book *model.Book) error
	GetBookByID(id int) (*model.Book, error)
	ListBooks(filters model.BookFilters, page, pageSize int) ([]*model.Book, int, error)
	ListBooksByUploader(uploaderID, page, pageSize int) ([]*model.Book, int, error)
	UpdateBook(userID int, book *model.Book) error
	UpdateBookStatus(userID, bookID int, status string) error
	DeleteBook(userID, bookID int) error
}

var _ BookServiceInterface = (*BookService)(nil)
