package book

import (
	"fmt"
	"path/filepath"
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/storage"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 单本书最多允许上传的图片数量
const maxBookImages = 5

// BookHandler 处理书籍相关的HTTP请求
type BookHandler struct {
	bookService service.BookServiceInterface
	storage     storage.FileStorage
}

// NewBookHandler 创建一个新的 BookHandler 实例
func NewBookHandler(bookService service.BookServiceInterface, storage storage.FileStorage) *BookHandler {
	return &BookHandler{bookService, storage}
}

// CreateBook 创建书籍，multipart 表单携带书籍字段与图片文件
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID := c.GetInt("user_id")

	var bookData struct {
		Title       string  `form:"title" binding:"required"`
		Author      string  `form:"author" binding:"required"`
		Description string  `form:"description"`
		Condition   string  `form:"condition" binding:"required,bookcondition"`
		Category    string  `form:"category" binding:"required"`
		BookType    string  `form:"book_type" binding:"required,booktype"`
		Price       *float64 `form:"price"`
	}

	if err := c.ShouldBind(&bookData); err != nil {
		util.Logger.Warn("创建书籍失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if bookData.BookType == model.BookTypeSell && (bookData.Price == nil || *bookData.Price <= 0) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "出售类书籍必须填写有效价格"))
		return
	}

	book := &model.Book{
		Title:       bookData.Title,
		Author:      bookData.Author,
		Description: bookData.Description,
		Condition:   bookData.Condition,
		Category:    bookData.Category,
		BookType:    bookData.BookType,
		Price:       bookData.Price,
		UploadedBy:  userID,
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		files := form.File["images"]
		if len(files) > maxBookImages {
			errors.HandleError(c, errors.New(errors.ErrValidation, fmt.Sprintf("最多上传%d张图片", maxBookImages)))
			return
		}
		for _, file := range files {
			filename := util.GenerateUniqueFilename(file.Filename)
			path := filepath.Join("books", fmt.Sprintf("%d", userID), filename)
			url, err := h.storage.UploadFile(file, path)
			if err != nil {
				util.Logger.Error("书籍图片上传失败", zap.Error(err))
				errors.HandleError(c, errors.Wrap(errors.ErrInternal, "图片上传失败", err))
				return
			}
			book.Images = append(book.Images, model.BookImage{ImageURL: url})
		}
	}

	if err := h.bookService.CreateBook(book); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建书籍失败", err))
		return
	}

	errors.HandleCreated(c, gin.H{"book": book}, "书籍发布成功")
}

// ListBooks 分页查询书籍列表，支持关键词、分类、类型与状态过滤
func (h *BookHandler) ListBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filters := model.BookFilters{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		BookType: c.Query("book_type"),
		Status:   c.Query("status"),
	}

	books, total, err := h.bookService.ListBooks(filters, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询书籍列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"books":     books,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetBook 获取书籍详情
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的书籍ID", err))
		return
	}

	book, err := h.bookService.GetBookByID(id)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询书籍失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"book": book}, "")
}

// ListMyBooks 分页获取当前用户发布的书籍
func (h *BookHandler) ListMyBooks(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	books, total, err := h.bookService.ListBooksByUploader(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询书籍失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"books": books,
		"total": total,
	}, "")
}

// UpdateBook 更新书籍信息，仅发布者可操作
func (h *BookHandler) UpdateBook(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的书籍ID", err))
		return
	}

	var bookData struct {
		Title       string   `json:"title" binding:"required"`
		Author      string   `json:"author" binding:"required"`
		Description string   `json:"description"`
		Condition   string   `json:"condition" binding:"required,bookcondition"`
		Category    string   `json:"category" binding:"required"`
		BookType    string   `json:"book_type" binding:"required,booktype"`
		Price       *float64 `json:"price"`
	}

	if err := c.ShouldBindJSON(&bookData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if bookData.BookType == model.BookTypeSell && (bookData.Price == nil || *bookData.Price <= 0) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "出售类书籍必须填写有效价格"))
		return
	}

	book := &model.Book{
		ID:          id,
		Title:       bookData.Title,
		Author:      bookData.Author,
		Description: bookData.Description,
		Condition:   bookData.Condition,
		Category:    bookData.Category,
		BookType:    bookData.BookType,
		Price:       bookData.Price,
	}

	if err := h.bookService.UpdateBook(userID, book); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新书籍失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "书籍更新成功")
}

// UpdateBookStatus 更新书籍状态，仅发布者可操作
func (h *BookHandler) UpdateBookStatus(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的书籍ID", err))
		return
	}

	var statusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&statusData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.bookService.UpdateBookStatus(userID, id, statusData.Status); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新书籍状态失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "书籍状态已更新")
}

// DeleteBook 删除书籍，仅发布者可操作
func (h *BookHandler) DeleteBook(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的书籍ID", err))
		return
	}

	if err := h.bookService.DeleteBook(userID, id); err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "删除书籍失败", err))
		return
	}

	errors.HandleSuccess(c, nil, "书籍已删除")
}
