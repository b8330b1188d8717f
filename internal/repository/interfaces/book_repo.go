package interfaces

import "shelfcycle-backend/internal/model"

// BookRepository 定义书籍数据访问接口
type BookRepository interface {
	Create(book *model.Book) error
	FindByID(id int) (*model.Book, error)
	Update(book *model.Book) error
	UpdateStatus(id int, status string) error
	Delete(id int) error
	List(filters model.BookFilters, page, pageSize int) ([]*model.Book, int, error)
	ListByUploader(userID int, page, pageSize int) ([]*model.Book, int, error)
	GetImages(bookID int) ([]model.BookImage, error)
}
