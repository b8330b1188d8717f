package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"shelfcycle-backend/internal/model"
	"shelfcycle-backend/internal/util"

	"go.uber.org/zap"
)

// bookRepository 实现了 BookRepository 接口
type bookRepository struct {
	db *sql.DB
}

// NewBookRepository 创建一个新的 bookRepository 实例
func NewBookRepository(db *sql.DB) *bookRepository {
	return &bookRepository{db}
}

const bookColumns = `id, title, author, description, book_condition, category, book_type,
              price, status, uploaded_by, created_at, updated_at`

// Create 创建书籍挂牌及其图片记录，放在同一事务中
func (r *bookRepository) Create(book *model.Book) error {
	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO books (title, author, description, book_condition, category,
              book_type, price, status, uploaded_by)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.Exec(query, book.Title, book.Author, book.Description, book.Condition,
		book.Category, book.BookType, book.Price, book.Status, book.UploadedBy)
	if err != nil {
		util.Logger.Error("创建书籍失败", zap.Error(err))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	book.ID = int(id)

	for i := range book.Images {
		book.Images[i].BookID = book.ID
		_, err = tx.Exec(`INSERT INTO book_images (book_id, image_url) VALUES (?, ?)`,
			book.ID, book.Images[i].ImageURL)
		if err != nil {
			util.Logger.Error("创建书籍图片记录失败", zap.Error(err), zap.Int("book_id", book.ID))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("书籍创建成功", zap.Int("book_id", book.ID))
	return nil
}

// FindByID 通过ID查找书籍，附带图片列表
func (r *bookRepository) FindByID(id int) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	var book model.Book
	var price sql.NullFloat64
	err := r.db.QueryRow(query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Description, &book.Condition,
		&book.Category, &book.BookType, &price, &book.Status, &book.UploadedBy,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if price.Valid {
		book.Price = &price.Float64
	}

	images, err := r.GetImages(book.ID)
	if err != nil {
		return nil, err
	}
	book.Images = images
	return &book, nil
}

// Update 更新书籍信息
func (r *bookRepository) Update(book *model.Book) error {
	query := `UPDATE books
              SET title = ?, author = ?, description = ?, book_condition = ?, category = ?,
                  book_type = ?, price = ?, updated_at = NOW()
              WHERE id = ?`
	_, err := r.db.Exec(query, book.Title, book.Author, book.Description, book.Condition,
		book.Category, book.BookType, book.Price, book.ID)
	return err
}

// UpdateStatus 更新书籍状态
func (r *bookRepository) UpdateStatus(id int, status string) error {
	_, err := r.db.Exec(`UPDATE books SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	return err
}

// Delete 删除书籍及其图片记录
func (r *bookRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM book_images WHERE book_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM books WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List 返回按条件过滤的书籍列表及总数，最新的在前
func (r *bookRepository) List(filters model.BookFilters, page, pageSize int) ([]*model.Book, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filters.Keyword != "" {
		conditions = append(conditions, "(title LIKE ? OR author LIKE ?)")
		keyword := "%" + filters.Keyword + "%"
		args = append(args, keyword, keyword)
	}
	if filters.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filters.Category)
	}
	if filters.BookType != "" {
		conditions = append(conditions, "book_type = ?")
		args = append(args, filters.BookType)
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filters.Status)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM books WHERE ` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE ` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListByUploader 返回某个用户上传的书籍列表
func (r *bookRepository) ListByUploader(userID int, page, pageSize int) ([]*model.Book, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM books WHERE uploaded_by = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE uploaded_by = ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// GetImages 返回书籍的图片列表
func (r *bookRepository) GetImages(bookID int) ([]model.BookImage, error) {
	rows, err := r.db.Query(`SELECT id, book_id, image_url FROM book_images WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []model.BookImage
	for rows.Next() {
		var img model.BookImage
		if err := rows.Scan(&img.ID, &img.BookID, &img.ImageURL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func scanBooks(rows *sql.Rows) ([]*model.Book, error) {
	var books []*model.Book
	for rows.Next() {
		var book model.Book
		var price sql.NullFloat64
		err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Description, &book.Condition,
			&book.Category, &book.BookType, &price, &book.Status, &book.UploadedBy,
			&book.CreatedAt, &book.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if price.Valid {
			book.Price = &price.Float64
		}
		books = append(books, &book)
	}
	return books, rows.Err()
}
