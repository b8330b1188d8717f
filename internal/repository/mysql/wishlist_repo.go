package mysql

import (
	"database/sql"

	"shelfcycle-backend/internal/model"
)

// wishlistRepository 实现了 WishlistRepository 接口
type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository 创建一个新的 wishlistRepository 实例
func NewWishlistRepository(db *sql.DB) *wishlistRepository {
	return &wishlistRepository{db}
}

// Exists 判断 (user, book) 是否已在心愿单中
func (r *wishlistRepository) Exists(userID, bookID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = ? AND book_id = ?)`,
		userID, bookID).Scan(&exists)
	return exists, err
}

// Add 添加心愿单条目
func (r *wishlistRepository) Add(item *model.WishlistItem) error {
	result, err := r.db.Exec(
		`INSERT INTO wishlist_items (user_id, book_id) VALUES (?, ?)`,
		item.UserID, item.BookID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = int(id)
	return nil
}

// Remove 移除心愿单条目
func (r *wishlistRepository) Remove(userID, bookID int) error {
	_, err := r.db.Exec(
		`DELETE FROM wishlist_items WHERE user_id = ? AND book_id = ?`, userID, bookID)
	return err
}

// ListByUser 返回用户的心愿单，附带书籍信息，最新收藏的在前
func (r *wishlistRepository) ListByUser(userID int) ([]*model.WishlistItem, error) {
	query := `SELECT w.id, w.user_id, w.book_id, w.created_at,
                     b.id, b.title, b.author, b.description, b.book_condition, b.category,
                     b.book_type, b.price, b.status, b.uploaded_by, b.created_at, b.updated_at
              FROM wishlist_items w
              JOIN books b ON b.id = w.book_id
              WHERE w.user_id = ?
              ORDER BY w.created_at DESC, w.id DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		var book model.Book
		var price sql.NullFloat64
		err := rows.Scan(&item.ID, &item.UserID, &item.BookID, &item.CreatedAt,
			&book.ID, &book.Title, &book.Author, &book.Description, &book.Condition,
			&book.Category, &book.BookType, &price, &book.Status, &book.UploadedBy,
			&book.CreatedAt, &book.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if price.Valid {
			book.Price = &price.Float64
		}
		item.Book = &book
		items = append(items, &item)
	}
	return items, rows.Err()
}
