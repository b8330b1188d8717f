package mysql

import (
	"database/sql"

	"shelfcycle-backend/internal/model"
)

// reviewRepository 实现了 ReviewRepository 接口
type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository 创建一个新的 reviewRepository 实例
func NewReviewRepository(db *sql.DB) *reviewRepository {
	return &reviewRepository{db}
}

// Create 创建一条评价，评价只追加不修改
func (r *reviewRepository) Create(review *model.Review) error {
	query := `INSERT INTO reviews (reviewer_id, reviewed_user_id, rating, comment) VALUES (?, ?, ?, ?)`
	result, err := r.db.Exec(query, review.ReviewerID, review.ReviewedUserID, review.Rating, review.Comment)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	review.ID = int(id)
	return nil
}

// FindByReviewedUser 返回某用户收到的评价列表，附带评价者信息，最新的在前
func (r *reviewRepository) FindByReviewedUser(userID int, page, pageSize int) ([]*model.Review, error) {
	query := `SELECT r.id, r.reviewer_id, r.reviewed_user_id, r.rating, r.comment, r.created_at,
                     u.id, u.username, u.avatar_url
              FROM reviews r
              JOIN users u ON u.id = r.reviewer_id
              WHERE r.reviewed_user_id = ?
              ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		var reviewer model.User
		err := rows.Scan(&review.ID, &review.ReviewerID, &review.ReviewedUserID,
			&review.Rating, &review.Comment, &review.CreatedAt,
			&reviewer.ID, &reviewer.Username, &reviewer.AvatarURL)
		if err != nil {
			return nil, err
		}
		review.Reviewer = &reviewer
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

// AverageRating 返回某用户的平均评分与评价总数
func (r *reviewRepository) AverageRating(userID int) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRow(
		`SELECT AVG(rating), COUNT(*) FROM reviews WHERE reviewed_user_id = ?`, userID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
