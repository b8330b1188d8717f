package model

import "time"

// 书籍的挂牌类型
const (
	BookTypeSell     = "sell"
	BookTypeExchange = "exchange"
)

// 书籍的状态
const (
	BookStatusAvailable = "available"
	BookStatusSold      = "sold"
	BookStatusExchanged = "exchanged"
)

// Book 结构体表示书籍挂牌模型
type Book struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Description string      `json:"description"`
	Condition   string      `json:"condition"`
	Category    string      `json:"category"`
	BookType    string      `json:"book_type"`        // sell 或 exchange
	Price       *float64    `json:"price"`            // 仅 sell 类型有效，exchange 时必须为 null
	Status      string      `json:"status"`           // available / sold / exchanged
	UploadedBy  int         `json:"uploaded_by"`      // 所有者，仅所有者可修改或删除
	Images      []BookImage `json:"images,omitempty"`
	Uploader    *User       `json:"uploader,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// BookImage 书籍图片模型
type BookImage struct {
	ID       int    `json:"id"`
	BookID   int    `json:"book_id"`
	ImageURL string `json:"image_url"`
}

// BookFilters 书籍列表的过滤条件
type BookFilters struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	BookType string `json:"book_type"`
	Status   string `json:"status"`
}
