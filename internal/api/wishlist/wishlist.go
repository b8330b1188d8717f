package wishlist

import (
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// WishlistHandler 处理心愿单相关的HTTP请求
type WishlistHandler struct {
	wishlistService service.WishlistServiceInterface
}

// NewWishlistHandler 创建一个新的 WishlistHandler 实例
func NewWishlistHandler(wishlistService service.WishlistServiceInterface) *WishlistHandler {
	return &WishlistHandler{wishlistService}
}

// ToggleWishlist 切换书籍的收藏状态，返回切换后的状态
func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	userID := c.GetInt("user_id")
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的书籍ID", err))
		return
	}

	wishlisted, err := h.wishlistService.Toggle(userID, bookID)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "操作心愿单失败", err))
		return
	}

	message := "已取消收藏"
	if wishlisted {
		message = "已加入心愿单"
	}
	errors.HandleSuccess(c, gin.H{"wishlisted": wishlisted}, message)
}

// ListWishlist 获取当前用户的心愿单
func (h *WishlistHandler) ListWishlist(c *gin.Context) {
	userID := c.GetInt("user_id")

	items, err := h.wishlistService.ListWishlist(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询心愿单失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"wishlist": items}, "")
}
