package user

import (
	"fmt"
	"path/filepath"
	"strconv"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/storage"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理用户资料相关的请求
type ProfileHandler struct {
	userService service.UserServiceInterface
	storage     storage.FileStorage
}

func NewProfileHandler(userService service.UserServiceInterface, storage storage.FileStorage) *ProfileHandler {
	return &ProfileHandler{userService, storage}
}

// GetProfile 获取当前登录用户的资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		if appErr, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, appErr)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户资料失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

// UpdateProfile 更新当前登录用户的资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	currentUser, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户信息失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "获取用户信息失败", err))
		return
	}

	var updateData struct {
		Username string `json:"username"`
		Phone    string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 只更新允许用户修改的字段
	if updateData.Username != "" {
		currentUser.Username = updateData.Username
	}
	if updateData.Phone != "" {
		currentUser.Phone = updateData.Phone
	}

	if err := h.userService.UpdateUser(currentUser); err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户资料失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": currentUser,
	}, "资料更新成功")
}

// UploadAvatar 上传并更新用户头像
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少头像文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := filepath.Join("avatars", fmt.Sprintf("%d", userID), filename)

	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("头像上传失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "头像上传失败", err))
		return
	}

	if err := h.userService.UpdateAvatar(userID, url); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新头像失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"avatar_url": url,
	}, "头像更新成功")
}

// GetPublicProfile 获取指定用户的公开资料
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, appErr)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}
