package user

import (
	"shelfcycle-backend/config"
	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// OAuthHandler 处理第三方登录
type OAuthHandler struct {
	userService service.UserServiceInterface
}

// NewOAuthHandler 创建一个新的 OAuthHandler 实例
func NewOAuthHandler(userService service.UserServiceInterface) *OAuthHandler {
	return &OAuthHandler{userService}
}

// GoogleLogin 处理谷歌登录：服务端校验前端传来的 ID Token，
// 校验通过后查找或创建用户并签发会话令牌
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	var loginData struct {
		Credential string `json:"credential" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), loginData.Credential, config.AppConfig.GoogleClientID)
	if err != nil {
		util.Logger.Warn("谷歌 ID Token 校验失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "谷歌登录凭证无效", err))
		return
	}

	googleID := payload.Subject
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if googleID == "" || email == "" {
		errors.HandleError(c, errors.New(errors.ErrInvalidToken, "谷歌登录凭证缺少必要信息"))
		return
	}
	if name == "" {
		name = email
	}

	user, err := h.userService.GoogleLogin(googleID, email, name, picture)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "谷歌登录失败", err))
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	setAuthCookie(c, token, int(util.TokenDuration.Seconds()))

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "登录成功")
}
