package middleware

import (
	"context"
	"strings"
	"time"

	"shelfcycle-backend/internal/errors"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthCookieName 存放会话令牌的 Cookie 名
const AuthCookieName = "token"

// AuthMiddleware 认证中间件：优先读取 HttpOnly Cookie 中的令牌，
// 兼容 Authorization 头的 Bearer 令牌。
// 令牌有效但用户已不存在时同样拒绝请求。
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		token := extractToken(c)
		if token == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		if userService.IsTokenBlacklisted(token) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "令牌已被撤销"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		// 令牌签发后用户可能已被删除，此时按身份不存在处理而非笼统的未认证
		user, err := userService.GetUserByID(userID)
		if err != nil || user == nil {
			if appErr, ok := err.(*errors.AppError); ok {
				errors.HandleError(c, appErr)
			} else {
				errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询用户身份失败", err))
			}
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("auth_token", token)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "请求超时"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// extractToken 从 Cookie 或 Authorization 头提取令牌
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
