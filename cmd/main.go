package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shelfcycle-backend/config"
	"shelfcycle-backend/internal/api/book"
	"shelfcycle-backend/internal/api/chat"
	"shelfcycle-backend/internal/api/newsletter"
	"shelfcycle-backend/internal/api/review"
	"shelfcycle-backend/internal/api/user"
	"shelfcycle-backend/internal/api/wishlist"
	"shelfcycle-backend/internal/middleware"
	"shelfcycle-backend/internal/relay"
	"shelfcycle-backend/internal/repository/mysql"
	"shelfcycle-backend/internal/service"
	"shelfcycle-backend/internal/storage"
	"shelfcycle-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 连接 Redis，用于令牌黑名单和验证码发送频率控制
	tokenStore := service.NewTokenStore(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword)
	if err := tokenStore.Ping(); err != nil {
		util.Logger.Fatal("Redis连接测试失败", zap.Error(err))
	}
	util.Logger.Info("Redis连接成功")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("booktype", util.ValidateBookType)
		v.RegisterValidation("bookcondition", util.ValidateBookCondition)
	}

	// 确保上传文件夹存在
	ensureUploadsFolder()

	// 按配置选择文件存储后端
	fileStorage := initStorage()

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	messageRepo := mysql.NewMessageRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)
	wishlistRepo := mysql.NewWishlistRepository(db)
	newsletterRepo := mysql.NewNewsletterRepository(db)

	// 初始化邮件服务
	emailService := service.NewEmailService()

	// 初始化业务服务
	userService := service.NewUserService(userRepo, emailService, tokenStore)
	bookService := service.NewBookService(bookRepo)
	newsletterService := service.NewNewsletterService(newsletterRepo)

	// 初始化实时中继：消息服务既是 HTTP 层依赖，也是中继的已读存储
	registry := relay.NewRegistry()
	hub := relay.NewHub(registry, nil)
	messageService := service.NewMessageService(messageRepo, notificationRepo, userRepo, hub)
	hub.SetStore(messageService)
	go hub.Run()

	notificationService := service.NewNotificationService(notificationRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, userRepo, notificationService)
	wishlistService := service.NewWishlistService(wishlistRepo, bookRepo, userRepo, notificationService)

	// 初始化处理器
	authHandler := user.NewAuthHandler(userService)
	oauthHandler := user.NewOAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, fileStorage)
	bookHandler := book.NewBookHandler(bookService, fileStorage)
	messageHandler := chat.NewMessageHandler(messageService)
	notificationHandler := chat.NewNotificationHandler(notificationService)
	reviewHandler := review.NewReviewHandler(reviewService)
	wishlistHandler := wishlist.NewWishlistHandler(wishlistService)
	newsletterHandler := newsletter.NewNewsletterHandler(newsletterService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS，认证基于 Cookie 所以必须允许携带凭证
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/verify-otp", authHandler.VerifyOTP)
		api.POST("/resend-otp", authHandler.ResendOTP)
		api.POST("/login", authHandler.Login)
		api.POST("/auth/google", oauthHandler.GoogleLogin)
		api.POST("/request-password-reset", authHandler.RequestPasswordReset)
		api.POST("/reset-password", authHandler.ResetPassword)

		// 公开的书籍与评价路由
		api.GET("/books", bookHandler.ListBooks)
		api.GET("/books/:id", bookHandler.GetBook)
		api.GET("/users/:id", profileHandler.GetPublicProfile)
		api.GET("/users/:id/reviews", reviewHandler.GetUserReviews)

		// 邮件订阅
		api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		api.DELETE("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)

			// 书籍管理，仅发布者可修改
			authorized.POST("/books", bookHandler.CreateBook)
			authorized.GET("/my-books", bookHandler.ListMyBooks)
			authorized.PUT("/books/:id", bookHandler.UpdateBook)
			authorized.PATCH("/books/:id/status", bookHandler.UpdateBookStatus)
			authorized.DELETE("/books/:id", bookHandler.DeleteBook)

			// 心愿单
			authorized.POST("/wishlist/:bookId", wishlistHandler.ToggleWishlist)
			authorized.GET("/wishlist", wishlistHandler.ListWishlist)

			// 评价
			authorized.POST("/reviews", reviewHandler.CreateReview)

			// 私信
			authorized.POST("/messages", messageHandler.SendMessage)
			authorized.GET("/messages/:peerId", messageHandler.GetConversation)
			authorized.PUT("/messages/read", messageHandler.MarkMessagesRead)

			// 通知
			authorized.GET("/notifications", notificationHandler.ListNotifications)
			authorized.PATCH("/notifications/:id/read", notificationHandler.MarkNotificationRead)
			authorized.PUT("/notifications/read-all", notificationHandler.MarkAllNotificationsRead)
		}
	}

	// WebSocket 中继入口，连接建立后由 register_user 事件完成身份注册
	r.GET("/ws", func(c *gin.Context) {
		relay.ServeWS(hub, c)
	})

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// initStorage 按配置选择文件存储后端
func initStorage() storage.FileStorage {
	switch config.AppConfig.StorageBackend {
	case "s3":
		s3Client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		util.Logger.Info("使用S3文件存储", zap.String("bucket", config.AppConfig.S3Bucket))
		return s3Client
	case "gcs":
		gcsClient, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化GCS存储失败", zap.Error(err))
		}
		util.Logger.Info("使用GCS文件存储", zap.String("bucket", config.AppConfig.GCSBucketName))
		return gcsClient
	default:
		localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		util.Logger.Info("使用本地文件存储", zap.String("path", config.AppConfig.LocalStoragePath))
		return localStorage
	}
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
