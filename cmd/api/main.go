package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"music-go/internal/api/handler"
	"music-go/internal/api/middleware"
	"music-go/internal/api/router"
	"music-go/internal/auth"
	"music-go/internal/cache"
	"music-go/internal/config"
	"music-go/internal/infra/database"
	infraMinio "music-go/internal/infra/minio"
	infraRedis "music-go/internal/infra/redis"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/internal/service"
	"music-go/internal/storage"
	"music-go/pkg/logger"

	_ "music-go/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Music-Go API
// @version 1.0
// @description 音乐分享平台 API 服务

// @contact.name API Support

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件，文件不存在时使用默认值与环境变量
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(database.Get(), model.All()...); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 密钥集缓存：Redis 不可用时退回进程内缓存
	var keyCache cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Enabled {
		if err := infraRedis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		} else {
			defer infraRedis.Close()
			keyCache = cache.NewRedisCache(infraRedis.Get())
		}
	}

	var verifier auth.TokenVerifier = auth.NewJWKSVerifier(auth.VerifierOptions{
		JWKSURL:      cfg.JWT.JWKSURL,
		Audience:     cfg.JWT.Audience,
		Issuer:       cfg.JWT.Issuer,
		Algorithms:   cfg.JWT.Algorithms,
		CacheTTL:     cfg.JWT.CacheTTL(),
		FetchTimeout: cfg.JWT.FetchTimeout(),
	}, keyCache)
	if cfg.Auth.DevMode {
		logger.Warn("Dev token bypass enabled, do not use in production")
		verifier = auth.NewDevBypass(cfg.Auth.DevToken, verifier)
	}

	// 上传存储：对象存储配置齐全时走预签名直传
	localStore := storage.NewLocalStore(cfg.Storage.LocalDir)
	var objectStore service.ObjectStore
	if cfg.Storage.RemoteEnabled() {
		store, err := infraMinio.New(&cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to init minio", zap.Error(err))
		}
		objectStore = store
	} else {
		logger.Info("Object storage not configured, uploads go to local disk",
			zap.String("dir", cfg.Storage.LocalDir),
		)
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	tagRepo := repository.NewTagRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	playRepo := repository.NewPlayHistoryRepository(db)
	txm := repository.NewTxManager(db)

	userService := service.NewUserService(userRepo, followRepo)
	trackService := service.NewTrackService(trackRepo, tagRepo, likeRepo, commentRepo, playRepo, playlistRepo, txm)
	uploadService := service.NewUploadService(objectStore, localStore, trackService, service.UploadOptions{
		MaxInitiateSize: cfg.Upload.MaxInitiateSize,
		MaxLocalSize:    cfg.Upload.MaxLocalSize,
		AllowedTypes:    cfg.Upload.AllowedTypes,
		PresignExpiry:   cfg.Storage.PresignDuration(),
	})
	likeService := service.NewLikeService(likeRepo, trackRepo, tagRepo, commentRepo, playRepo, txm)
	commentService := service.NewCommentService(commentRepo, trackRepo)
	followService := service.NewFollowService(followRepo, userRepo, txm)
	playlistService := service.NewPlaylistService(playlistRepo, trackRepo, userRepo, tagRepo, likeRepo, commentRepo, playRepo, txm)
	playService := service.NewPlayHistoryService(playRepo, trackRepo, tagRepo, likeRepo, commentRepo)

	handlers := &router.Handlers{
		User:        handler.NewUserHandler(userService),
		Track:       handler.NewTrackHandler(trackService, playService, localStore),
		Upload:      handler.NewUploadHandler(uploadService),
		Like:        handler.NewLikeHandler(likeService),
		Comment:     handler.NewCommentHandler(commentService),
		Follow:      handler.NewFollowHandler(followService),
		Playlist:    handler.NewPlaylistHandler(playlistService),
		PlayHistory: handler.NewPlayHistoryHandler(playService),
	}

	authn := middleware.NewAuthenticator(verifier, userService)
	uploadLimiter := middleware.NewIPRateLimiter(cfg.Upload.RateLimitPerMin, time.Minute, cfg.Upload.RateLimitBurst, 10*time.Minute)

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(storage.URLPrefix, cfg.Storage.LocalDir)

	// 注册业务路由
	router.Setup(r, handlers, authn, middleware.RateLimit(uploadLimiter))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("redis", infraRedis.Get() != nil),
		zap.Bool("object_storage", objectStore != nil),
		zap.Bool("dev_mode", cfg.Auth.DevMode),
	)

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口，附带数据库与 Redis 状态
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unavailable"
	}
	redisStatus := "disabled"
	if infraRedis.Get() != nil {
		redisStatus = "ok"
		if err := infraRedis.Ping(ctx); err != nil {
			redisStatus = "unavailable"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	logger.Debug("Health check requested", zap.String("ip", c.ClientIP()))

	c.JSON(status, gin.H{
		"status":    overall,
		"database":  dbStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    "/swagger/index.html",
	})
}
