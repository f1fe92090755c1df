package main

import (
	"fmt"
	"net/http"
	"time"

	"deeperweave/internal/api/handler"
	"deeperweave/internal/api/middleware"
	"deeperweave/internal/api/router"
	"deeperweave/internal/config"
	"deeperweave/internal/infra/database"
	infraES "deeperweave/internal/infra/elasticsearch"
	infraKafka "deeperweave/internal/infra/kafka"
	infraMinio "deeperweave/internal/infra/minio"
	infraRedis "deeperweave/internal/infra/redis"
	"deeperweave/internal/infra/tmdb"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/internal/service"
	"deeperweave/pkg/logger"
	"deeperweave/pkg/optimistic"

	_ "deeperweave/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title DeeperWeave API
// @version 1.0
// @description 影视观影社区 API 服务

// @contact.name API Support
// @contact.email support@deeperweave.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
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

	// 自动迁移数据库表
	if err := database.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.TVShow{},
		&model.Review{},
		&model.ReviewMention{},
		&model.RewatchCounter{},
		&model.SavedItem{},
		&model.Follow{},
		&model.List{},
		&model.ListItem{},
		&model.Notification{},
	); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	savedRepo := repository.NewSavedRepository(db)
	followRepo := repository.NewFollowRepository(db)
	listRepo := repository.NewListRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	tmdbClient := tmdb.NewClient(&cfg.TMDB, infraRedis.Get())
	storage := service.NewMinIOStorage()
	events := service.NewKafkaPublisher(cfg.Kafka.Topics["activity_events"])
	toggles := optimistic.NewStore()

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, storage)
	mediaService := service.NewMediaService(mediaRepo, reviewRepo, savedRepo, tmdbClient, cfg.TMDB.DetailTTL())
	reviewService := service.NewReviewService(reviewRepo, userRepo, mediaService, storage, events)
	savedService := service.NewSavedService(savedRepo, mediaService, toggles)
	followService := service.NewFollowService(followRepo, userRepo, toggles, events)
	listService := service.NewListService(listRepo, mediaService)
	searchService := service.NewSearchService(mediaRepo)
	notificationService := service.NewNotificationService(notificationRepo, reviewRepo, savedRepo, mediaRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	savedHandler := handler.NewSavedHandler(savedService)
	followHandler := handler.NewFollowHandler(followService)
	listHandler := handler.NewListHandler(listService)
	searchHandler := handler.NewSearchHandler(searchService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// 管理员中间件（需要查数据库获取角色）
	adminMiddleware := middleware.AdminRequired(func(userID int64) (string, error) {
		user, err := userRepo.GetByID(userID)
		if err != nil {
			return "", err
		}
		return user.UserRole, nil
	})

	// 引导检查中间件（写入类接口要求完成初始引导）
	onboardingMiddleware := middleware.OnboardingRequired(func(userID int64) (bool, error) {
		user, err := userRepo.GetByID(userID)
		if err != nil {
			return false, err
		}
		return user.Onboarded, nil
	})

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r,
		authHandler, userHandler, mediaHandler, reviewHandler, savedHandler,
		followHandler, listHandler, searchHandler, notificationHandler,
		adminMiddleware, onboardingMiddleware,
	)

	// 启动HTTP服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
		zap.String("metadata_source", cfg.TMDB.BaseURL),
	)

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	logger.Debug("Health check requested", zap.String("ip", c.ClientIP()))

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
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
		"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
	})
}
