package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"deeperweave/internal/config"
	"deeperweave/internal/infra/database"
	infraES "deeperweave/internal/infra/elasticsearch"
	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/repository"
	"deeperweave/internal/service"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
)

// 活动事件 worker：消费 API 进程发布的事件，
// 负责通知扇出与搜索索引的统计字段刷新
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// Elasticsearch 可选，失败时只跳过索引刷新
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, index sync disabled", zap.Error(err))
	} else {
		defer infraES.Close()
	}

	db := database.Get()
	notificationRepo := repository.NewNotificationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	savedRepo := repository.NewSavedRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	notificationService := service.NewNotificationService(notificationRepo, reviewRepo, savedRepo, mediaRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topics["activity_events"]
	groupID := "deeperweave-activity-worker"

	logger.Info("Activity worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartActivityConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, func(event *infraKafka.ActivityEvent) error {
		return notificationService.HandleActivity(ctx, event)
	})
}
