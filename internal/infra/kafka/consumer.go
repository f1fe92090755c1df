package kafka

import (
	"context"
	"encoding/json"
	"time"

	"deeperweave/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ActivityHandler 处理活动事件的回调函数
type ActivityHandler func(event *ActivityEvent) error

// handler 失败时的重试次数与间隔
const handlerMaxAttempts = 3

var handlerRetryBackoff = time.Second

// StartActivityConsumer 启动活动事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止；handler 返回错误会原地重试 handlerMaxAttempts 次，
// 仍失败则记日志丢弃，消息不重新入队
func StartActivityConsumer(ctx context.Context, brokers []string, topic, groupID string, handler ActivityHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka activity consumer stopped")
	}()

	logger.Info("Kafka activity consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var event ActivityEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal activity event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		logger.Info("Received activity event",
			zap.String("type", event.Type),
			zap.Int64("actor_id", event.ActorID),
		)

		if err := handleWithRetry(ctx, handler, &event); err != nil {
			logger.Error("Dropping activity event after retries",
				zap.String("type", event.Type),
				zap.Int64("actor_id", event.ActorID),
				zap.Error(err),
			)
		}
	}
}

// handleWithRetry 原地重试 handler，ctx 取消时提前放弃
func handleWithRetry(ctx context.Context, handler ActivityHandler, event *ActivityEvent) error {
	var err error
	for attempt := 1; attempt <= handlerMaxAttempts; attempt++ {
		if err = handler(event); err == nil {
			return nil
		}
		if attempt == handlerMaxAttempts {
			break
		}
		logger.Warn("Activity handler failed, retrying",
			zap.String("type", event.Type),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(handlerRetryBackoff):
		}
	}
	return err
}
