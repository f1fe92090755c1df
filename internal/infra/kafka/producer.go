package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deeperweave/internal/config"
	"deeperweave/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 活动事件类型
const (
	EventReviewCreated = "review_created"
	EventReviewDeleted = "review_deleted"
	EventFollowCreated = "follow_created"
)

// ActivityEvent 活动事件消息体（由 API 进程发布，worker 进程消费）
type ActivityEvent struct {
	Type             string  `json:"type"`
	ActorID          int64   `json:"actor_id"`
	ReviewID         *int64  `json:"review_id,omitempty"`
	MediaType        string  `json:"media_type,omitempty"`
	MediaID          int64   `json:"media_id,omitempty"`
	TargetUserID     *int64  `json:"target_user_id,omitempty"`
	MentionedUserIDs []int64 `json:"mentioned_user_ids,omitempty"`
	OccurredAt       int64   `json:"occurred_at"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// PublishActivity 发布活动事件到 Kafka
func PublishActivity(ctx context.Context, topic string, event *ActivityEvent) error {
	if event.OccurredAt == 0 {
		event.OccurredAt = time.Now().Unix()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("actor-%d", event.ActorID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish activity event: %w", err)
	}

	logger.Info("Activity event published",
		zap.String("type", event.Type),
		zap.Int64("actor_id", event.ActorID),
		zap.String("topic", topic),
	)

	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
