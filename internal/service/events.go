package service

import (
	"context"

	infraKafka "deeperweave/internal/infra/kafka"
)

// EventPublisher 活动事件发布（Kafka 实现；为 nil 时跳过发布）
type EventPublisher interface {
	Publish(ctx context.Context, event *infraKafka.ActivityEvent) error
}

type kafkaPublisher struct {
	topic string
}

// NewKafkaPublisher 基于全局 Kafka 生产者的事件发布实现
func NewKafkaPublisher(topic string) EventPublisher {
	return &kafkaPublisher{topic: topic}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *infraKafka.ActivityEvent) error {
	return infraKafka.PublishActivity(ctx, p.topic, event)
}
