package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"deeperweave/internal/config"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
)

// GetMediaIndexMapping 返回 media 索引的 mapping（电影与剧集共用一个索引）
func GetMediaIndexMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0,
			"analysis": {
				"analyzer": {
					"title_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": {"type": "long"},
				"media_type": {"type": "keyword"},
				"title": {
					"type": "text",
					"analyzer": "title_analyzer",
					"fields": {"keyword": {"type": "keyword", "ignore_above": 500}}
				},
				"poster_path": {"type": "keyword", "index": false},
				"release_date": {"type": "keyword"},
				"original_language": {"type": "keyword"},
				"adult": {"type": "boolean"},
				"review_count": {"type": "long"},
				"saved_count": {"type": "long"},
				"cached_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
			}
		}
	}`
}

// EnsureMediaIndex 确保 media 索引存在，不存在则创建
func EnsureMediaIndex(ctx context.Context) error {
	indexName := MediaIndexName()

	exists, err := IndicesExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		logger.Info("Elasticsearch media index already exists", zap.String("index", indexName))
		return nil
	}

	body := bytes.NewReader([]byte(GetMediaIndexMapping()))
	resp, err := IndicesCreate(ctx, indexName, body)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch media index created", zap.String("index", indexName))
	return nil
}

// MediaIndexName 返回配置的 media 索引名
func MediaIndexName() string {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["media"]
	if indexName == "" {
		indexName = "media"
	}
	return indexName
}

// InitIndexes 初始化所有索引（启动时调用）
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureMediaIndex(ctx)
}
