package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"deeperweave/internal/model"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
)

// ESMediaDoc media 索引的文档结构
type ESMediaDoc struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      *string `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	ReviewCount      int64   `json:"review_count"`
	SavedCount       int64   `json:"saved_count"`
	CachedAt         string  `json:"cached_at"`
}

// docID 文档 ID 形如 movie-603 / tv-1399，避免两类媒体的外部 ID 冲突
func docID(mediaType string, id int64) string {
	return fmt.Sprintf("%s-%d", mediaType, id)
}

func movieToDoc(m *model.Movie, reviewCount, savedCount int64) *ESMediaDoc {
	return &ESMediaDoc{
		ID:               m.ID,
		MediaType:        model.MediaTypeMovie,
		Title:            m.Title,
		PosterPath:       m.PosterPath,
		ReleaseDate:      m.ReleaseDate,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		ReviewCount:      reviewCount,
		SavedCount:       savedCount,
		CachedAt:         m.CachedAt.Format(time.RFC3339),
	}
}

func tvShowToDoc(t *model.TVShow, reviewCount, savedCount int64) *ESMediaDoc {
	return &ESMediaDoc{
		ID:               t.ID,
		MediaType:        model.MediaTypeTV,
		Title:            t.Name,
		PosterPath:       t.PosterPath,
		ReleaseDate:      t.FirstAirDate,
		OriginalLanguage: t.OriginalLanguage,
		Adult:            t.Adult,
		ReviewCount:      reviewCount,
		SavedCount:       savedCount,
		CachedAt:         t.CachedAt.Format(time.RFC3339),
	}
}

// SyncMovie 将电影镜像同步到 media 索引
func SyncMovie(ctx context.Context, m *model.Movie, reviewCount, savedCount int64) error {
	return indexDoc(ctx, docID(model.MediaTypeMovie, m.ID), movieToDoc(m, reviewCount, savedCount))
}

// SyncTVShow 将剧集镜像同步到 media 索引
func SyncTVShow(ctx context.Context, t *model.TVShow, reviewCount, savedCount int64) error {
	return indexDoc(ctx, docID(model.MediaTypeTV, t.ID), tvShowToDoc(t, reviewCount, savedCount))
}

func indexDoc(ctx context.Context, id string, doc *ESMediaDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal media doc: %w", err)
	}

	resp, err := Index(ctx, MediaIndexName(), id, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("index media doc: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index media doc failed: %s", resp.String())
	}

	logger.Debug("Media doc synced to elasticsearch",
		zap.String("doc_id", id),
		zap.String("title", doc.Title),
	)
	return nil
}
