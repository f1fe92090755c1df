package service

import (
	"context"
	"errors"
	"time"

	"deeperweave/internal/api/dto"
	infraES "deeperweave/internal/infra/elasticsearch"
	"deeperweave/internal/infra/tmdb"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("媒体不存在")
	ErrMediaSyncFailed  = errors.New("媒体同步失败")
	ErrInvalidMediaType = errors.New("无效的媒体类型")
)

// MetadataSource 外部元数据源（tmdb.Client 实现）
type MetadataSource interface {
	GetMovie(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
	GetTV(ctx context.Context, id int64) (*tmdb.TVDetails, error)
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.SearchResponse, error)
	InvalidateMovie(ctx context.Context, id int64)
	InvalidateTV(ctx context.Context, id int64)
}

type MediaService struct {
	mediaRepo  *repository.MediaRepository
	reviewRepo *repository.ReviewRepository
	savedRepo  *repository.SavedRepository
	source     MetadataSource
	mirrorTTL  time.Duration
}

func NewMediaService(
	mediaRepo *repository.MediaRepository,
	reviewRepo *repository.ReviewRepository,
	savedRepo *repository.SavedRepository,
	source MetadataSource,
	mirrorTTL time.Duration,
) *MediaService {
	if mirrorTTL <= 0 {
		mirrorTTL = 24 * time.Hour
	}
	return &MediaService{
		mediaRepo:  mediaRepo,
		reviewRepo: reviewRepo,
		savedRepo:  savedRepo,
		source:     source,
		mirrorTTL:  mirrorTTL,
	}
}

// SyncMirror 镜像写入：拉取外部详情并以外部 ID 为冲突键 upsert 裁剪副本
// 幂等，可重复调用；外部不存在返回 ErrMediaNotFound，其余失败返回 ErrMediaSyncFailed
func (s *MediaService) SyncMirror(ctx context.Context, mediaType string, mediaID int64) error {
	switch mediaType {
	case model.MediaTypeMovie:
		details, err := s.source.GetMovie(ctx, mediaID)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return ErrMediaNotFound
			}
			logger.Error("Fetch movie details failed",
				zap.Int64("media_id", mediaID), zap.Error(err))
			return ErrMediaSyncFailed
		}

		movie := &model.Movie{
			ID:               details.ID,
			Title:            details.Title,
			PosterPath:       details.PosterPath,
			ReleaseDate:      nilIfEmpty(details.ReleaseDate),
			OriginalLanguage: details.OriginalLanguage,
			Adult:            details.Adult,
			CachedAt:         time.Now(),
		}
		if err := s.mediaRepo.UpsertMovie(movie); err != nil {
			logger.Error("Upsert movie mirror failed",
				zap.Int64("media_id", mediaID), zap.Error(err))
			return ErrMediaSyncFailed
		}

		s.syncMovieToES(ctx, movie)
		return nil

	case model.MediaTypeTV:
		details, err := s.source.GetTV(ctx, mediaID)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				return ErrMediaNotFound
			}
			logger.Error("Fetch tv details failed",
				zap.Int64("media_id", mediaID), zap.Error(err))
			return ErrMediaSyncFailed
		}

		show := &model.TVShow{
			ID:               details.ID,
			Name:             details.Name,
			PosterPath:       details.PosterPath,
			FirstAirDate:     nilIfEmpty(details.FirstAirDate),
			OriginalLanguage: details.OriginalLanguage,
			Adult:            details.Adult,
			CachedAt:         time.Now(),
		}
		if err := s.mediaRepo.UpsertTVShow(show); err != nil {
			logger.Error("Upsert tv mirror failed",
				zap.Int64("media_id", mediaID), zap.Error(err))
			return ErrMediaSyncFailed
		}

		s.syncTVToES(ctx, show)
		return nil

	default:
		return ErrInvalidMediaType
	}
}

// ForceSync 手动同步：先失效外部源的详情缓存，保证本次拉取绕过缓存命中最新数据
func (s *MediaService) ForceSync(ctx context.Context, mediaType string, mediaID int64) error {
	switch mediaType {
	case model.MediaTypeMovie:
		s.source.InvalidateMovie(ctx, mediaID)
	case model.MediaTypeTV:
		s.source.InvalidateTV(ctx, mediaID)
	default:
		return ErrInvalidMediaType
	}
	return s.SyncMirror(ctx, mediaType, mediaID)
}

// GetDetail 获取媒体详情：镜像缺失则同步，过期则尽力刷新（刷新失败继续用旧副本）
func (s *MediaService) GetDetail(ctx context.Context, userID int64, mediaType string, mediaID int64) (*dto.MediaDetailData, error) {
	info, err := s.getMirror(mediaType, mediaID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.SyncMirror(ctx, mediaType, mediaID); err != nil {
			return nil, err
		}
		info, err = s.getMirror(mediaType, mediaID)
		if err != nil {
			return nil, err
		}
	} else if time.Since(info.CachedAt) > s.mirrorTTL {
		if err := s.SyncMirror(ctx, mediaType, mediaID); err != nil {
			logger.Warn("Refresh stale mirror failed, serving cached copy",
				zap.String("media_type", mediaType),
				zap.Int64("media_id", mediaID),
				zap.Error(err))
		} else if fresh, err := s.getMirror(mediaType, mediaID); err == nil {
			info = fresh
		}
	}

	reviewCount, _ := s.reviewRepo.CountByMedia(mediaType, mediaID)
	savedCount, _ := s.savedRepo.CountByMedia(mediaType, mediaID)
	isSaved, _ := s.savedRepo.Exists(userID, mediaType, mediaID)
	watchCount, _ := s.reviewRepo.GetWatchCount(userID, mediaType, mediaID)

	return &dto.MediaDetailData{
		Media:       *info,
		ReviewCount: reviewCount,
		SavedCount:  savedCount,
		IsSaved:     isSaved,
		WatchCount:  watchCount,
	}, nil
}

// SearchRemote 搜索外部元数据源（结果经 4h 缓存），过滤掉非影视条目
func (s *MediaService) SearchRemote(ctx context.Context, query string, page int) (*dto.RemoteSearchData, error) {
	resp, err := s.source.SearchMulti(ctx, query, page)
	if err != nil {
		return nil, err
	}

	results := make([]dto.RemoteSearchItem, 0, len(resp.Results))
	for _, item := range resp.Results {
		switch item.MediaType {
		case model.MediaTypeMovie:
			results = append(results, dto.RemoteSearchItem{
				ID:          item.ID,
				MediaType:   item.MediaType,
				Title:       item.Title,
				PosterPath:  item.PosterPath,
				ReleaseDate: item.ReleaseDate,
			})
		case model.MediaTypeTV:
			results = append(results, dto.RemoteSearchItem{
				ID:          item.ID,
				MediaType:   item.MediaType,
				Title:       item.Name,
				PosterPath:  item.PosterPath,
				ReleaseDate: item.FirstAirDate,
			})
		}
	}

	return &dto.RemoteSearchData{
		Results:      results,
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// getMirror 读取本地镜像并转为统一视图
func (s *MediaService) getMirror(mediaType string, mediaID int64) (*dto.MediaInfo, error) {
	switch mediaType {
	case model.MediaTypeMovie:
		movie, err := s.mediaRepo.GetMovie(mediaID)
		if err != nil {
			return nil, err
		}
		return movieToMediaInfo(movie), nil
	case model.MediaTypeTV:
		show, err := s.mediaRepo.GetTVShow(mediaID)
		if err != nil {
			return nil, err
		}
		return tvShowToMediaInfo(show), nil
	default:
		return nil, ErrInvalidMediaType
	}
}

// syncMovieToES 尽力同步到搜索索引，失败只记日志
func (s *MediaService) syncMovieToES(ctx context.Context, movie *model.Movie) {
	reviewCount, _ := s.reviewRepo.CountByMedia(model.MediaTypeMovie, movie.ID)
	savedCount, _ := s.savedRepo.CountByMedia(model.MediaTypeMovie, movie.ID)
	if err := infraES.SyncMovie(ctx, movie, reviewCount, savedCount); err != nil {
		logger.Warn("Sync movie to elasticsearch failed",
			zap.Int64("media_id", movie.ID), zap.Error(err))
	}
}

func (s *MediaService) syncTVToES(ctx context.Context, show *model.TVShow) {
	reviewCount, _ := s.reviewRepo.CountByMedia(model.MediaTypeTV, show.ID)
	savedCount, _ := s.savedRepo.CountByMedia(model.MediaTypeTV, show.ID)
	if err := infraES.SyncTVShow(ctx, show, reviewCount, savedCount); err != nil {
		logger.Warn("Sync tv show to elasticsearch failed",
			zap.Int64("media_id", show.ID), zap.Error(err))
	}
}

func movieToMediaInfo(m *model.Movie) *dto.MediaInfo {
	return &dto.MediaInfo{
		ID:               m.ID,
		MediaType:        model.MediaTypeMovie,
		Title:            m.Title,
		PosterPath:       m.PosterPath,
		ReleaseDate:      m.ReleaseDate,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		CachedAt:         m.CachedAt,
	}
}

func tvShowToMediaInfo(t *model.TVShow) *dto.MediaInfo {
	return &dto.MediaInfo{
		ID:               t.ID,
		MediaType:        model.MediaTypeTV,
		Title:            t.Name,
		PosterPath:       t.PosterPath,
		ReleaseDate:      t.FirstAirDate,
		OriginalLanguage: t.OriginalLanguage,
		Adult:            t.Adult,
		CachedAt:         t.CachedAt,
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
