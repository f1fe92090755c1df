package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"
	"deeperweave/pkg/optimistic"

	"go.uber.org/zap"
)

var (
	ErrToggleInFlight = errors.New("操作太频繁，请稍后再试")
)

type SavedService struct {
	savedRepo *repository.SavedRepository
	mirror    MirrorSyncer
	toggles   *optimistic.Store
}

func NewSavedService(savedRepo *repository.SavedRepository, mirror MirrorSyncer, toggles *optimistic.Store) *SavedService {
	if toggles == nil {
		toggles = optimistic.NewStore()
	}
	return &SavedService{savedRepo: savedRepo, mirror: mirror, toggles: toggles}
}

func savedKey(userID int64, mediaType string, mediaID int64) string {
	return fmt.Sprintf("saved:%d:%s:%d", userID, mediaType, mediaID)
}

// Toggle 翻转收藏状态
// 同一 (user, media) 同时只允许一个进行中的变更；变更失败回滚到翻转前的状态
func (s *SavedService) Toggle(ctx context.Context, userID int64, mediaType string, mediaID int64) (bool, error) {
	if mediaType != model.MediaTypeMovie && mediaType != model.MediaTypeTV {
		return false, ErrInvalidMediaType
	}

	key := savedKey(userID, mediaType, mediaID)
	saved, err := s.toggles.Toggle(ctx, key,
		func(ctx context.Context) (bool, error) {
			return s.savedRepo.Exists(userID, mediaType, mediaID)
		},
		func(ctx context.Context, next bool) (bool, error) {
			if next {
				// 首次收藏会触发镜像同步，同步失败则收藏不落地
				if err := s.mirror.SyncMirror(ctx, mediaType, mediaID); err != nil {
					return false, err
				}
				if _, err := s.savedRepo.Create(userID, mediaType, mediaID); err != nil {
					// 唯一约束冲突说明已收藏，按真实状态收敛
					if isUniqueViolation(err) {
						return true, nil
					}
					return false, err
				}
			} else {
				if _, err := s.savedRepo.Delete(userID, mediaType, mediaID); err != nil {
					return false, err
				}
			}
			// 变更后回源确认真实状态
			return s.savedRepo.Exists(userID, mediaType, mediaID)
		})
	if err != nil {
		if errors.Is(err, optimistic.ErrMutationInFlight) {
			return saved, ErrToggleInFlight
		}
		logger.Error("Toggle saved state failed",
			zap.Int64("user_id", userID),
			zap.String("media_type", mediaType),
			zap.Int64("media_id", mediaID),
			zap.Error(err))
		return saved, err
	}
	return saved, nil
}

// GetStatus 查询收藏状态（经本地乐观缓存）
func (s *SavedService) GetStatus(ctx context.Context, userID int64, mediaType string, mediaID int64) (bool, error) {
	if mediaType != model.MediaTypeMovie && mediaType != model.MediaTypeTV {
		return false, ErrInvalidMediaType
	}
	return s.toggles.Get(ctx, savedKey(userID, mediaType, mediaID),
		func(ctx context.Context) (bool, error) {
			return s.savedRepo.Exists(userID, mediaType, mediaID)
		})
}

// ListByUser 获取用户的收藏列表
func (s *SavedService) ListByUser(ctx context.Context, userID int64, page, pageSize int) (*dto.SavedListData, error) {
	skip := (page - 1) * pageSize
	items, total, err := s.savedRepo.ListByUser(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.SavedItemInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, dto.SavedItemInfo{
			ID:        item.ID,
			UserID:    item.UserID,
			MediaType: item.MediaType,
			MediaID:   item.MediaID,
			CreatedAt: item.CreatedAt,
		})
	}

	return &dto.SavedListData{
		Items:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// BatchStatus 批量查询收藏状态（列表页用）
func (s *SavedService) BatchStatus(ctx context.Context, userID int64, mediaType string, mediaIDs []int64) (map[int64]bool, error) {
	if mediaType != model.MediaTypeMovie && mediaType != model.MediaTypeTV {
		return nil, ErrInvalidMediaType
	}
	return s.savedRepo.BatchCheckSaved(userID, mediaType, mediaIDs)
}

// isUniqueViolation 判断是否唯一约束冲突（PG 23505 / SQLite UNIQUE）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
