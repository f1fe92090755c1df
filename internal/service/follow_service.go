package service

import (
	"context"
	"errors"
	"fmt"

	"deeperweave/internal/api/dto"
	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"
	"deeperweave/pkg/optimistic"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCannotFollowSelf = errors.New("不能关注自己")
)

type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
	toggles    *optimistic.Store
	events     EventPublisher
}

func NewFollowService(
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	toggles *optimistic.Store,
	events EventPublisher,
) *FollowService {
	if toggles == nil {
		toggles = optimistic.NewStore()
	}
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		toggles:    toggles,
		events:     events,
	}
}

func followKey(followerID, followingID int64) string {
	return fmt.Sprintf("follow:%d:%d", followerID, followingID)
}

// Toggle 翻转关注状态
// 同一对 (follower, following) 同时只允许一个进行中的变更；失败回滚
func (s *FollowService) Toggle(ctx context.Context, followerID, followingID int64) (*dto.FollowResult, error) {
	if followerID == followingID {
		return nil, ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(followingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	key := followKey(followerID, followingID)
	following, err := s.toggles.Toggle(ctx, key,
		func(ctx context.Context) (bool, error) {
			return s.followRepo.Exists(followerID, followingID)
		},
		func(ctx context.Context, next bool) (bool, error) {
			if next {
				if _, err := s.followRepo.Create(followerID, followingID); err != nil {
					if isUniqueViolation(err) {
						return true, nil
					}
					return false, err
				}
				s.adjustCounters(followerID, followingID, true)
				s.publishFollowEvent(ctx, followerID, followingID)
			} else {
				deleted, err := s.followRepo.Delete(followerID, followingID)
				if err != nil {
					return false, err
				}
				if deleted {
					s.adjustCounters(followerID, followingID, false)
				}
			}
			return s.followRepo.Exists(followerID, followingID)
		})
	if err != nil {
		if errors.Is(err, optimistic.ErrMutationInFlight) {
			return nil, ErrToggleInFlight
		}
		logger.Error("Toggle follow state failed",
			zap.Int64("follower_id", followerID),
			zap.Int64("following_id", followingID),
			zap.Error(err))
		return nil, err
	}

	// 返回目标用户当前计数（尽力取新值）
	if fresh, err := s.userRepo.GetByID(followingID); err == nil {
		target = fresh
	}
	follower, err := s.userRepo.GetByID(followerID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowResult{
		FollowerID:    followerID,
		FollowingID:   followingID,
		IsFollowing:   following,
		FollowCount:   follower.FollowCount,
		FollowerCount: target.FollowerCount,
	}, nil
}

// GetStatus 查询关注状态（经本地乐观缓存）
func (s *FollowService) GetStatus(ctx context.Context, followerID, followingID int64) (bool, error) {
	if followerID == followingID {
		return false, nil
	}
	return s.toggles.Get(ctx, followKey(followerID, followingID),
		func(ctx context.Context) (bool, error) {
			return s.followRepo.Exists(followerID, followingID)
		})
}

// GetFollowing 获取关注列表
func (s *FollowService) GetFollowing(ctx context.Context, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	skip := (page - 1) * pageSize
	ids, err := s.followRepo.GetFollowingIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountFollowing(userID)
	if err != nil {
		return nil, err
	}
	return s.buildFollowList(ids, total, page, pageSize)
}

// GetFollowers 获取粉丝列表
func (s *FollowService) GetFollowers(ctx context.Context, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	skip := (page - 1) * pageSize
	ids, err := s.followRepo.GetFollowerIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	return s.buildFollowList(ids, total, page, pageSize)
}

// GetMutualFollows 获取互关列表
func (s *FollowService) GetMutualFollows(ctx context.Context, userID int64, page, pageSize int) (*dto.FollowListData, error) {
	skip := (page - 1) * pageSize
	ids, err := s.followRepo.GetMutualFollowIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.followRepo.CountMutualFollows(userID)
	if err != nil {
		return nil, err
	}
	return s.buildFollowList(ids, total, page, pageSize)
}

// BatchStatus 批量查询关注状态
func (s *FollowService) BatchStatus(ctx context.Context, followerID int64, userIDs []int64) (map[int64]bool, error) {
	return s.followRepo.BatchCheckFollowing(followerID, userIDs)
}

// buildFollowList 按 ID 顺序组装用户信息列表
func (s *FollowService) buildFollowList(ids []int64, total int64, page, pageSize int) (*dto.FollowListData, error) {
	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]dto.FollowUserInfo, len(users))
	for _, u := range users {
		byID[u.ID] = dto.FollowUserInfo{
			ID:            u.ID,
			Username:      u.UserName,
			DisplayName:   u.DisplayName,
			Avatar:        u.Avatar,
			FollowCount:   u.FollowCount,
			FollowerCount: u.FollowerCount,
		}
	}

	infos := make([]dto.FollowUserInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := byID[id]; ok {
			infos = append(infos, info)
		}
	}

	return &dto.FollowListData{
		Users:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// adjustCounters 维护双方冗余计数，失败只记日志
func (s *FollowService) adjustCounters(followerID, followingID int64, followed bool) {
	var err error
	if followed {
		err = s.userRepo.IncrementFollowCount(followerID)
	} else {
		err = s.userRepo.DecrementFollowCount(followerID)
	}
	if err != nil {
		logger.Warn("Update follow count failed",
			zap.Int64("user_id", followerID), zap.Error(err))
	}

	if followed {
		err = s.userRepo.IncrementFollowerCount(followingID)
	} else {
		err = s.userRepo.DecrementFollowerCount(followingID)
	}
	if err != nil {
		logger.Warn("Update follower count failed",
			zap.Int64("user_id", followingID), zap.Error(err))
	}
}

func (s *FollowService) publishFollowEvent(ctx context.Context, followerID, followingID int64) {
	if s.events == nil {
		return
	}
	event := &infraKafka.ActivityEvent{
		Type:         infraKafka.EventFollowCreated,
		ActorID:      followerID,
		TargetUserID: &followingID,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Error("Publish follow event failed",
			zap.Int64("follower_id", followerID),
			zap.Int64("following_id", followingID),
			zap.Error(err))
	}
}
