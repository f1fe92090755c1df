package service

import (
	"context"
	"errors"

	"deeperweave/internal/api/dto"
	infraES "deeperweave/internal/infra/elasticsearch"
	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrNotificationNotFound = errors.New("通知不存在")
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	reviewRepo       *repository.ReviewRepository
	savedRepo        *repository.SavedRepository
	mediaRepo        *repository.MediaRepository
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	reviewRepo *repository.ReviewRepository,
	savedRepo *repository.SavedRepository,
	mediaRepo *repository.MediaRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		reviewRepo:       reviewRepo,
		savedRepo:        savedRepo,
		mediaRepo:        mediaRepo,
	}
}

// List 获取用户的通知列表（附带未读数）
func (s *NotificationService) List(ctx context.Context, userID int64, page, pageSize int) (*dto.NotificationListData, error) {
	skip := (page - 1) * pageSize
	notifications, total, err := s.notificationRepo.ListByUser(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.NotificationInfo, 0, len(notifications))
	for _, n := range notifications {
		infos = append(infos, dto.NotificationInfo{
			ID:        n.ID,
			ActorID:   n.ActorID,
			Type:      n.Type,
			ReviewID:  n.ReviewID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dto.NotificationListData{
		Notifications: infos,
		UnreadCount:   unread,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// MarkRead 将单条通知标记为已读
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	updated, err := s.notificationRepo.MarkRead(userID, notificationID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 将用户所有通知标记为已读
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// HandleActivity 消费活动事件：提及/关注扇出通知，媒体计数同步到搜索索引
// 由后台 worker 调用，返回错误时由消费方决定是否重试
func (s *NotificationService) HandleActivity(ctx context.Context, event *infraKafka.ActivityEvent) error {
	switch event.Type {
	case infraKafka.EventReviewCreated:
		if len(event.MentionedUserIDs) > 0 {
			notifications := make([]model.Notification, 0, len(event.MentionedUserIDs))
			for _, uid := range event.MentionedUserIDs {
				notifications = append(notifications, model.Notification{
					UserID:   uid,
					ActorID:  event.ActorID,
					Type:     model.NotificationTypeMention,
					ReviewID: event.ReviewID,
				})
			}
			if err := s.notificationRepo.CreateBatch(notifications); err != nil {
				logger.Error("Create mention notifications failed",
					zap.Int64("actor_id", event.ActorID), zap.Error(err))
				return err
			}
		}
		s.resyncMediaIndex(ctx, event.MediaType, event.MediaID)
		return nil

	case infraKafka.EventReviewDeleted:
		s.resyncMediaIndex(ctx, event.MediaType, event.MediaID)
		return nil

	case infraKafka.EventFollowCreated:
		if event.TargetUserID == nil {
			logger.Warn("Follow event missing target user", zap.Int64("actor_id", event.ActorID))
			return nil
		}
		err := s.notificationRepo.Create(&model.Notification{
			UserID:  *event.TargetUserID,
			ActorID: event.ActorID,
			Type:    model.NotificationTypeFollow,
		})
		if err != nil {
			logger.Error("Create follow notification failed",
				zap.Int64("actor_id", event.ActorID), zap.Error(err))
		}
		return err

	default:
		logger.Warn("Unknown activity event type", zap.String("type", event.Type))
		return nil
	}
}

// resyncMediaIndex 刷新搜索索引中该媒体的统计字段，失败只记日志
func (s *NotificationService) resyncMediaIndex(ctx context.Context, mediaType string, mediaID int64) {
	if mediaType == "" || mediaID == 0 {
		return
	}

	reviewCount, _ := s.reviewRepo.CountByMedia(mediaType, mediaID)
	savedCount, _ := s.savedRepo.CountByMedia(mediaType, mediaID)

	var err error
	switch mediaType {
	case model.MediaTypeMovie:
		var movie *model.Movie
		movie, err = s.mediaRepo.GetMovie(mediaID)
		if err == nil {
			err = infraES.SyncMovie(ctx, movie, reviewCount, savedCount)
		}
	case model.MediaTypeTV:
		var show *model.TVShow
		show, err = s.mediaRepo.GetTVShow(mediaID)
		if err == nil {
			err = infraES.SyncTVShow(ctx, show, reviewCount, savedCount)
		}
	}
	if err != nil {
		logger.Warn("Resync media index failed",
			zap.String("media_type", mediaType),
			zap.Int64("media_id", mediaID),
			zap.Error(err))
	}
}
