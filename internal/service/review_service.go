package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"deeperweave/internal/api/dto"
	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound     = errors.New("观影记录不存在")
	ErrReviewNoPermission = errors.New("无权操作该观影记录")
	ErrAttachmentTooLarge = errors.New("附件大小不能超过 5MB")
	ErrAttachmentBadType  = errors.New("附件格式不支持，仅支持图片")
	ErrInvalidWatchedOn   = errors.New("观看日期格式无效")
)

const maxAttachmentSize = 5 << 20

// 附件 MIME 白名单
var allowedAttachmentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ReviewAttachment 待上传的附件（由 handler 从 multipart 表单提取）
type ReviewAttachment struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// MirrorSyncer 媒体镜像同步（MediaService 实现）
type MirrorSyncer interface {
	SyncMirror(ctx context.Context, mediaType string, mediaID int64) error
}

type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	userRepo   *repository.UserRepository
	mirror     MirrorSyncer
	storage    ObjectStorage
	events     EventPublisher
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	userRepo *repository.UserRepository,
	mirror MirrorSyncer,
	storage ObjectStorage,
	events EventPublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		mirror:     mirror,
		storage:    storage,
		events:     events,
	}
}

// Create 创建观影记录
// 顺序：校验 → 镜像同步（失败即中止，不留半成品）→ 附件上传（尽力而为）→
// 事务写入（计数自增 + 记录 + 提及）→ 活动事件
func (s *ReviewService) Create(ctx context.Context, userID int64, req *dto.ReviewCreateRequest, attachment *ReviewAttachment) (*dto.ReviewInfo, error) {
	watchedOn, err := time.Parse("2006-01-02", req.WatchedOn)
	if err != nil {
		return nil, ErrInvalidWatchedOn
	}

	// 附件在任何写入或上传之前校验
	if attachment != nil {
		if attachment.Size > maxAttachmentSize {
			return nil, ErrAttachmentTooLarge
		}
		if _, ok := allowedAttachmentTypes[attachment.ContentType]; !ok {
			return nil, ErrAttachmentBadType
		}
	}

	// 镜像先行：外部媒体拉不下来就不产生记录
	if err := s.mirror.SyncMirror(ctx, req.MediaType, req.MediaID); err != nil {
		if errors.Is(err, ErrMediaNotFound) || errors.Is(err, ErrInvalidMediaType) {
			return nil, err
		}
		return nil, ErrMediaSyncFailed
	}

	mentionIDs, err := s.resolveMentions(userID, req.WatchedWith)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		UserID:         userID,
		Rating:         req.Rating,
		Content:        req.Content,
		WatchedOn:      watchedOn,
		Spoiler:        req.Spoiler,
		ViewingMethod:  req.ViewingMethod,
		ViewingService: req.ViewingService,
	}
	if req.MediaType == model.MediaTypeTV {
		review.TVShowID = &req.MediaID
	} else {
		review.MovieID = &req.MediaID
	}

	// 附件上传失败不阻断记录创建
	if attachment != nil {
		if url, err := s.uploadAttachment(ctx, userID, attachment); err != nil {
			logger.Error("Upload review attachment failed",
				zap.Int64("user_id", userID), zap.Error(err))
		} else {
			review.AttachmentURLs = []string{url}
		}
	}

	if err := s.reviewRepo.CreateWithMentions(review, mentionIDs); err != nil {
		logger.Error("Create review failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	if err := s.userRepo.IncrementReviewCount(userID); err != nil {
		logger.Warn("Increment user review count failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.publishReviewEvent(ctx, infraKafka.EventReviewCreated, review, mentionIDs)

	info := reviewToInfo(review)
	info.WatchedWith = mentionIDs
	return info, nil
}

// Get 查询单条观影记录
func (s *ReviewService) Get(ctx context.Context, id int64) (*dto.ReviewInfo, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	info := reviewToInfo(review)
	for _, m := range review.Mentions {
		info.WatchedWith = append(info.WatchedWith, m.MentionedUserID)
	}
	return info, nil
}

// Delete 删除观影记录（仅本人），计数器随事务回退
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrReviewNoPermission
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	if err := s.userRepo.DecrementReviewCount(userID); err != nil {
		logger.Warn("Decrement user review count failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.publishReviewEvent(ctx, infraKafka.EventReviewDeleted, review, nil)
	return nil
}

// ListByUser 用户的观影日记（按观看日期倒序）
func (s *ReviewService) ListByUser(ctx context.Context, userID int64, page, pageSize int) (*dto.ReviewListData, error) {
	skip := (page - 1) * pageSize
	reviews, total, err := s.reviewRepo.ListByUser(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.ReviewInfo, 0, len(reviews))
	for i := range reviews {
		infos = append(infos, *reviewToInfo(&reviews[i]))
	}

	return &dto.ReviewListData{
		Reviews:    infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// ListByMedia 某个媒体下的观影记录
func (s *ReviewService) ListByMedia(ctx context.Context, mediaType string, mediaID int64, page, pageSize int) (*dto.ReviewListData, error) {
	if mediaType != model.MediaTypeMovie && mediaType != model.MediaTypeTV {
		return nil, ErrInvalidMediaType
	}

	skip := (page - 1) * pageSize
	reviews, total, err := s.reviewRepo.ListByMedia(mediaType, mediaID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.ReviewInfo, 0, len(reviews))
	for i := range reviews {
		info := reviewToInfo(&reviews[i])
		if reviews[i].User.ID != 0 {
			info.User = &dto.UserBrief{
				ID:       reviews[i].User.ID,
				Username: reviews[i].User.UserName,
				Avatar:   reviews[i].User.Avatar,
			}
		}
		infos = append(infos, *info)
	}

	return &dto.ReviewListData{
		Reviews:    infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// resolveMentions 过滤提及列表：去掉自己、去重、丢弃不存在的用户
func (s *ReviewService) resolveMentions(userID int64, watchedWith []int64) ([]int64, error) {
	if len(watchedWith) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(watchedWith))
	candidates := make([]int64, 0, len(watchedWith))
	for _, id := range watchedWith {
		if id == userID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		candidates = append(candidates, id)
	}

	return s.userRepo.FilterExistingIDs(candidates)
}

func (s *ReviewService) uploadAttachment(ctx context.Context, userID int64, attachment *ReviewAttachment) (string, error) {
	ext := allowedAttachmentTypes[attachment.ContentType]
	if e := path.Ext(attachment.Filename); e != "" {
		ext = e
	}
	objectName := fmt.Sprintf("reviews/%d/%s%s", userID, uuid.New().String(), ext)
	return s.storage.UploadPublic(ctx, objectName, attachment.Reader, attachment.Size, attachment.ContentType)
}

// publishReviewEvent 发布活动事件，失败只记日志（通知走异步补偿）
func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *model.Review, mentionIDs []int64) {
	if s.events == nil {
		return
	}

	reviewID := review.ID
	event := &infraKafka.ActivityEvent{
		Type:             eventType,
		ActorID:          review.UserID,
		ReviewID:         &reviewID,
		MediaType:        review.MediaType(),
		MediaID:          review.MediaID(),
		MentionedUserIDs: mentionIDs,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Error("Publish activity event failed",
			zap.String("event_type", eventType),
			zap.Int64("review_id", review.ID),
			zap.Error(err))
	}
}

func reviewToInfo(review *model.Review) *dto.ReviewInfo {
	info := &dto.ReviewInfo{
		ID:             review.ID,
		UserID:         review.UserID,
		MediaType:      review.MediaType(),
		MediaID:        review.MediaID(),
		Rating:         review.Rating,
		Content:        review.Content,
		WatchedOn:      review.WatchedOn.Format("2006-01-02"),
		Spoiler:        review.Spoiler,
		ViewingMethod:  review.ViewingMethod,
		ViewingService: review.ViewingService,
		IsRewatch:      review.IsRewatch,
		RewatchCount:   review.RewatchCount,
		AttachmentURLs: review.AttachmentURLs,
		CreatedAt:      review.CreatedAt,
	}

	if review.Movie != nil {
		info.Media = movieToMediaInfo(review.Movie)
	} else if review.TVShow != nil {
		info.Media = tvShowToMediaInfo(review.TVShow)
	}
	return info
}
