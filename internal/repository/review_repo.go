package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// rewatchUpsertSQL (user, media) 唯一行上的原子自增
// 计数与记录写入同处一个事务，并发提交不会算出相同的 rewatch_count
const rewatchUpsertSQL = `
INSERT INTO rewatch_counters (user_id, media_type, media_id, watch_count)
VALUES (?, ?, ?, 1)
ON CONFLICT (user_id, media_type, media_id)
DO UPDATE SET watch_count = rewatch_counters.watch_count + 1
RETURNING watch_count`

// CreateWithMentions 创建观影记录：重看计数自增、记录插入、提及插入同一事务
// 写入成功后 review.RewatchCount / review.IsRewatch 已按计数器结果回填
func (r *ReviewRepository) CreateWithMentions(review *model.Review, mentionedUserIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var watchCount int64
		err := tx.Raw(rewatchUpsertSQL, review.UserID, review.MediaType(), review.MediaID()).
			Scan(&watchCount).Error
		if err != nil {
			return err
		}

		review.RewatchCount = watchCount
		review.IsRewatch = watchCount > 1

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		for _, uid := range mentionedUserIDs {
			mention := &model.ReviewMention{
				ReviewID:        review.ID,
				MentionedUserID: uid,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mention).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID 查询观影记录（含镜像与提及）
func (r *ReviewRepository) GetByID(id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Movie").Preload("TVShow").Preload("Mentions").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete 删除观影记录：提及删除、记录删除、计数器回退同一事务
func (r *ReviewRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewMention{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.Review{}, "id = ?", id).Error; err != nil {
			return err
		}

		// 计数器不低于 0
		return tx.Model(&model.RewatchCounter{}).
			Where("user_id = ? AND media_type = ? AND media_id = ? AND watch_count > 0",
				review.UserID, review.MediaType(), review.MediaID()).
			UpdateColumn("watch_count", gorm.Expr("watch_count - 1")).Error
	})
}

// ListByUser 获取用户的观影记录列表（按观看日期倒序，即日记视图）
func (r *ReviewRepository) ListByUser(userID int64, skip, limit int) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := r.db.Preload("Movie").Preload("TVShow").
		Where("user_id = ?", userID).
		Order("watched_on DESC, created_at DESC").
		Offset(skip).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByMedia 获取某个媒体的观影记录列表
func (r *ReviewRepository) ListByMedia(mediaType string, mediaID int64, skip, limit int) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{})
	if mediaType == model.MediaTypeTV {
		query = query.Where("tv_show_id = ?", mediaID)
	} else {
		query = query.Where("movie_id = ?", mediaID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// CountByMedia 统计某个媒体的记录总数
func (r *ReviewRepository) CountByMedia(mediaType string, mediaID int64) (int64, error) {
	query := r.db.Model(&model.Review{})
	if mediaType == model.MediaTypeTV {
		query = query.Where("tv_show_id = ?", mediaID)
	} else {
		query = query.Where("movie_id = ?", mediaID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// GetWatchCount 读取重看计数器当前值（无记录返回 0）
func (r *ReviewRepository) GetWatchCount(userID int64, mediaType string, mediaID int64) (int64, error) {
	var counter model.RewatchCounter
	err := r.db.Where("user_id = ? AND media_type = ? AND media_id = ?", userID, mediaType, mediaID).
		First(&counter).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return counter.WatchCount, nil
}
