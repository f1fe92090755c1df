package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
)

type SavedRepository struct {
	db *gorm.DB
}

func NewSavedRepository(db *gorm.DB) *SavedRepository {
	return &SavedRepository{db: db}
}

// Create 创建收藏
func (r *SavedRepository) Create(userID int64, mediaType string, mediaID int64) (*model.SavedItem, error) {
	item := &model.SavedItem{UserID: userID, MediaType: mediaType, MediaID: mediaID}
	if err := r.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除收藏
func (r *SavedRepository) Delete(userID int64, mediaType string, mediaID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND media_type = ? AND media_id = ?", userID, mediaType, mediaID).
		Delete(&model.SavedItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查收藏是否存在
func (r *SavedRepository) Exists(userID int64, mediaType string, mediaID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.SavedItem{}).
		Where("user_id = ? AND media_type = ? AND media_id = ?", userID, mediaType, mediaID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户的收藏列表
func (r *SavedRepository) ListByUser(userID int64, skip, limit int) ([]model.SavedItem, int64, error) {
	query := r.db.Model(&model.SavedItem{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.SavedItem
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByMedia 统计某个媒体被收藏的次数
func (r *SavedRepository) CountByMedia(mediaType string, mediaID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.SavedItem{}).
		Where("media_type = ? AND media_id = ?", mediaType, mediaID).
		Count(&count).Error
	return count, err
}

// BatchCheckSaved 批量查询收藏状态（key 为媒体 ID，调用方保证同一 mediaType）
func (r *SavedRepository) BatchCheckSaved(userID int64, mediaType string, mediaIDs []int64) (map[int64]bool, error) {
	if len(mediaIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var savedIDs []int64
	err := r.db.Model(&model.SavedItem{}).
		Where("user_id = ? AND media_type = ? AND media_id IN ?", userID, mediaType, mediaIDs).
		Pluck("media_id", &savedIDs).Error
	if err != nil {
		return nil, err
	}

	savedSet := make(map[int64]bool, len(savedIDs))
	for _, id := range savedIDs {
		savedSet[id] = true
	}

	result := make(map[int64]bool, len(mediaIDs))
	for _, id := range mediaIDs {
		result[id] = savedSet[id]
	}
	return result, nil
}
