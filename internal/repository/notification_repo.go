package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create 创建单条通知
func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

// CreateBatch 批量创建通知（worker 扇出用）
func (r *NotificationRepository) CreateBatch(ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

// ListByUser 获取用户的通知列表
func (r *NotificationRepository) ListByUser(userID int64, skip, limit int) ([]model.Notification, int64, error) {
	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ns []model.Notification
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&ns).Error
	if err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

// CountUnread 统计未读通知数
func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 将单条通知标记为已读（仅本人）
func (r *NotificationRepository) MarkRead(userID, notificationID int64) (bool, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAllRead 将用户所有通知标记为已读
func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true).Error
}
