package model

import "time"

// SavedItem 收藏模型（行存在即已收藏，无软删除）
type SavedItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_media_saved;index:idx_saved_user_id;comment:收藏用户ID" json:"user_id"`
	MediaType string    `gorm:"size:10;not null;uniqueIndex:uq_user_media_saved;comment:媒体类型" json:"media_type"`
	MediaID   int64     `gorm:"not null;uniqueIndex:uq_user_media_saved;index:idx_saved_media_id;comment:外部媒体ID" json:"media_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_saved_created_at;comment:收藏时间" json:"created_at"`
}

func (SavedItem) TableName() string {
	return "saved_items"
}
