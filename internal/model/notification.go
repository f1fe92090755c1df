package model

import "time"

// 通知类型枚举
const (
	NotificationTypeMention = "mention"
	NotificationTypeFollow  = "follow"
)

// Notification 通知模型（由后台 worker 异步写入）
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:通知ID" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_notifications_user_id;comment:接收用户ID" json:"user_id"`
	ActorID   int64     `gorm:"not null;comment:触发用户ID" json:"actor_id"`
	Type      string    `gorm:"size:20;not null;comment:通知类型" json:"type"`
	ReviewID  *int64    `gorm:"comment:关联的观影记录ID" json:"review_id"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_is_read;comment:是否已读" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_notifications_created_at;comment:创建时间" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
