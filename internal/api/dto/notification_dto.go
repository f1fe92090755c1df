package dto

import "time"

// NotificationInfo 通知信息
type NotificationInfo struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actor_id"`
	Type      string    `json:"type"`
	ReviewID  *int64    `json:"review_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListData 通知列表数据
type NotificationListData struct {
	Notifications []NotificationInfo `json:"notifications"`
	UnreadCount   int64              `json:"unread_count"`
	Total         int64              `json:"total"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	TotalPages    int64              `json:"total_pages"`
}
