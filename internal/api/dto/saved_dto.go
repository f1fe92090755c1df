package dto

import "time"

// SavedItemInfo 收藏记录信息
type SavedItemInfo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MediaType string    `json:"media_type"`
	MediaID   int64     `json:"media_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedListData 收藏列表数据
type SavedListData struct {
	Items      []SavedItemInfo `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int64           `json:"total_pages"`
}

// BatchSavedStatusRequest 批量查询收藏状态请求
type BatchSavedStatusRequest struct {
	MediaType string  `json:"media_type" binding:"required,oneof=movie tv"`
	MediaIDs  []int64 `json:"media_ids" binding:"required,min=1,max=100"`
}
