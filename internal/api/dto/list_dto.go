package dto

import "time"

// ListCreateRequest 创建片单请求
type ListCreateRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

// ListUpdateRequest 更新片单请求
type ListUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

// ListItemRequest 片单条目请求
type ListItemRequest struct {
	MediaType string `json:"media_type" binding:"required,oneof=movie tv"`
	MediaID   int64  `json:"media_id" binding:"required,gt=0"`
}

// ListReorderRequest 片单重排请求
type ListReorderRequest struct {
	ItemIDs []int64 `json:"item_ids" binding:"required,min=1,max=500"`
}

// ListItemInfo 片单条目信息
type ListItemInfo struct {
	ID        int64     `json:"id"`
	MediaType string    `json:"media_type"`
	MediaID   int64     `json:"media_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ListInfo 片单信息
type ListInfo struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	IsPublic    bool           `json:"is_public"`
	ItemCount   int64          `json:"item_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []ListItemInfo `json:"items,omitempty"`
}

// ListListData 片单列表数据
type ListListData struct {
	Lists      []ListInfo `json:"lists"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}
