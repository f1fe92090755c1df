package dto

import "time"

// ReviewCreateRequest 创建观影记录请求（multipart/form-data，可附带一张图片附件）
type ReviewCreateRequest struct {
	MediaType      string  `form:"media_type" binding:"required,oneof=movie tv"`
	MediaID        int64   `form:"media_id" binding:"required,gt=0"`
	Rating         float64 `form:"rating" binding:"min=0,max=5"`
	Content        string  `form:"content" binding:"omitempty,max=10000"`
	WatchedOn      string  `form:"watched_on" binding:"required,datetime=2006-01-02"`
	Spoiler        bool    `form:"spoiler"`
	ViewingMethod  *string `form:"viewing_method" binding:"omitempty,oneof=cinema streaming physical tv airplane other"`
	ViewingService *string `form:"viewing_service" binding:"omitempty,max=100"`
	WatchedWith    []int64 `form:"watched_with" binding:"omitempty,max=20,dive,gt=0"`
}

// ReviewInfo 观影记录详情
type ReviewInfo struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	MediaType      string     `json:"media_type"`
	MediaID        int64      `json:"media_id"`
	Rating         float64    `json:"rating"`
	Content        string     `json:"content"`
	WatchedOn      string     `json:"watched_on"`
	Spoiler        bool       `json:"spoiler"`
	ViewingMethod  *string    `json:"viewing_method"`
	ViewingService *string    `json:"viewing_service"`
	IsRewatch      bool       `json:"is_rewatch"`
	RewatchCount   int64      `json:"rewatch_count"`
	AttachmentURLs []string   `json:"attachment_urls"`
	WatchedWith    []int64    `json:"watched_with,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Media          *MediaInfo `json:"media,omitempty"`
	User           *UserBrief `json:"user,omitempty"`
}

// UserBrief 记录中嵌套的用户简要信息
type UserBrief struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// ReviewListData 观影记录列表数据
type ReviewListData struct {
	Reviews    []ReviewInfo `json:"reviews"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int64        `json:"total_pages"`
}
