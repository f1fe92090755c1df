package dto

import "time"

// MediaInfo 媒体镜像信息（电影与剧集统一视图）
type MediaInfo struct {
	ID               int64     `json:"id"`
	MediaType        string    `json:"media_type"`
	Title            string    `json:"title"`
	PosterPath       *string   `json:"poster_path"`
	ReleaseDate      *string   `json:"release_date"`
	OriginalLanguage string    `json:"original_language"`
	Adult            bool      `json:"adult"`
	CachedAt         time.Time `json:"cached_at"`
}

// MediaDetailData 媒体详情响应（镜像 + 用户态 + 统计）
type MediaDetailData struct {
	Media       MediaInfo `json:"media"`
	ReviewCount int64     `json:"review_count"`
	SavedCount  int64     `json:"saved_count"`
	IsSaved     bool      `json:"is_saved"`
	WatchCount  int64     `json:"watch_count"`
}

// RemoteSearchRequest 外部元数据搜索请求
type RemoteSearchRequest struct {
	Q    string `form:"q" binding:"required,min=1,max=200"`
	Page int    `form:"page" binding:"omitempty,min=1"`
}

// RemoteSearchItem 外部搜索结果条目
type RemoteSearchItem struct {
	ID          int64   `json:"id"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// RemoteSearchData 外部搜索结果
type RemoteSearchData struct {
	Results      []RemoteSearchItem `json:"results"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int                `json:"total_results"`
}
