package dto

// SearchMediaRequest 本地媒体搜索请求参数
type SearchMediaRequest struct {
	Q         string `form:"q" binding:"required,min=1,max=200"`
	MediaType string `form:"media_type" binding:"omitempty,oneof=movie tv"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// SearchMediaInfo 搜索结果中的媒体信息
type SearchMediaInfo struct {
	ID               int64               `json:"id"`
	MediaType        string              `json:"media_type"`
	Title            string              `json:"title"`
	PosterPath       *string             `json:"poster_path"`
	ReleaseDate      *string             `json:"release_date"`
	OriginalLanguage string              `json:"original_language"`
	ReviewCount      int64               `json:"review_count"`
	SavedCount       int64               `json:"saved_count"`
	Highlight        map[string][]string `json:"highlight,omitempty"`
}

// SearchMediaData 搜索结果
type SearchMediaData struct {
	Media      []SearchMediaInfo `json:"media"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int64             `json:"total_pages"`
}
