package tmdb

// MovieDetails 电影详情（仅保留本服务关心的字段）
type MovieDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Overview         string  `json:"overview"`
	Runtime          int     `json:"runtime"`
}

// TVDetails 剧集详情
type TVDetails struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	PosterPath       *string `json:"poster_path"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Overview         string  `json:"overview"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
}

// SearchItem 多类型搜索结果条目（media_type 为 movie / tv / person）
type SearchItem struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
}

// SearchResponse 多类型搜索响应
type SearchResponse struct {
	Page         int          `json:"page"`
	Results      []SearchItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}
