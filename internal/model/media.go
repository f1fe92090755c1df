package model

import "time"

// 媒体类型枚举
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Movie 电影镜像模型（外部元数据的本地裁剪副本，主键即外部 ID）
type Movie struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false;comment:外部电影ID" json:"id"`
	Title            string    `gorm:"size:500;not null;comment:电影标题" json:"title"`
	PosterPath       *string   `gorm:"size:500;comment:海报路径" json:"poster_path"`
	ReleaseDate      *string   `gorm:"size:20;comment:上映日期" json:"release_date"`
	OriginalLanguage string    `gorm:"size:20;comment:原始语言" json:"original_language"`
	Adult            bool      `gorm:"not null;default:false;comment:成人内容标识" json:"adult"`
	CachedAt         time.Time `gorm:"not null;comment:镜像写入时间" json:"cached_at"`
}

func (Movie) TableName() string {
	return "movies"
}

// TVShow 剧集镜像模型
type TVShow struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false;comment:外部剧集ID" json:"id"`
	Name             string    `gorm:"size:500;not null;comment:剧集名称" json:"name"`
	PosterPath       *string   `gorm:"size:500;comment:海报路径" json:"poster_path"`
	FirstAirDate     *string   `gorm:"size:20;comment:首播日期" json:"first_air_date"`
	OriginalLanguage string    `gorm:"size:20;comment:原始语言" json:"original_language"`
	Adult            bool      `gorm:"not null;default:false;comment:成人内容标识" json:"adult"`
	CachedAt         time.Time `gorm:"not null;comment:镜像写入时间" json:"cached_at"`
}

func (TVShow) TableName() string {
	return "tv_shows"
}
