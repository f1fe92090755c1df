package model

import "time"

// 观看方式枚举
const (
	ViewingMethodCinema    = "cinema"
	ViewingMethodStreaming = "streaming"
	ViewingMethodPhysical  = "physical"
	ViewingMethodTV        = "tv"
	ViewingMethodAirplane  = "airplane"
	ViewingMethodOther     = "other"
)

// Review 观影记录模型（movie_id 与 tv_show_id 二选一）
type Review struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;comment:记录ID" json:"id"`
	UserID         int64     `gorm:"not null;index:idx_reviews_user_id;comment:记录用户ID" json:"user_id"`
	MovieID        *int64    `gorm:"index:idx_reviews_movie_id;comment:电影ID" json:"movie_id"`
	TVShowID       *int64    `gorm:"index:idx_reviews_tv_show_id;comment:剧集ID" json:"tv_show_id"`
	Rating         float64   `gorm:"not null;comment:评分(0-5)" json:"rating"`
	Content        string    `gorm:"type:text;comment:影评内容" json:"content"`
	WatchedOn      time.Time `gorm:"not null;index:idx_reviews_watched_on;comment:观看日期" json:"watched_on"`
	Spoiler        bool      `gorm:"not null;default:false;comment:剧透标识" json:"spoiler"`
	ViewingMethod  *string   `gorm:"size:50;comment:观看方式" json:"viewing_method"`
	ViewingService *string   `gorm:"size:100;comment:观看平台" json:"viewing_service"`
	IsRewatch      bool      `gorm:"not null;default:false;comment:是否重看" json:"is_rewatch"`
	RewatchCount   int64     `gorm:"not null;default:1;comment:第几次观看" json:"rewatch_count"`
	AttachmentURLs []string  `gorm:"serializer:json;type:text;comment:附件URL列表" json:"attachment_urls"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_reviews_created_at;comment:创建时间" json:"created_at"`

	// 关联关系
	User     User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie    *Movie          `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	TVShow   *TVShow         `gorm:"foreignKey:TVShowID" json:"tv_show,omitempty"`
	Mentions []ReviewMention `gorm:"foreignKey:ReviewID" json:"mentions,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// MediaType 返回记录引用的媒体类型
func (r *Review) MediaType() string {
	if r.TVShowID != nil {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

// MediaID 返回记录引用的外部媒体 ID
func (r *Review) MediaID() int64 {
	if r.TVShowID != nil {
		return *r.TVShowID
	}
	if r.MovieID != nil {
		return *r.MovieID
	}
	return 0
}

// ReviewMention 同行观影提及（watched with）
type ReviewMention struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;comment:提及ID" json:"id"`
	ReviewID        int64     `gorm:"not null;uniqueIndex:uq_review_mention;index:idx_mentions_review_id;comment:所属记录ID" json:"review_id"`
	MentionedUserID int64     `gorm:"not null;uniqueIndex:uq_review_mention;index:idx_mentions_user_id;comment:被提及用户ID" json:"mentioned_user_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (ReviewMention) TableName() string {
	return "review_mentions"
}

// RewatchCounter 重看计数器（(user, media) 唯一行，原子自增）
type RewatchCounter struct {
	ID         int64  `gorm:"primaryKey;autoIncrement;comment:计数器ID" json:"id"`
	UserID     int64  `gorm:"not null;uniqueIndex:uq_rewatch_user_media;comment:用户ID" json:"user_id"`
	MediaType  string `gorm:"size:10;not null;uniqueIndex:uq_rewatch_user_media;comment:媒体类型" json:"media_type"`
	MediaID    int64  `gorm:"not null;uniqueIndex:uq_rewatch_user_media;comment:外部媒体ID" json:"media_id"`
	WatchCount int64  `gorm:"not null;default:0;comment:累计观看次数" json:"watch_count"`
}

func (RewatchCounter) TableName() string {
	return "rewatch_counters"
}
