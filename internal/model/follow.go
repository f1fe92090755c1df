package model

import "time"

// 关注状态枚举（pending 为保留值，当前流程只使用 accepted）
const (
	FollowStatusAccepted = "accepted"
	FollowStatusPending  = "pending"
)

// Follow 用户关注关系模型
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:关注关系ID" json:"id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:uq_follow_edge;index:idx_follows_follower_id;comment:粉丝用户ID" json:"follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:uq_follow_edge;index:idx_follows_following_id;comment:被关注用户ID" json:"following_id"`
	Status      string    `gorm:"size:20;not null;default:'accepted';comment:关注状态" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_follows_created_at;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
