package dto

// FollowResult 关注/取消关注结果
type FollowResult struct {
	FollowerID    int64 `json:"follower_id"`
	FollowingID   int64 `json:"following_id"`
	IsFollowing   bool  `json:"is_following"`
	FollowCount   int64 `json:"follow_count"`
	FollowerCount int64 `json:"follower_count"`
}

// FollowUserInfo 关注/粉丝列表中的用户信息
type FollowUserInfo struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	DisplayName   *string `json:"display_name"`
	Avatar        *string `json:"avatar"`
	FollowCount   int64   `json:"follow_count"`
	FollowerCount int64   `json:"follower_count"`
}

// FollowListData 关注/粉丝列表数据
type FollowListData struct {
	Users      []FollowUserInfo `json:"users"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int64            `json:"total_pages"`
}

// BatchFollowStatusRequest 批量查询关注状态请求
type BatchFollowStatusRequest struct {
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,max=100"`
}
