package dto

// UserInfo 用户公开信息（不含密码）
type UserInfo struct {
	ID            int64   `json:"id"`
	Username      string  `json:"user_name"`
	Email         string  `json:"email,omitempty"`
	DisplayName   *string `json:"display_name"`
	Bio           *string `json:"bio"`
	Avatar        *string `json:"avatar"`
	FollowCount   int64   `json:"follow_count"`
	FollowerCount int64   `json:"follower_count"`
	ReviewCount   int64   `json:"review_count"`
	Onboarded     bool    `json:"onboarded"`
	UserRole      string  `json:"user_role"`
}

// UserUpdateRequest 更新个人资料请求（multipart/form-data，可附带头像文件）
type UserUpdateRequest struct {
	DisplayName *string `form:"display_name" binding:"omitempty,max=255"`
	Bio         *string `form:"bio" binding:"omitempty,max=1000"`
}

// UserRoleUpdateRequest 设置用户角色请求（管理员）
type UserRoleUpdateRequest struct {
	UserRole string `json:"user_role" binding:"required,oneof=user admin"`
}

// UserListData 用户列表数据（管理员）
type UserListData struct {
	Users      []UserInfo `json:"users"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}
