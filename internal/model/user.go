package model

// User 用户模型
type User struct {
	ID            int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName      string  `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"user_name"`
	Email         string  `gorm:"size:255;not null;uniqueIndex;comment:邮箱" json:"email"`
	Password      string  `gorm:"size:255;not null;comment:密码" json:"-"` // json:"-" 序列化时忽略密码
	DisplayName   *string `gorm:"size:255;comment:昵称" json:"display_name"`
	Bio           *string `gorm:"size:1000;comment:个人简介" json:"bio"`
	Avatar        *string `gorm:"size:500;comment:用户头像" json:"avatar"`
	FollowCount   int64   `gorm:"not null;default:0;comment:关注其他用户个数" json:"follow_count"`
	FollowerCount int64   `gorm:"not null;default:0;comment:粉丝个数" json:"follower_count"`
	ReviewCount   int64   `gorm:"not null;default:0;comment:已记录的观影数量" json:"review_count"`
	Onboarded     bool    `gorm:"not null;default:false;comment:是否完成初始引导" json:"onboarded"`
	UserRole      string  `gorm:"size:256;not null;default:'user';comment:用户角色" json:"user_role"`
	IsDelete      int64   `gorm:"not null;default:0;comment:删除标识" json:"-"`

	// 关联关系
	Reviews    []Review    `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	SavedItems []SavedItem `gorm:"foreignKey:UserID" json:"saved_items,omitempty"`
	Lists      []List      `gorm:"foreignKey:UserID" json:"lists,omitempty"`
}

func (User) TableName() string {
	return "users"
}
