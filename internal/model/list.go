package model

import "time"

// List 用户片单模型
type List struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:片单ID" json:"id"`
	UserID      int64     `gorm:"not null;index:idx_lists_user_id;comment:片单所有者ID" json:"user_id"`
	Name        string    `gorm:"size:255;not null;comment:片单名称" json:"name"`
	Description *string   `gorm:"size:2000;comment:片单描述" json:"description"`
	IsPublic    bool      `gorm:"not null;default:true;comment:是否公开" json:"is_public"`
	ItemCount   int64     `gorm:"not null;default:0;comment:条目数量" json:"item_count"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Items []ListItem `gorm:"foreignKey:ListID" json:"items,omitempty"`
}

func (List) TableName() string {
	return "lists"
}

// ListItem 片单条目模型
type ListItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:条目ID" json:"id"`
	ListID    int64     `gorm:"not null;uniqueIndex:uq_list_media;index:idx_list_items_list_id;comment:所属片单ID" json:"list_id"`
	MediaType string    `gorm:"size:10;not null;uniqueIndex:uq_list_media;comment:媒体类型" json:"media_type"`
	MediaID   int64     `gorm:"not null;uniqueIndex:uq_list_media;comment:外部媒体ID" json:"media_id"`
	SortOrder int       `gorm:"not null;default:0;index:idx_list_items_sort;comment:排序序号" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:添加时间" json:"created_at"`
}

func (ListItem) TableName() string {
	return "list_items"
}
