package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create 创建片单
func (r *ListRepository) Create(list *model.List) error {
	return r.db.Create(list).Error
}

// GetByID 查询片单
func (r *ListRepository) GetByID(id int64) (*model.List, error) {
	var list model.List
	if err := r.db.First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// GetByIDWithItems 查询片单及其条目（按排序序号）
func (r *ListRepository) GetByIDWithItems(id int64) (*model.List, error) {
	var list model.List
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, created_at ASC")
	}).First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Update 更新片单字段
func (r *ListRepository) Update(id int64, updates map[string]interface{}) (*model.List, error) {
	result := r.db.Model(&model.List{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除片单及其所有条目
func (r *ListRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&model.ListItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.List{}, "id = ?", id).Error
	})
}

// ListByUser 获取用户的片单列表
func (r *ListRepository) ListByUser(userID int64, includePrivate bool, skip, limit int) ([]model.List, int64, error) {
	query := r.db.Model(&model.List{}).Where("user_id = ?", userID)
	if !includePrivate {
		query = query.Where("is_public = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lists []model.List
	err := query.Order("updated_at DESC").Offset(skip).Limit(limit).Find(&lists).Error
	if err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

// AddItem 向片单追加条目（排到末尾），并维护条目计数
func (r *ListRepository) AddItem(listID int64, mediaType string, mediaID int64) (*model.ListItem, error) {
	var item *model.ListItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&model.ListItem{}).
			Where("list_id = ?", listID).
			Select("COALESCE(MAX(sort_order), -1)").
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}

		item = &model.ListItem{
			ListID:    listID,
			MediaType: mediaType,
			MediaID:   mediaID,
			SortOrder: maxOrder + 1,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		return tx.Model(&model.List{}).Where("id = ?", listID).
			UpdateColumn("item_count", gorm.Expr("item_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 从片单删除条目，并维护条目计数
func (r *ListRepository) RemoveItem(listID int64, mediaType string, mediaID int64) (bool, error) {
	var removed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("list_id = ? AND media_type = ? AND media_id = ?", listID, mediaType, mediaID).
			Delete(&model.ListItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Model(&model.List{}).Where("id = ? AND item_count > 0", listID).
			UpdateColumn("item_count", gorm.Expr("item_count - 1")).Error
	})
	return removed, err
}

// ExistsItem 检查条目是否已在片单中
func (r *ListRepository) ExistsItem(listID int64, mediaType string, mediaID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.ListItem{}).
		Where("list_id = ? AND media_type = ? AND media_id = ?", listID, mediaType, mediaID).
		Count(&count).Error
	return count > 0, err
}

// ReorderItems 按给定条目 ID 顺序重排片单
func (r *ListRepository) ReorderItems(listID int64, orderedItemIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, itemID := range orderedItemIDs {
			result := tx.Model(&model.ListItem{}).
				Where("id = ? AND list_id = ?", itemID, listID).
				UpdateColumn("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
