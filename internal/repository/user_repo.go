package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 查询用户（排除已删除）
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ? AND is_delete = 0", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDIncludeDeleted 根据 ID 查询用户（包含已删除，管理员用）
func (r *UserRepository) GetByIDIncludeDeleted(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名查询用户（排除已删除）
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_name = ? AND is_delete = 0", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户（排除已删除）
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ? AND is_delete = 0", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户字段（传入 map，只更新给定字段）
func (r *UserRepository) Update(id int64, updates map[string]interface{}) (*model.User, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByIDIncludeDeleted(id)
}

// ExistsByUsername 检查用户名是否已存在
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("user_name = ? AND is_delete = 0", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail 检查邮箱是否已存在
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ? AND is_delete = 0", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListWithFilters 带筛选条件的分页查询
func (r *UserRepository) ListWithFilters(skip, limit int, username, userRole *string) ([]model.User, int64, error) {
	query := r.db.Model(&model.User{}).Where("is_delete = 0")

	if username != nil && *username != "" {
		query = query.Where("user_name ILIKE ?", "%"+*username+"%")
	}
	if userRole != nil && *userRole != "" {
		query = query.Where("user_role = ?", *userRole)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := query.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetByIDs 批量查询用户
func (r *UserRepository) GetByIDs(ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.Where("id IN ? AND is_delete = 0", ids).Find(&users).Error
	return users, err
}

// FilterExistingIDs 返回给定 ID 中实际存在（未删除）的用户 ID
func (r *UserRepository) FilterExistingIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.Model(&model.User{}).
		Where("id IN ? AND is_delete = 0", ids).
		Pluck("id", &existing).Error
	return existing, err
}

// SetOnboarded 标记用户完成初始引导
func (r *UserRepository) SetOnboarded(id int64) error {
	result := r.db.Model(&model.User{}).Where("id = ? AND is_delete = 0", id).
		UpdateColumn("onboarded", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementFollowCount 关注数 +1
func (r *UserRepository) IncrementFollowCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("follow_count", gorm.Expr("follow_count + 1")).Error
}

// DecrementFollowCount 关注数 -1（不低于 0）
func (r *UserRepository) DecrementFollowCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND follow_count > 0", id).
		UpdateColumn("follow_count", gorm.Expr("follow_count - 1")).Error
}

// IncrementFollowerCount 粉丝数 +1
func (r *UserRepository) IncrementFollowerCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("follower_count", gorm.Expr("follower_count + 1")).Error
}

// DecrementFollowerCount 粉丝数 -1（不低于 0）
func (r *UserRepository) DecrementFollowerCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND follower_count > 0", id).
		UpdateColumn("follower_count", gorm.Expr("follower_count - 1")).Error
}

// IncrementReviewCount 观影记录数 +1
func (r *UserRepository) IncrementReviewCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("review_count", gorm.Expr("review_count + 1")).Error
}

// DecrementReviewCount 观影记录数 -1（不低于 0）
func (r *UserRepository) DecrementReviewCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND review_count > 0", id).
		UpdateColumn("review_count", gorm.Expr("review_count - 1")).Error
}
